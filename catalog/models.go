package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StockStatus is derived from an allocation's counters. It is computed on
// read and never stored.
type StockStatus = string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOverstock  StockStatus = "overstock"
	StockStatusNormal     StockStatus = "normal"
)

// Supplier is a vendor approved (or pending approval) for procurement.
type Supplier struct {
	bun.BaseModel `bun:"table:suppliers,alias:sup"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	SupplierCode  string     `bun:"supplier_code,notnull,unique" json:"supplier_code"`
	CompanyName   string     `bun:"company_name,notnull" json:"company_name"`
	LegalName     string     `bun:"legal_name" json:"legal_name,omitempty"`
	ContactName   string     `bun:"contact_name" json:"contact_name,omitempty"`
	PrimaryPhone  string     `bun:"primary_phone" json:"primary_phone,omitempty"`
	PrimaryEmail  string     `bun:"primary_email" json:"primary_email,omitempty"`
	Website       string     `bun:"website" json:"website,omitempty"`
	City          string     `bun:"city" json:"city,omitempty"`
	Country       string     `bun:"country" json:"country,omitempty"`
	Currency      string     `bun:"currency,default:'USD'" json:"currency,omitempty"`
	PaymentTerms  string     `bun:"payment_terms" json:"payment_terms,omitempty"`
	Rating        float64    `bun:"rating,default:0" json:"rating"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	IsApproved    bool       `bun:"is_approved,notnull,default:false" json:"is_approved"`
	IsPreferred   bool       `bun:"is_preferred,notnull,default:false" json:"is_preferred"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Unit is a hotel property that places requisitions and holds stock.
type Unit struct {
	bun.BaseModel `bun:"table:units,alias:unt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UnitCode      string     `bun:"unit_code,notnull,unique" json:"unit_code"`
	Name          string     `bun:"name,notnull" json:"name"`
	DisplayName   string     `bun:"display_name" json:"display_name,omitempty"`
	PropertyType  string     `bun:"property_type" json:"property_type,omitempty"`
	Brand         string     `bun:"brand" json:"brand,omitempty"`
	StarRating    int        `bun:"star_rating" json:"star_rating,omitempty"`
	RoomCount     int        `bun:"room_count" json:"room_count,omitempty"`
	City          string     `bun:"city" json:"city,omitempty"`
	Country       string     `bun:"country" json:"country,omitempty"`
	Timezone      string     `bun:"timezone,default:'UTC'" json:"timezone,omitempty"`
	Currency      string     `bun:"currency,default:'USD'" json:"currency,omitempty"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Product is an item that can be procured. Stock is tracked per unit through
// StockAllocation, never on the product itself.
type Product struct {
	bun.BaseModel    `bun:"table:products,alias:prd"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	SKU              string     `bun:"sku,notnull,unique" json:"sku"`
	Name             string     `bun:"name,notnull" json:"name"`
	Description      string     `bun:"description" json:"description,omitempty"`
	Category         string     `bun:"category" json:"category,omitempty"`
	Brand            string     `bun:"brand" json:"brand,omitempty"`
	UnitOfMeasure    string     `bun:"unit_of_measure,notnull,default:'each'" json:"unit_of_measure"`
	PackSize         int        `bun:"pack_size,default:1" json:"pack_size"`
	IsPerishable     bool       `bun:"is_perishable,notnull,default:false" json:"is_perishable"`
	IsHazardous      bool       `bun:"is_hazardous,notnull,default:false" json:"is_hazardous"`
	RequiresApproval bool       `bun:"requires_approval,notnull,default:false" json:"requires_approval"`
	IsActive         bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	IsDiscontinued   bool       `bun:"is_discontinued,notnull,default:false" json:"is_discontinued"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt        *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// StockAllocation holds the per-unit stock counters for a product. One
// allocation exists per product/unit pair.
type StockAllocation struct {
	bun.BaseModel   `bun:"table:stock_allocations,alias:alc"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProductID       uuid.UUID  `bun:"product_id,notnull,type:uuid" json:"product_id"`
	UnitID          uuid.UUID  `bun:"unit_id,notnull,type:uuid" json:"unit_id"`
	CurrentStock    int        `bun:"current_stock,notnull,default:0" json:"current_stock"`
	MinStockLevel   int        `bun:"min_stock_level,notnull,default:0" json:"min_stock_level"`
	MaxStockLevel   int        `bun:"max_stock_level,notnull,default:100" json:"max_stock_level"`
	ReorderPoint    int        `bun:"reorder_point,notnull,default:10" json:"reorder_point"`
	ReorderQuantity int        `bun:"reorder_quantity,notnull,default:50" json:"reorder_quantity"`
	StorageLocation string     `bun:"storage_location" json:"storage_location,omitempty"`
	LastCountedAt   *time.Time `bun:"last_counted_at" json:"last_counted_at,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// StockStatus derives the status band from the counters. Out-of-stock wins
// over low; overstock only applies when the allocation is not already low.
func (a *StockAllocation) StockStatus() StockStatus {
	switch {
	case a.CurrentStock <= 0:
		return StockStatusOutOfStock
	case a.CurrentStock <= a.ReorderPoint:
		return StockStatusLowStock
	case a.CurrentStock >= a.MaxStockLevel:
		return StockStatusOverstock
	default:
		return StockStatusNormal
	}
}

// NeedsReorder reports whether stock has fallen to the reorder point.
func (a *StockAllocation) NeedsReorder() bool {
	return a.CurrentStock <= a.ReorderPoint
}
