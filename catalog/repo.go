package catalog

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Suppliers is the storage surface for supplier records.
type Suppliers interface {
	repository.Repository[*Supplier]

	GetByUUID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	GetByCode(ctx context.Context, code string) (*Supplier, error)
	ListFiltered(ctx context.Context, filter SupplierFilter) ([]*Supplier, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// SupplierFilter narrows supplier listings.
type SupplierFilter struct {
	ActiveOnly   bool
	ApprovedOnly bool
	Country      string
}

// Units is the storage surface for hotel property records.
type Units interface {
	repository.Repository[*Unit]

	GetByUUID(ctx context.Context, id uuid.UUID) (*Unit, error)
	GetByCode(ctx context.Context, code string) (*Unit, error)
	ListFiltered(ctx context.Context, activeOnly bool) ([]*Unit, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Products is the storage surface for product records.
type Products interface {
	repository.Repository[*Product]

	GetByUUID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	ListFiltered(ctx context.Context, filter ProductFilter) ([]*Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	ActiveOnly bool
	Category   string
}

// Allocations is the storage surface for per-unit stock counters.
type Allocations interface {
	repository.Repository[*StockAllocation]

	GetForProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*StockAllocation, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]*StockAllocation, error)
	AdjustStock(ctx context.Context, productID, unitID uuid.UUID, delta int) (*StockAllocation, error)
	AdjustStockTx(ctx context.Context, tx bun.IDB, productID, unitID uuid.UUID, delta int) (*StockAllocation, error)
}

type suppliers struct {
	repository.Repository[*Supplier]
	db *bun.DB
}

var (
	_ Suppliers                        = (*suppliers)(nil)
	_ repository.Repository[*Supplier] = (*suppliers)(nil)
)

func NewSuppliersRepository(db *bun.DB) Suppliers {
	repo := repository.NewRepository[*Supplier](db, repository.ModelHandlers[*Supplier]{
		NewRecord: func() *Supplier { return &Supplier{} },
		GetID: func(s *Supplier) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Supplier, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
		GetIdentifier: func() string {
			return "supplier_code"
		},
	})
	return &suppliers{Repository: repo, db: db}
}

func (r *suppliers) GetByUUID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return getByColumn[Supplier](ctx, r.db, "id", id)
}

func (r *suppliers) GetByCode(ctx context.Context, code string) (*Supplier, error) {
	return getByColumn[Supplier](ctx, r.db, "supplier_code", code)
}

func (r *suppliers) ListFiltered(ctx context.Context, filter SupplierFilter) ([]*Supplier, error) {
	records := []*Supplier{}
	q := r.db.NewSelect().Model(&records)

	if filter.ActiveOnly {
		q = q.Where("?TableAlias.is_active = ?", true)
	}
	if filter.ApprovedOnly {
		q = q.Where("?TableAlias.is_approved = ?", true)
	}
	if filter.Country != "" {
		q = q.Where("?TableAlias.country = ?", filter.Country)
	}

	if err := q.Order("company_name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *suppliers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID[Supplier](ctx, r.db, id)
}

type units struct {
	repository.Repository[*Unit]
	db *bun.DB
}

var (
	_ Units                        = (*units)(nil)
	_ repository.Repository[*Unit] = (*units)(nil)
)

func NewUnitsRepository(db *bun.DB) Units {
	repo := repository.NewRepository[*Unit](db, repository.ModelHandlers[*Unit]{
		NewRecord: func() *Unit { return &Unit{} },
		GetID: func(u *Unit) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *Unit, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "unit_code"
		},
	})
	return &units{Repository: repo, db: db}
}

func (r *units) GetByUUID(ctx context.Context, id uuid.UUID) (*Unit, error) {
	return getByColumn[Unit](ctx, r.db, "id", id)
}

func (r *units) GetByCode(ctx context.Context, code string) (*Unit, error) {
	return getByColumn[Unit](ctx, r.db, "unit_code", code)
}

func (r *units) ListFiltered(ctx context.Context, activeOnly bool) ([]*Unit, error) {
	records := []*Unit{}
	q := r.db.NewSelect().Model(&records)
	if activeOnly {
		q = q.Where("?TableAlias.is_active = ?", true)
	}
	if err := q.Order("unit_code ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *units) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID[Unit](ctx, r.db, id)
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

var (
	_ Products                        = (*products)(nil)
	_ repository.Repository[*Product] = (*products)(nil)
)

func NewProductsRepository(db *bun.DB) Products {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "sku"
		},
	})
	return &products{Repository: repo, db: db}
}

func (r *products) GetByUUID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return getByColumn[Product](ctx, r.db, "id", id)
}

func (r *products) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return getByColumn[Product](ctx, r.db, "sku", sku)
}

func (r *products) ListFiltered(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	records := []*Product{}
	q := r.db.NewSelect().Model(&records)

	if filter.ActiveOnly {
		q = q.Where("?TableAlias.is_active = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("?TableAlias.category = ?", filter.Category)
	}

	if err := q.Order("name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *products) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteByID[Product](ctx, r.db, id)
}

type allocations struct {
	repository.Repository[*StockAllocation]
	db *bun.DB
}

var (
	_ Allocations                             = (*allocations)(nil)
	_ repository.Repository[*StockAllocation] = (*allocations)(nil)
)

func NewAllocationsRepository(db *bun.DB) Allocations {
	repo := repository.NewRepository[*StockAllocation](db, repository.ModelHandlers[*StockAllocation]{
		NewRecord: func() *StockAllocation { return &StockAllocation{} },
		GetID: func(a *StockAllocation) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *StockAllocation, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})
	return &allocations{Repository: repo, db: db}
}

func (r *allocations) GetForProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*StockAllocation, error) {
	record := &StockAllocation{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.product_id = ?", productID).
		Where("?TableAlias.unit_id = ?", unitID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"product_id": productID.String(),
					"unit_id":    unitID.String(),
				})
		}
		return nil, err
	}
	return record, nil
}

func (r *allocations) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*StockAllocation, error) {
	records := []*StockAllocation{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.product_id = ?", productID).
		Order("unit_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *allocations) AdjustStock(ctx context.Context, productID, unitID uuid.UUID, delta int) (*StockAllocation, error) {
	return r.AdjustStockTx(ctx, r.db, productID, unitID, delta)
}

// AdjustStockTx applies a signed delta to the counter. Stock never goes
// negative; an adjustment below zero clamps to zero.
func (r *allocations) AdjustStockTx(ctx context.Context, tx bun.IDB, productID, unitID uuid.UUID, delta int) (*StockAllocation, error) {
	record := &StockAllocation{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.product_id = ?", productID).
		Where("?TableAlias.unit_id = ?", unitID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"product_id": productID.String(),
					"unit_id":    unitID.String(),
				})
		}
		return nil, err
	}

	record.CurrentStock += delta
	if record.CurrentStock < 0 {
		record.CurrentStock = 0
	}
	now := time.Now()
	record.UpdatedAt = &now

	if _, err := tx.NewUpdate().
		Model(record).
		Column("current_stock", "updated_at").
		WherePK().
		Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func getByColumn[T any](ctx context.Context, db bun.IDB, column string, value any) (*T, error) {
	record := new(T)
	err := db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{column: value})
		}
		return nil, err
	}
	return record, nil
}

// deleteByID issues a delete honoring the model's soft-delete column.
func deleteByID[T any](ctx context.Context, db bun.IDB, id uuid.UUID) error {
	record := new(T)
	res, err := db.NewDelete().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

// RepositoryManager exposes all catalogue repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Suppliers() Suppliers
	Units() Units
	Products() Products
	Allocations() Allocations
}

type mngr struct {
	db          *bun.DB
	suppliers   Suppliers
	units       Units
	products    Products
	allocations Allocations
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:          db,
		suppliers:   NewSuppliersRepository(db),
		units:       NewUnitsRepository(db),
		products:    NewProductsRepository(db),
		allocations: NewAllocationsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.suppliers == nil || m.units == nil || m.products == nil || m.allocations == nil {
		return errors.New("catalog repositories should be initialized")
	}
	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Suppliers() Suppliers   { return m.suppliers }
func (m mngr) Units() Units           { return m.units }
func (m mngr) Products() Products     { return m.products }
func (m mngr) Allocations() Allocations { return m.allocations }
