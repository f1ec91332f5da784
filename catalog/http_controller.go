package catalog

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/hotelgrid/procure"
)

// Controller serves the catalogue endpoints: suppliers, units, products, and
// per-unit stock allocations.
type Controller struct {
	Debug        bool
	Logger       procure.Logger
	Repo         RepositoryManager
	ErrorHandler router.ErrorHandler
}

type ControllerOption func(*Controller) *Controller

func NewController(repo RepositoryManager, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:       procure.NewDefaultLogger(),
		Repo:         repo,
		ErrorHandler: procure.WriteJSONError,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in catalog controller...")
	}

	return c
}

func WithLogger(logger procure.Logger) ControllerOption {
	return func(c *Controller) *Controller {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// RouteMiddleware carries the guard chain for each access tier.
type RouteMiddleware struct {
	// Authenticated requires a valid access token and an active account
	Authenticated router.MiddlewareFunc
	// Manager additionally requires the manager role or above
	Manager router.MiddlewareFunc
	// Admin additionally requires the admin role or above
	Admin router.MiddlewareFunc
}

// RegisterRoutes mounts the catalogue surface. Reads need authentication,
// writes need manager, deletes need admin.
func RegisterRoutes[T any](app router.Router[T], c *Controller, mw RouteMiddleware) {
	app.Get("/suppliers", c.SupplierList, mw.Authenticated).SetName("suppliers.list")
	app.Post("/suppliers", c.SupplierCreate, mw.Manager).SetName("suppliers.create")
	app.Get("/suppliers/:id", c.SupplierShow, mw.Authenticated).SetName("suppliers.show")
	app.Post("/suppliers/:id", c.SupplierUpdate, mw.Manager).SetName("suppliers.update")
	app.Delete("/suppliers/:id", c.SupplierDelete, mw.Admin).SetName("suppliers.delete")

	app.Get("/units", c.UnitList, mw.Authenticated).SetName("units.list")
	app.Post("/units", c.UnitCreate, mw.Manager).SetName("units.create")
	app.Get("/units/:id", c.UnitShow, mw.Authenticated).SetName("units.show")
	app.Post("/units/:id", c.UnitUpdate, mw.Manager).SetName("units.update")
	app.Delete("/units/:id", c.UnitDelete, mw.Admin).SetName("units.delete")

	app.Get("/products", c.ProductList, mw.Authenticated).SetName("products.list")
	app.Post("/products", c.ProductCreate, mw.Manager).SetName("products.create")
	app.Get("/products/:id", c.ProductShow, mw.Authenticated).SetName("products.show")
	app.Post("/products/:id", c.ProductUpdate, mw.Manager).SetName("products.update")
	app.Delete("/products/:id", c.ProductDelete, mw.Admin).SetName("products.delete")

	app.Get("/products/:id/stock", c.StockList, mw.Authenticated).SetName("products.stock.list")
	app.Post("/products/:id/stock", c.StockAdjust, mw.Manager).SetName("products.stock.adjust")
}

// SupplierPayload is shared by create and update.
type SupplierPayload struct {
	SupplierCode string  `form:"supplier_code" json:"supplier_code"`
	CompanyName  string  `form:"company_name" json:"company_name"`
	LegalName    string  `form:"legal_name" json:"legal_name"`
	ContactName  string  `form:"contact_name" json:"contact_name"`
	PrimaryPhone string  `form:"primary_phone" json:"primary_phone"`
	PrimaryEmail string  `form:"primary_email" json:"primary_email"`
	Website      string  `form:"website" json:"website"`
	City         string  `form:"city" json:"city"`
	Country      string  `form:"country" json:"country"`
	Currency     string  `form:"currency" json:"currency"`
	PaymentTerms string  `form:"payment_terms" json:"payment_terms"`
	Rating       float64 `form:"rating" json:"rating"`
	IsActive     *bool   `form:"is_active" json:"is_active"`
	IsApproved   *bool   `form:"is_approved" json:"is_approved"`
	IsPreferred  *bool   `form:"is_preferred" json:"is_preferred"`
}

func (p SupplierPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.SupplierCode, validation.Required, validation.Length(2, 50)),
		validation.Field(&p.CompanyName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.PrimaryEmail, is.Email),
		validation.Field(&p.Currency, validation.Length(3, 3)),
		validation.Field(&p.Rating, validation.Min(0.0), validation.Max(5.0)),
	)
}

func (p SupplierPayload) apply(s *Supplier) {
	s.SupplierCode = p.SupplierCode
	s.CompanyName = p.CompanyName
	s.LegalName = p.LegalName
	s.ContactName = p.ContactName
	s.PrimaryPhone = procure.NormalizePhone(p.PrimaryPhone)
	s.PrimaryEmail = p.PrimaryEmail
	s.Website = p.Website
	s.City = p.City
	s.Country = p.Country
	s.Currency = p.Currency
	s.PaymentTerms = p.PaymentTerms
	s.Rating = p.Rating
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	if p.IsApproved != nil {
		s.IsApproved = *p.IsApproved
	}
	if p.IsPreferred != nil {
		s.IsPreferred = *p.IsPreferred
	}
}

func (c *Controller) SupplierList(ctx router.Context) error {
	filter := SupplierFilter{
		ActiveOnly:   ctx.Query("active", "") == "true",
		ApprovedOnly: ctx.Query("approved", "") == "true",
		Country:      ctx.Query("country", ""),
	}

	records, err := c.Repo.Suppliers().ListFiltered(ctx.Context(), filter)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (c *Controller) SupplierCreate(ctx router.Context) error {
	payload := new(SupplierPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record := &Supplier{ID: uuid.New(), IsActive: true}
	payload.apply(record)

	created, err := c.Repo.Suppliers().Create(ctx.Context(), record)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "supplier"))
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (c *Controller) SupplierShow(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Suppliers().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "supplier"))
	}

	return ctx.JSON(router.StatusOK, record)
}

func (c *Controller) SupplierUpdate(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	payload := new(SupplierPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Suppliers().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "supplier"))
	}

	payload.apply(record)

	updated, err := c.Repo.Suppliers().Update(ctx.Context(), record)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "supplier"))
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *Controller) SupplierDelete(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	if err := c.Repo.Suppliers().DeleteByID(ctx.Context(), id); err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "supplier"))
	}

	return ctx.JSON(router.StatusOK, map[string]any{"deleted": id.String()})
}

// UnitPayload is shared by create and update.
type UnitPayload struct {
	UnitCode     string `form:"unit_code" json:"unit_code"`
	Name         string `form:"name" json:"name"`
	DisplayName  string `form:"display_name" json:"display_name"`
	PropertyType string `form:"property_type" json:"property_type"`
	Brand        string `form:"brand" json:"brand"`
	StarRating   int    `form:"star_rating" json:"star_rating"`
	RoomCount    int    `form:"room_count" json:"room_count"`
	City         string `form:"city" json:"city"`
	Country      string `form:"country" json:"country"`
	Timezone     string `form:"timezone" json:"timezone"`
	Currency     string `form:"currency" json:"currency"`
	IsActive     *bool  `form:"is_active" json:"is_active"`
}

func (p UnitPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UnitCode, validation.Required, validation.Length(2, 50)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.StarRating, validation.Min(0), validation.Max(5)),
		validation.Field(&p.RoomCount, validation.Min(0)),
		validation.Field(&p.Currency, validation.Length(3, 3)),
	)
}

func (p UnitPayload) apply(u *Unit) {
	u.UnitCode = p.UnitCode
	u.Name = p.Name
	u.DisplayName = p.DisplayName
	u.PropertyType = p.PropertyType
	u.Brand = p.Brand
	u.StarRating = p.StarRating
	u.RoomCount = p.RoomCount
	u.City = p.City
	u.Country = p.Country
	u.Timezone = p.Timezone
	u.Currency = p.Currency
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

func (c *Controller) UnitList(ctx router.Context) error {
	records, err := c.Repo.Units().ListFiltered(ctx.Context(), ctx.Query("active", "") == "true")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}
	return ctx.JSON(router.StatusOK, records)
}

func (c *Controller) UnitCreate(ctx router.Context) error {
	payload := new(UnitPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record := &Unit{ID: uuid.New(), IsActive: true}
	payload.apply(record)

	created, err := c.Repo.Units().Create(ctx.Context(), record)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "unit"))
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (c *Controller) UnitShow(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Units().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "unit"))
	}

	return ctx.JSON(router.StatusOK, record)
}

func (c *Controller) UnitUpdate(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	payload := new(UnitPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Units().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "unit"))
	}

	payload.apply(record)

	updated, err := c.Repo.Units().Update(ctx.Context(), record)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "unit"))
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *Controller) UnitDelete(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	if err := c.Repo.Units().DeleteByID(ctx.Context(), id); err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "unit"))
	}

	return ctx.JSON(router.StatusOK, map[string]any{"deleted": id.String()})
}

// ProductPayload is shared by create and update.
type ProductPayload struct {
	SKU              string `form:"sku" json:"sku"`
	Name             string `form:"name" json:"name"`
	Description      string `form:"description" json:"description"`
	Category         string `form:"category" json:"category"`
	Brand            string `form:"brand" json:"brand"`
	UnitOfMeasure    string `form:"unit_of_measure" json:"unit_of_measure"`
	PackSize         int    `form:"pack_size" json:"pack_size"`
	IsPerishable     *bool  `form:"is_perishable" json:"is_perishable"`
	IsHazardous      *bool  `form:"is_hazardous" json:"is_hazardous"`
	RequiresApproval *bool  `form:"requires_approval" json:"requires_approval"`
	IsActive         *bool  `form:"is_active" json:"is_active"`
}

func (p ProductPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.SKU, validation.Required, validation.Length(2, 100)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.PackSize, validation.Min(0)),
	)
}

func (p ProductPayload) apply(prd *Product) {
	prd.SKU = p.SKU
	prd.Name = p.Name
	prd.Description = p.Description
	prd.Category = p.Category
	prd.Brand = p.Brand
	if p.UnitOfMeasure != "" {
		prd.UnitOfMeasure = p.UnitOfMeasure
	}
	if p.PackSize > 0 {
		prd.PackSize = p.PackSize
	}
	if p.IsPerishable != nil {
		prd.IsPerishable = *p.IsPerishable
	}
	if p.IsHazardous != nil {
		prd.IsHazardous = *p.IsHazardous
	}
	if p.RequiresApproval != nil {
		prd.RequiresApproval = *p.RequiresApproval
	}
	if p.IsActive != nil {
		prd.IsActive = *p.IsActive
	}
}

func (c *Controller) ProductList(ctx router.Context) error {
	filter := ProductFilter{
		ActiveOnly: ctx.Query("active", "") == "true",
		Category:   ctx.Query("category", ""),
	}

	records, err := c.Repo.Products().ListFiltered(ctx.Context(), filter)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (c *Controller) ProductCreate(ctx router.Context) error {
	payload := new(ProductPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record := &Product{ID: uuid.New(), UnitOfMeasure: "each", PackSize: 1, IsActive: true}
	payload.apply(record)

	created, err := c.Repo.Products().Create(ctx.Context(), record)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "product"))
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (c *Controller) ProductShow(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Products().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "product"))
	}

	return ctx.JSON(router.StatusOK, record)
}

func (c *Controller) ProductUpdate(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	payload := new(ProductPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Products().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "product"))
	}

	payload.apply(record)

	updated, err := c.Repo.Products().Update(ctx.Context(), record)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "product"))
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *Controller) ProductDelete(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	if err := c.Repo.Products().DeleteByID(ctx.Context(), id); err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err, "product"))
	}

	return ctx.JSON(router.StatusOK, map[string]any{"deleted": id.String()})
}

// AllocationView decorates an allocation with its derived stock status.
type AllocationView struct {
	*StockAllocation
	StockStatus  StockStatus `json:"stock_status"`
	NeedsReorder bool        `json:"needs_reorder"`
}

func NewAllocationView(a *StockAllocation) *AllocationView {
	if a == nil {
		return nil
	}
	return &AllocationView{
		StockAllocation: a,
		StockStatus:     a.StockStatus(),
		NeedsReorder:    a.NeedsReorder(),
	}
}

func (c *Controller) StockList(ctx router.Context) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	records, err := c.Repo.Allocations().ListForProduct(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	views := make([]*AllocationView, 0, len(records))
	for _, record := range records {
		views = append(views, NewAllocationView(record))
	}

	return ctx.JSON(router.StatusOK, views)
}

// StockAdjustPayload either adjusts the counter by a delta or provisions a
// new allocation for the unit.
type StockAdjustPayload struct {
	UnitID          string `form:"unit_id" json:"unit_id"`
	Delta           int    `form:"delta" json:"delta"`
	ReorderPoint    *int   `form:"reorder_point" json:"reorder_point"`
	MinStockLevel   *int   `form:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel   *int   `form:"max_stock_level" json:"max_stock_level"`
	ReorderQuantity *int   `form:"reorder_quantity" json:"reorder_quantity"`
	StorageLocation string `form:"storage_location" json:"storage_location"`
}

func (p StockAdjustPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UnitID, validation.Required, is.UUIDv4),
	)
}

func (c *Controller) StockAdjust(ctx router.Context) error {
	productID, err := paramUUID(ctx, "id")
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	payload := new(StockAdjustPayload)
	if err := c.bindAndValidate(ctx, payload); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	unitID, err := uuid.Parse(payload.UnitID)
	if err != nil {
		return c.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "unit_id is not a valid uuid").
			WithCode(goerrors.CodeBadRequest))
	}

	allocation, err := c.Repo.Allocations().GetForProductAndUnit(ctx.Context(), productID, unitID)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			return c.ErrorHandler(ctx, err)
		}
		allocation = &StockAllocation{
			ID:              uuid.New(),
			ProductID:       productID,
			UnitID:          unitID,
			MaxStockLevel:   100,
			ReorderPoint:    10,
			ReorderQuantity: 50,
		}
		if allocation, err = c.Repo.Allocations().Create(ctx.Context(), allocation); err != nil {
			return c.ErrorHandler(ctx, err)
		}
	}

	applyStockSettings(allocation, payload)

	if _, err := c.Repo.Allocations().Update(ctx.Context(), allocation); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	if payload.Delta != 0 {
		if allocation, err = c.Repo.Allocations().AdjustStock(ctx.Context(), productID, unitID, payload.Delta); err != nil {
			return c.ErrorHandler(ctx, err)
		}
	}

	if c.Debug {
		fmt.Println(print.MaybePrettyJSON(allocation))
	}

	return ctx.JSON(router.StatusOK, NewAllocationView(allocation))
}

func applyStockSettings(a *StockAllocation, p *StockAdjustPayload) {
	if p.ReorderPoint != nil {
		a.ReorderPoint = *p.ReorderPoint
	}
	if p.MinStockLevel != nil {
		a.MinStockLevel = *p.MinStockLevel
	}
	if p.MaxStockLevel != nil {
		a.MaxStockLevel = *p.MaxStockLevel
	}
	if p.ReorderQuantity != nil {
		a.ReorderQuantity = *p.ReorderQuantity
	}
	if p.StorageLocation != "" {
		a.StorageLocation = p.StorageLocation
	}
	now := time.Now()
	a.LastCountedAt = &now
}

type validatable interface {
	Validate() error
}

func (c *Controller) bindAndValidate(ctx router.Context, payload validatable) error {
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("catalog parse payload", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse payload").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("catalog validate payload", "error", err)
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid payload").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

func (c *Controller) mapStoreError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if repository.IsRecordNotFound(err) {
		return goerrors.New(entity+" not found", goerrors.CategoryNotFound).
			WithTextCode("NOT_FOUND").
			WithCode(goerrors.CodeNotFound)
	}

	if procure.IsUniqueViolation(err) {
		return goerrors.New(entity+" code already in use", goerrors.CategoryConflict).
			WithTextCode("DUPLICATE_CODE").
			WithCode(goerrors.CodeConflict)
	}

	return err
}

func paramUUID(ctx router.Context, name string) (uuid.UUID, error) {
	raw := ctx.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid identifier").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"param": name, "value": raw})
	}
	return id, nil
}
