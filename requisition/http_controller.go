package requisition

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/hotelgrid/procure"
)

// Controller serves the purchase-requisition endpoints.
type Controller struct {
	Logger       procure.Logger
	Repo         RepositoryManager
	Machine      StateMachine
	ErrorHandler router.ErrorHandler
	now          func() time.Time
}

type ControllerOption func(*Controller) *Controller

func NewController(repo RepositoryManager, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:       procure.NewDefaultLogger(),
		Repo:         repo,
		ErrorHandler: procure.WriteJSONError,
		now:          time.Now,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in requisition controller...")
	}

	if c.Machine == nil {
		c.Machine = NewStateMachine(c.Repo.Requisitions(), WithStateMachineLogger(c.Logger))
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

func WithStateMachine(machine StateMachine) ControllerOption {
	return func(c *Controller) *Controller {
		if machine != nil {
			c.Machine = machine
		}
		return c
	}
}

func WithClock(clock func() time.Time) ControllerOption {
	return func(c *Controller) *Controller {
		if clock != nil {
			c.now = clock
		}
		return c
	}
}

// RouteMiddleware carries the guard chain for each access tier.
type RouteMiddleware struct {
	Authenticated router.MiddlewareFunc
	Manager       router.MiddlewareFunc
}

// RegisterRoutes mounts the requisition surface. Any authenticated account can
// raise and submit; approval, rejection, and fulfilment need manager or above.
func RegisterRoutes[T any](app router.Router[T], c *Controller, mw RouteMiddleware) {
	app.Get("/requisitions", c.List, mw.Authenticated).SetName("requisitions.list")
	app.Post("/requisitions", c.Create, mw.Authenticated).SetName("requisitions.create")
	app.Get("/requisitions/:id", c.Show, mw.Authenticated).SetName("requisitions.show")

	app.Post("/requisitions/:id/submit", c.Submit, mw.Authenticated).SetName("requisitions.submit")
	app.Post("/requisitions/:id/approve", c.Approve, mw.Manager).SetName("requisitions.approve")
	app.Post("/requisitions/:id/reject", c.Reject, mw.Manager).SetName("requisitions.reject")
	app.Post("/requisitions/:id/cancel", c.Cancel, mw.Authenticated).SetName("requisitions.cancel")
	app.Post("/requisitions/:id/fulfill", c.Fulfill, mw.Manager).SetName("requisitions.fulfill")
}

// ItemPayload is one requested line in a create request.
type ItemPayload struct {
	ProductID          string  `form:"product_id" json:"product_id"`
	ProductName        string  `form:"product_name" json:"product_name"`
	QuantityRequested  float64 `form:"quantity_requested" json:"quantity_requested"`
	UnitOfMeasure      string  `form:"unit_of_measure" json:"unit_of_measure"`
	EstimatedUnitPrice float64 `form:"estimated_unit_price" json:"estimated_unit_price"`
}

func (p ItemPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ProductName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.QuantityRequested, validation.Required, validation.Min(0.001)),
		validation.Field(&p.EstimatedUnitPrice, validation.Min(0.0)),
	)
}

// CreatePayload raises a new requisition in draft.
type CreatePayload struct {
	Title                 string        `form:"title" json:"title"`
	Description           string        `form:"description" json:"description"`
	UnitID                string        `form:"unit_id" json:"unit_id"`
	Department            string        `form:"department" json:"department"`
	Priority              string        `form:"priority" json:"priority"`
	BusinessJustification string        `form:"business_justification" json:"business_justification"`
	RequiredByDate        *time.Time    `form:"required_by_date" json:"required_by_date"`
	Currency              string        `form:"currency" json:"currency"`
	Items                 []ItemPayload `form:"items" json:"items"`
}

func (p CreatePayload) Validate() error {
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.UnitID, validation.Required),
		validation.Field(&p.Priority, validation.By(validPriorityRule)),
		validation.Field(&p.Items, validation.Required, validation.Length(1, 200)),
	); err != nil {
		return err
	}

	for _, item := range p.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func validPriorityRule(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !ValidPriority(s) {
		return goerrors.New("unknown priority", goerrors.CategoryValidation)
	}
	return nil
}

func (c *Controller) List(ctx router.Context) error {
	filter := Filter{
		Status:   ctx.Query("status", ""),
		Priority: ctx.Query("priority", ""),
	}

	if raw := ctx.Query("unit_id", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "unit_id is not a valid uuid").
				WithCode(goerrors.CodeBadRequest))
		}
		filter.UnitID = id
	}

	records, err := c.Repo.Requisitions().ListFiltered(ctx.Context(), filter)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

func (c *Controller) Create(ctx router.Context) error {
	actor, ok := procure.GetRouterUser(ctx)
	if !ok {
		return c.ErrorHandler(ctx, procure.ErrIdentityNotFound)
	}

	payload := new(CreatePayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("requisition parse payload", "error", err)
		return c.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("requisition validate payload", "error", err)
		return c.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid payload").
			WithCode(goerrors.CodeBadRequest))
	}

	unitID, err := uuid.Parse(payload.UnitID)
	if err != nil {
		return c.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "unit_id is not a valid uuid").
			WithCode(goerrors.CodeBadRequest))
	}

	number, err := c.Repo.Requisitions().NextNumber(ctx.Context(), c.now().Year())
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	priority := payload.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	currency := payload.Currency
	if currency == "" {
		currency = "USD"
	}

	items := make([]*Item, 0, len(payload.Items))
	total := 0.0
	for _, item := range payload.Items {
		record := &Item{
			ProductName:        item.ProductName,
			QuantityRequested:  item.QuantityRequested,
			UnitOfMeasure:      item.UnitOfMeasure,
			EstimatedUnitPrice: item.EstimatedUnitPrice,
		}
		if item.ProductID != "" {
			if id, err := uuid.Parse(item.ProductID); err == nil {
				record.ProductID = id
			}
		}
		total += item.QuantityRequested * item.EstimatedUnitPrice
		items = append(items, record)
	}

	record := &Requisition{
		ID:                    uuid.New(),
		Number:                number,
		Title:                 payload.Title,
		Description:           payload.Description,
		UnitID:                unitID,
		Department:            payload.Department,
		Status:                StatusDraft,
		Priority:              priority,
		RequestedBy:           actor.ID,
		RequiredByDate:        payload.RequiredByDate,
		BusinessJustification: payload.BusinessJustification,
		EstimatedTotal:        total,
		Currency:              currency,
	}

	created, err := c.Repo.Requisitions().CreateWithItems(ctx.Context(), record, items)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, created)
}

func (c *Controller) Show(ctx router.Context) error {
	id, err := c.paramID(ctx)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Requisitions().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err))
	}

	return ctx.JSON(router.StatusOK, record)
}

// ActionPayload carries the optional reason on lifecycle endpoints.
type ActionPayload struct {
	Reason  string `form:"reason" json:"reason"`
	Partial bool   `form:"partial" json:"partial"`
}

func (c *Controller) Submit(ctx router.Context) error {
	return c.transition(ctx, StatusSubmitted, false)
}

// Approve moves a requisition to approved. A requisition still sitting in
// submitted passes through pending_approval first; the graph stays intact
// even when no separate review step happened.
func (c *Controller) Approve(ctx router.Context) error {
	return c.transition(ctx, StatusApproved, true)
}

func (c *Controller) Reject(ctx router.Context) error {
	return c.transition(ctx, StatusRejected, true)
}

func (c *Controller) Cancel(ctx router.Context) error {
	return c.transition(ctx, StatusCancelled, false)
}

func (c *Controller) Fulfill(ctx router.Context) error {
	id, err := c.paramID(ctx)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	actor, payload, err := c.actionInputs(ctx)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	target := StatusFulfilled
	if payload.Partial {
		target = StatusPartiallyFulfilled
	}

	record, err := c.Repo.Requisitions().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err))
	}

	updated, err := c.Machine.Transition(ctx.Context(), actor, record, target,
		WithTransitionReason(payload.Reason))
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *Controller) transition(ctx router.Context, target Status, viaReview bool) error {
	id, err := c.paramID(ctx)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	actor, payload, err := c.actionInputs(ctx)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	record, err := c.Repo.Requisitions().GetByUUID(ctx.Context(), id)
	if err != nil {
		return c.ErrorHandler(ctx, c.mapStoreError(err))
	}

	if viaReview && record.Status == StatusSubmitted {
		if record, err = c.Machine.Transition(ctx.Context(), actor, record, StatusPendingApproval); err != nil {
			return c.ErrorHandler(ctx, err)
		}
	}

	updated, err := c.Machine.Transition(ctx.Context(), actor, record, target,
		WithTransitionReason(payload.Reason))
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (c *Controller) actionInputs(ctx router.Context) (ActorRef, *ActionPayload, error) {
	user, ok := procure.GetRouterUser(ctx)
	if !ok {
		return ActorRef{}, nil, procure.ErrIdentityNotFound
	}

	actor := ActorRef{ID: user.ID.String(), Type: "user"}

	payload := new(ActionPayload)
	// lifecycle endpoints accept an empty body
	if err := ctx.Bind(payload); err != nil {
		payload = &ActionPayload{}
	}

	return actor, payload, nil
}

func (c *Controller) paramID(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid requisition id").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"value": raw})
	}
	return id, nil
}

func (c *Controller) mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsRecordNotFound(err) {
		return goerrors.New("requisition not found", goerrors.CategoryNotFound).
			WithTextCode("NOT_FOUND").
			WithCode(goerrors.CodeNotFound)
	}
	return err
}
