package requisition

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status is the requisition lifecycle state.
type Status = string

const (
	StatusDraft              Status = "draft"
	StatusSubmitted          Status = "submitted"
	StatusPendingApproval    Status = "pending_approval"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusPartiallyFulfilled Status = "partially_fulfilled"
	StatusFulfilled          Status = "fulfilled"
	StatusCancelled          Status = "cancelled"
)

// Priority orders requisitions for procurement attention.
type Priority = string

const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

// Requisition is a purchase request raised by a unit.
type Requisition struct {
	bun.BaseModel `bun:"table:requisitions,alias:req"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Number        string    `bun:"requisition_number,notnull,unique" json:"requisition_number"`
	Title         string    `bun:"title,notnull" json:"title"`
	Description   string    `bun:"description" json:"description,omitempty"`
	UnitID        uuid.UUID `bun:"unit_id,notnull,type:uuid" json:"unit_id"`
	Department    string    `bun:"department" json:"department,omitempty"`

	Status   Status   `bun:"status,notnull,default:'draft'" json:"status"`
	Priority Priority `bun:"priority,notnull,default:'medium'" json:"priority"`

	RequestedBy    uuid.UUID  `bun:"requested_by,notnull,type:uuid" json:"requested_by"`
	RequiredByDate *time.Time `bun:"required_by_date" json:"required_by_date,omitempty"`

	BusinessJustification string  `bun:"business_justification" json:"business_justification,omitempty"`
	EstimatedTotal        float64 `bun:"estimated_total,default:0" json:"estimated_total"`
	Currency              string  `bun:"currency,default:'USD'" json:"currency,omitempty"`

	SubmittedAt *time.Time `bun:"submitted_at" json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time `bun:"approved_at" json:"approved_at,omitempty"`
	RejectedAt  *time.Time `bun:"rejected_at" json:"rejected_at,omitempty"`
	FulfilledAt *time.Time `bun:"fulfilled_at" json:"fulfilled_at,omitempty"`
	CancelledAt *time.Time `bun:"cancelled_at" json:"cancelled_at,omitempty"`

	StatusChangedBy uuid.UUID `bun:"status_changed_by,nullzero,type:uuid" json:"status_changed_by,omitempty"`
	StatusReason    string    `bun:"status_reason" json:"status_reason,omitempty"`

	Items []*Item `bun:"rel:has-many,join:id=requisition_id" json:"items,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Item is one requested line on a requisition.
type Item struct {
	bun.BaseModel `bun:"table:requisition_items,alias:itm"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	RequisitionID uuid.UUID `bun:"requisition_id,notnull,type:uuid" json:"requisition_id"`
	LineNumber    int       `bun:"line_number,notnull" json:"line_number"`

	ProductID   uuid.UUID `bun:"product_id,nullzero,type:uuid" json:"product_id,omitempty"`
	ProductName string    `bun:"product_name,notnull" json:"product_name"`

	QuantityRequested float64 `bun:"quantity_requested,notnull" json:"quantity_requested"`
	QuantityFulfilled float64 `bun:"quantity_fulfilled,default:0" json:"quantity_fulfilled"`
	UnitOfMeasure     string  `bun:"unit_of_measure,notnull,default:'each'" json:"unit_of_measure"`

	EstimatedUnitPrice float64 `bun:"estimated_unit_price,default:0" json:"estimated_unit_price"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// EnsureStatus backfills the zero value so records created outside the
// controller still enter the lifecycle at draft.
func (r *Requisition) EnsureStatus() {
	if r.Status == "" {
		r.Status = StatusDraft
	}
}

// IsTerminal reports whether the lifecycle has ended for this requisition.
func IsTerminal(s Status) bool {
	switch s {
	case StatusRejected, StatusFulfilled, StatusCancelled:
		return true
	default:
		return false
	}
}

// ValidStatus reports membership in the closed status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPendingApproval, StatusApproved,
		StatusRejected, StatusPartiallyFulfilled, StatusFulfilled, StatusCancelled:
		return true
	default:
		return false
	}
}

// ValidPriority reports membership in the closed priority set.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityEmergency:
		return true
	default:
		return false
	}
}
