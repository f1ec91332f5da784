package requisition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotelgrid/procure/requisition"
)

func validCreatePayload() requisition.CreatePayload {
	return requisition.CreatePayload{
		Title:    "Housekeeping restock",
		UnitID:   "0d3babdd-23b5-4a40-8e3a-9ee467ed4f33",
		Priority: requisition.PriorityHigh,
		Items: []requisition.ItemPayload{
			{
				ProductName:        "Bath Towel 600gsm",
				QuantityRequested:  24,
				UnitOfMeasure:      "each",
				EstimatedUnitPrice: 8.50,
			},
		},
	}
}

func TestCreatePayloadValidate(t *testing.T) {
	assert.NoError(t, validCreatePayload().Validate())

	tests := []struct {
		name   string
		mutate func(*requisition.CreatePayload)
	}{
		{"missing title", func(p *requisition.CreatePayload) { p.Title = "" }},
		{"missing unit", func(p *requisition.CreatePayload) { p.UnitID = "" }},
		{"unknown priority", func(p *requisition.CreatePayload) { p.Priority = "whenever" }},
		{"no items", func(p *requisition.CreatePayload) { p.Items = nil }},
		{"item without name", func(p *requisition.CreatePayload) { p.Items[0].ProductName = "" }},
		{"item zero quantity", func(p *requisition.CreatePayload) { p.Items[0].QuantityRequested = 0 }},
		{"item negative price", func(p *requisition.CreatePayload) { p.Items[0].EstimatedUnitPrice = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validCreatePayload()
			tt.mutate(&payload)
			assert.Error(t, payload.Validate())
		})
	}
}

func TestCreatePayloadEmptyPriorityAllowed(t *testing.T) {
	payload := validCreatePayload()
	payload.Priority = ""
	assert.NoError(t, payload.Validate())
}

func TestStatusHelpers(t *testing.T) {
	req := &requisition.Requisition{}
	req.EnsureStatus()
	assert.Equal(t, requisition.StatusDraft, req.Status)

	req.Status = requisition.StatusApproved
	req.EnsureStatus()
	assert.Equal(t, requisition.StatusApproved, req.Status)

	assert.True(t, requisition.IsTerminal(requisition.StatusFulfilled))
	assert.True(t, requisition.IsTerminal(requisition.StatusRejected))
	assert.True(t, requisition.IsTerminal(requisition.StatusCancelled))
	assert.False(t, requisition.IsTerminal(requisition.StatusApproved))

	assert.True(t, requisition.ValidStatus(requisition.StatusPendingApproval))
	assert.False(t, requisition.ValidStatus("archived"))

	assert.True(t, requisition.ValidPriority(requisition.PriorityEmergency))
	assert.False(t, requisition.ValidPriority("someday"))
}
