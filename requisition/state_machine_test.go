package requisition_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelgrid/procure/requisition"
)

// stubStatusStore records the last status change and plays it back.
type stubStatusStore struct {
	lastID     uuid.UUID
	lastChange requisition.StatusChange
	calls      int
	err        error
}

func (s *stubStatusStore) UpdateStatus(ctx context.Context, id uuid.UUID, change requisition.StatusChange) (*requisition.Requisition, error) {
	s.lastID = id
	s.lastChange = change
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &requisition.Requisition{ID: id, Status: change.Status}, nil
}

func TestTransitionHappyPath(t *testing.T) {
	store := &stubStatusStore{}
	now := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	sm := requisition.NewStateMachine(store,
		requisition.WithStateMachineClock(func() time.Time { return now }))

	req := &requisition.Requisition{
		ID:     uuid.New(),
		Number: "PR-2026-0001",
		Status: requisition.StatusDraft,
	}

	actor := requisition.ActorRef{ID: uuid.New().String(), Type: "user"}

	updated, err := sm.Transition(context.Background(), actor, req, requisition.StatusSubmitted,
		requisition.WithTransitionReason("ready for review"))
	require.NoError(t, err)

	assert.Equal(t, requisition.StatusSubmitted, updated.Status)
	assert.Equal(t, req.ID, store.lastID)
	assert.Equal(t, requisition.StatusSubmitted, store.lastChange.Status)
	assert.Equal(t, actor, store.lastChange.Actor)
	assert.Equal(t, "ready for review", store.lastChange.Reason)
	assert.Equal(t, now, store.lastChange.Occurred)
}

func TestTransitionGraph(t *testing.T) {
	tests := []struct {
		from    requisition.Status
		to      requisition.Status
		allowed bool
	}{
		{requisition.StatusDraft, requisition.StatusSubmitted, true},
		{requisition.StatusDraft, requisition.StatusCancelled, true},
		{requisition.StatusDraft, requisition.StatusApproved, false},
		{requisition.StatusSubmitted, requisition.StatusPendingApproval, true},
		{requisition.StatusSubmitted, requisition.StatusCancelled, true},
		{requisition.StatusSubmitted, requisition.StatusFulfilled, false},
		{requisition.StatusPendingApproval, requisition.StatusApproved, true},
		{requisition.StatusPendingApproval, requisition.StatusRejected, true},
		{requisition.StatusPendingApproval, requisition.StatusCancelled, true},
		{requisition.StatusPendingApproval, requisition.StatusFulfilled, false},
		{requisition.StatusApproved, requisition.StatusPartiallyFulfilled, true},
		{requisition.StatusApproved, requisition.StatusFulfilled, true},
		{requisition.StatusApproved, requisition.StatusDraft, false},
		{requisition.StatusPartiallyFulfilled, requisition.StatusFulfilled, true},
		{requisition.StatusPartiallyFulfilled, requisition.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			store := &stubStatusStore{}
			sm := requisition.NewStateMachine(store)

			req := &requisition.Requisition{ID: uuid.New(), Status: tt.from}

			_, err := sm.Transition(context.Background(), requisition.ActorRef{ID: "tester"}, req, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, 1, store.calls)
				return
			}
			assert.ErrorIs(t, err, requisition.ErrInvalidTransition)
			assert.Zero(t, store.calls)
		})
	}
}

func TestTransitionTerminalStates(t *testing.T) {
	for _, terminal := range []requisition.Status{
		requisition.StatusRejected,
		requisition.StatusFulfilled,
		requisition.StatusCancelled,
	} {
		t.Run(string(terminal), func(t *testing.T) {
			store := &stubStatusStore{}
			sm := requisition.NewStateMachine(store)

			req := &requisition.Requisition{ID: uuid.New(), Status: terminal}

			_, err := sm.Transition(context.Background(), requisition.ActorRef{ID: "tester"}, req, requisition.StatusDraft)
			assert.ErrorIs(t, err, requisition.ErrTerminalState)
			assert.Zero(t, store.calls)
		})
	}
}

func TestTransitionNoOpOnSameStatus(t *testing.T) {
	store := &stubStatusStore{}
	sm := requisition.NewStateMachine(store)

	req := &requisition.Requisition{ID: uuid.New(), Status: requisition.StatusDraft}

	updated, err := sm.Transition(context.Background(), requisition.ActorRef{ID: "tester"}, req, requisition.StatusDraft)
	require.NoError(t, err)
	assert.Same(t, req, updated)
	assert.Zero(t, store.calls)
}

func TestTransitionUnknownTarget(t *testing.T) {
	sm := requisition.NewStateMachine(&stubStatusStore{})

	req := &requisition.Requisition{ID: uuid.New(), Status: requisition.StatusDraft}

	_, err := sm.Transition(context.Background(), requisition.ActorRef{ID: "tester"}, req, "archived")
	assert.ErrorIs(t, err, requisition.ErrInvalidTransition)
}

func TestTransitionNilRequisition(t *testing.T) {
	sm := requisition.NewStateMachine(&stubStatusStore{})

	_, err := sm.Transition(context.Background(), requisition.ActorRef{ID: "tester"}, nil, requisition.StatusSubmitted)
	assert.ErrorIs(t, err, requisition.ErrInvalidTransition)
}

func TestTransitionForceBypassesGraph(t *testing.T) {
	store := &stubStatusStore{}
	sm := requisition.NewStateMachine(store)

	req := &requisition.Requisition{ID: uuid.New(), Status: requisition.StatusFulfilled}

	updated, err := sm.Transition(context.Background(), requisition.ActorRef{ID: "admin"}, req, requisition.StatusApproved,
		requisition.WithForceTransition())
	require.NoError(t, err)
	assert.Equal(t, requisition.StatusApproved, updated.Status)
}

func TestCurrentStatusDefaultsToDraft(t *testing.T) {
	sm := requisition.NewStateMachine(&stubStatusStore{})

	assert.Equal(t, requisition.Status(""), sm.CurrentStatus(nil))
	assert.Equal(t, requisition.StatusDraft, sm.CurrentStatus(&requisition.Requisition{}))
}
