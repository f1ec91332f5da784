package requisition

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/hotelgrid/procure"
)

const (
	textCodeInvalidTransition = "INVALID_REQUISITION_TRANSITION"
	textCodeTerminalState     = "TERMINAL_REQUISITION_STATE"
)

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid requisition transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrTerminalState is returned when attempting to move away from a terminal
// status (rejected, fulfilled, cancelled).
var ErrTerminalState = goerrors.New("requisition state is terminal", goerrors.CategoryConflict).
	WithTextCode(textCodeTerminalState).
	WithCode(goerrors.CodeConflict)

// ActorRef identifies who/what triggered a transition.
type ActorRef struct {
	ID   string
	Type string
}

// TransitionOption customizes a single transition.
type TransitionOption func(*transitionOptions)

// WithTransitionReason sets the human-readable reason for the transition.
func WithTransitionReason(reason string) TransitionOption {
	return func(opts *transitionOptions) {
		opts.reason = reason
	}
}

// WithForceTransition bypasses validation rules (use sparingly).
func WithForceTransition() TransitionOption {
	return func(opts *transitionOptions) {
		opts.force = true
	}
}

// StateMachine validates and persists requisition lifecycle changes. Every
// status change in the system goes through Transition; handlers never write
// the status column directly.
type StateMachine interface {
	Transition(ctx context.Context, actor ActorRef, req *Requisition, target Status, opts ...TransitionOption) (*Requisition, error)
	CurrentStatus(req *Requisition) Status
}

// StatusStore is the slice of the repository the state machine writes through.
type StatusStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*Requisition, error)
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*stateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *stateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithStateMachineLogger overrides the default logger.
func WithStateMachineLogger(logger procure.Logger) StateMachineOption {
	return func(sm *stateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// NewStateMachine returns the default implementation backed by the provided repository.
func NewStateMachine(repo StatusStore, opts ...StateMachineOption) StateMachine {
	sm := &stateMachine{
		repo: repo,
		transitions: map[Status]map[Status]struct{}{
			StatusDraft: {
				StatusSubmitted: {},
				StatusCancelled: {},
			},
			StatusSubmitted: {
				StatusPendingApproval: {},
				StatusCancelled:       {},
			},
			StatusPendingApproval: {
				StatusApproved:  {},
				StatusRejected:  {},
				StatusCancelled: {},
			},
			StatusApproved: {
				StatusPartiallyFulfilled: {},
				StatusFulfilled:          {},
			},
			StatusPartiallyFulfilled: {
				StatusFulfilled: {},
			},
		},
		now:    time.Now,
		logger: procure.NewDefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

type stateMachine struct {
	repo        StatusStore
	transitions map[Status]map[Status]struct{}
	now         func() time.Time
	logger      procure.Logger
}

type transitionOptions struct {
	reason string
	force  bool
}

func (sm *stateMachine) CurrentStatus(req *Requisition) Status {
	if req == nil {
		return ""
	}
	req.EnsureStatus()
	return req.Status
}

func (sm *stateMachine) Transition(ctx context.Context, actor ActorRef, req *Requisition, target Status, opts ...TransitionOption) (*Requisition, error) {
	if req == nil {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "requisition is nil",
		})
	}

	req.EnsureStatus()
	from := req.Status

	if !ValidStatus(target) {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "target status is unknown",
			"to":     target,
		})
	}

	if from == target {
		return req, nil
	}

	options := &transitionOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	if IsTerminal(from) && !options.force {
		return nil, ErrTerminalState.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	if !options.force && !sm.canTransition(from, target) {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	now := sm.now()
	change := StatusChange{
		Status:   target,
		Actor:    actor,
		Reason:   options.reason,
		Occurred: now,
	}

	updated, err := sm.repo.UpdateStatus(ctx, req.ID, change)
	if err != nil {
		return nil, err
	}

	sm.logger.Info("requisition transition",
		"requisition", req.Number,
		"from", from,
		"to", target,
		"actor", actor.ID,
	)

	return updated, nil
}

func (sm *stateMachine) canTransition(from, to Status) bool {
	targets, ok := sm.transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}
