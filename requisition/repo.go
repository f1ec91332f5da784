package requisition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StatusChange carries everything UpdateStatus persists alongside the new
// status: the actor, the reason, and the transition timestamp.
type StatusChange struct {
	Status   Status
	Actor    ActorRef
	Reason   string
	Occurred time.Time
}

// Filter narrows requisition listings.
type Filter struct {
	UnitID   uuid.UUID
	Status   Status
	Priority Priority
}

// Requisitions is the storage surface for purchase requisitions.
type Requisitions interface {
	repository.Repository[*Requisition]

	GetByUUID(ctx context.Context, id uuid.UUID) (*Requisition, error)
	GetByNumber(ctx context.Context, number string) (*Requisition, error)
	ListFiltered(ctx context.Context, filter Filter) ([]*Requisition, error)
	CreateWithItems(ctx context.Context, req *Requisition, items []*Item) (*Requisition, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*Requisition, error)
	NextNumber(ctx context.Context, year int) (string, error)
}

type requisitions struct {
	repository.Repository[*Requisition]
	db *bun.DB
}

var (
	_ Requisitions                        = (*requisitions)(nil)
	_ repository.Repository[*Requisition] = (*requisitions)(nil)
)

func NewRequisitionsRepository(db *bun.DB) Requisitions {
	repo := repository.NewRepository[*Requisition](db, repository.ModelHandlers[*Requisition]{
		NewRecord: func() *Requisition { return &Requisition{} },
		GetID: func(r *Requisition) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Requisition, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "requisition_number"
		},
	})
	return &requisitions{Repository: repo, db: db}
}

func (r *requisitions) GetByUUID(ctx context.Context, id uuid.UUID) (*Requisition, error) {
	record := &Requisition{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Items").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *requisitions) GetByNumber(ctx context.Context, number string) (*Requisition, error) {
	record := &Requisition{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Items").
		Where("?TableAlias.requisition_number = ?", number).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"requisition_number": number})
		}
		return nil, err
	}
	return record, nil
}

func (r *requisitions) ListFiltered(ctx context.Context, filter Filter) ([]*Requisition, error) {
	records := []*Requisition{}
	q := r.db.NewSelect().Model(&records)

	if filter.UnitID != uuid.Nil {
		q = q.Where("?TableAlias.unit_id = ?", filter.UnitID)
	}
	if filter.Status != "" {
		q = q.Where("?TableAlias.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("?TableAlias.priority = ?", filter.Priority)
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateWithItems persists the header and its lines atomically. Line numbers
// are assigned in input order starting at 1.
func (r *requisitions) CreateWithItems(ctx context.Context, req *Requisition, items []*Item) (*Requisition, error) {
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if req.ID == uuid.Nil {
			req.ID = uuid.New()
		}
		req.EnsureStatus()

		created, err := r.Repository.CreateTx(ctx, tx, req)
		if err != nil {
			return err
		}
		*req = *created

		for i, item := range items {
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.RequisitionID = req.ID
			item.LineNumber = i + 1
			if item.UnitOfMeasure == "" {
				item.UnitOfMeasure = "each"
			}
		}

		if len(items) > 0 {
			if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Items = items
	return req, nil
}

// UpdateStatus writes the new status together with actor, reason, and the
// matching lifecycle timestamp column.
func (r *requisitions) UpdateStatus(ctx context.Context, id uuid.UUID, change StatusChange) (*Requisition, error) {
	occurred := change.Occurred
	if occurred.IsZero() {
		occurred = time.Now()
	}

	q := r.db.NewUpdate().
		Model((*Requisition)(nil)).
		Set("status = ?", change.Status).
		Set("status_reason = ?", change.Reason).
		Set("updated_at = ?", occurred).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL")

	if change.Actor.ID != "" {
		if actorID, err := uuid.Parse(change.Actor.ID); err == nil {
			q = q.Set("status_changed_by = ?", actorID)
		}
	}

	if column := statusTimestampColumn(change.Status); column != "" {
		q = q.Set(column+" = ?", occurred)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return r.GetByUUID(ctx, id)
}

func statusTimestampColumn(s Status) string {
	switch s {
	case StatusSubmitted:
		return "submitted_at"
	case StatusApproved:
		return "approved_at"
	case StatusRejected:
		return "rejected_at"
	case StatusFulfilled:
		return "fulfilled_at"
	case StatusCancelled:
		return "cancelled_at"
	default:
		return ""
	}
}

// NextNumber allocates the next requisition number for the year, formatted
// PR-<year>-<seq> with a four digit sequence.
func (r *requisitions) NextNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("PR-%d-", year)

	var last string
	err := r.db.NewSelect().
		Model((*Requisition)(nil)).
		Column("requisition_number").
		Where("?TableAlias.requisition_number LIKE ?", prefix+"%").
		Order("requisition_number DESC").
		Limit(1).
		Scan(ctx, &last)

	seq := 1
	if err == nil && len(last) > len(prefix) {
		if _, scanErr := fmt.Sscanf(last[len(prefix):], "%d", &seq); scanErr == nil {
			seq++
		}
	} else if err != nil && !repository.IsRecordNotFound(err) && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// RepositoryManager exposes the requisition repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Requisitions() Requisitions
}

type mngr struct {
	db           *bun.DB
	requisitions Requisitions
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:           db,
		requisitions: NewRequisitionsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.requisitions == nil {
		return errors.New("repository requisitions should be initialized")
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

func (m mngr) Requisitions() Requisitions {
	return m.requisitions
}
