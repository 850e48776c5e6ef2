package repository

import (
	"context"
	"database/sql"
	"errors"

	"slotswapper/core/database"
	"slotswapper/core/logger"
	"slotswapper/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles event (slot) database operations
type EventRepository struct {
	DB database.IDatabase
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event, fromStatus entity.EventStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListSwappableExcluding(ctx context.Context, ownerID uuid.UUID) ([]entity.MarketplaceSlot, error)
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (owner_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, title, start_time, end_time, status, created_at, updated_at
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.OwnerID, event.Title, event.StartTime, event.EndTime, event.Status)
	if err != nil {
		logger.Error("EventRepository:Create", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", "error", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, created_at, updated_at
		FROM events
		WHERE owner_id = $1
		ORDER BY start_time ASC
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, ownerID)
	if err != nil {
		logger.Error("EventRepository:ListByOwner", "error", err)
		return nil, err
	}

	return events, nil
}

// Update writes the owner-editable fields, guarded on the status the caller
// read. Zero rows affected means the row changed underneath us, typically
// the negotiation engine locking the slot SWAP_PENDING between the read and
// this write.
func (r *EventRepository) Update(ctx context.Context, event *entity.Event, fromStatus entity.EventStatus) (bool, error) {
	query := `
		UPDATE events
		SET title = $2, start_time = $3, end_time = $4, status = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
		RETURNING id
	`

	var id uuid.UUID
	err := r.DB.GetContext(ctx, &id, query,
		event.ID, event.Title, event.StartTime, event.EndTime, event.Status, fromStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logger.Error("EventRepository:Update", "error", err)
		return false, err
	}

	return true, nil
}

// Delete refuses rows the engine holds: a slot that went SWAP_PENDING after
// the caller's read survives, and the zero-rows result reports the conflict.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM events WHERE id = $1 AND status <> $2 RETURNING id`

	var deleted uuid.UUID
	err := r.DB.GetContext(ctx, &deleted, query, id, entity.StatusSwapPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logger.Error("EventRepository:Delete", "error", err)
		return false, err
	}
	return true, nil
}

// ListSwappableExcluding returns every other user's SWAPPABLE slot annotated
// with the owner's public identity.
func (r *EventRepository) ListSwappableExcluding(ctx context.Context, ownerID uuid.UUID) ([]entity.MarketplaceSlot, error) {
	query := `
		SELECT e.id, e.owner_id, e.title, e.start_time, e.end_time, e.status,
		       e.created_at, e.updated_at,
		       u.name AS owner_name, u.slug AS owner_slug
		FROM events e
		JOIN users u ON u.id = e.owner_id
		WHERE e.status = $1 AND e.owner_id <> $2
		ORDER BY e.start_time ASC
	`

	var slots []entity.MarketplaceSlot
	err := r.DB.SelectContext(ctx, &slots, query, entity.StatusSwappable, ownerID)
	if err != nil {
		logger.Error("EventRepository:ListSwappableExcluding", "error", err)
		return nil, err
	}

	return slots, nil
}
