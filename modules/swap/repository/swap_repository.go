package repository

import (
	"context"
	"database/sql"
	"errors"

	"slotswapper/core/database"
	"slotswapper/core/logger"
	evententity "slotswapper/modules/event/entity"
	"slotswapper/modules/swap/entity"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/google/uuid"
)

// Store is the swap-request persistence contract. Writes only happen through
// InTx: the callback receives a TxStore whose row locks and compare-and-set
// updates all share one transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx TxStore) error) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error)
	ListIncoming(ctx context.Context, responderID uuid.UUID) ([]entity.SwapRequestDetail, error)
	ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.SwapRequestDetail, error)
}

// TxStore exposes the in-transaction operations the negotiation engine
// composes. Every status mutation is a compare-and-set keyed on the expected
// current state, so a lost race surfaces as zero rows affected instead of a
// silent overwrite.
type TxStore interface {
	GetEventForUpdate(ctx context.Context, id uuid.UUID) (*evententity.Event, error)
	GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error)
	CountPendingByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int, error)
	ListOtherPendingByEventIDs(ctx context.Context, excludeRequestID uuid.UUID, eventIDs []uuid.UUID) ([]entity.SwapRequest, error)
	MarkEventSwapPending(ctx context.Context, eventID uuid.UUID) (bool, error)
	ReleaseEvent(ctx context.Context, eventID uuid.UUID) (bool, error)
	CompleteEvent(ctx context.Context, eventID uuid.UUID, newOwnerID uuid.UUID) (bool, error)
	InsertRequest(ctx context.Context, req *entity.SwapRequest) (*entity.SwapRequest, error)
	ResolveRequest(ctx context.Context, id uuid.UUID, from, to entity.SwapStatus) (bool, error)
}

// SwapRepository implements Store on PostgreSQL
type SwapRepository struct {
	DB database.IDatabase
}

// NewSwapRepository creates a new repository instance
func NewSwapRepository(db database.IDatabase) *SwapRepository {
	return &SwapRepository{DB: db}
}

func (r *SwapRepository) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	query := `
		SELECT id, requester_id, responder_id, requester_slot_id, responder_slot_id,
		       status, created_at, updated_at
		FROM swap_requests WHERE id = $1
	`

	var req entity.SwapRequest
	err := r.DB.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SwapRepository:GetByID", "error", err)
		return nil, err
	}

	return &req, nil
}

const detailColumns = `
	sr.id, sr.requester_id, sr.responder_id, sr.requester_slot_id, sr.responder_slot_id,
	sr.status, sr.created_at, sr.updated_at,
	ru.name AS requester_name,
	pu.name AS responder_name,
	re.title AS requester_slot_title, re.start_time AS requester_slot_start, re.end_time AS requester_slot_end,
	pe.title AS responder_slot_title, pe.start_time AS responder_slot_start, pe.end_time AS responder_slot_end
`

const detailJoins = `
	FROM swap_requests sr
	JOIN users ru ON ru.id = sr.requester_id
	JOIN users pu ON pu.id = sr.responder_id
	JOIN events re ON re.id = sr.requester_slot_id
	JOIN events pe ON pe.id = sr.responder_slot_id
`

func (r *SwapRepository) ListIncoming(ctx context.Context, responderID uuid.UUID) ([]entity.SwapRequestDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE sr.responder_id = $1
		ORDER BY sr.created_at DESC
	`

	var details []entity.SwapRequestDetail
	err := r.DB.SelectContext(ctx, &details, query, responderID)
	if err != nil {
		logger.Error("SwapRepository:ListIncoming", "error", err)
		return nil, err
	}

	return details, nil
}

func (r *SwapRepository) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.SwapRequestDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE sr.requester_id = $1
		ORDER BY sr.created_at DESC
	`

	var details []entity.SwapRequestDetail
	err := r.DB.SelectContext(ctx, &details, query, requesterID)
	if err != nil {
		logger.Error("SwapRepository:ListOutgoing", "error", err)
		return nil, err
	}

	return details, nil
}

// txStore implements TxStore on a live transaction.
type txStore struct {
	tx *sqlx.Tx
}

func (s *txStore) GetEventForUpdate(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	query := `
		SELECT id, owner_id, title, start_time, end_time, status, created_at, updated_at
		FROM events WHERE id = $1
		FOR UPDATE
	`

	var event evententity.Event
	err := s.tx.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &event, nil
}

func (s *txStore) GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	query := `
		SELECT id, requester_id, responder_id, requester_slot_id, responder_slot_id,
		       status, created_at, updated_at
		FROM swap_requests WHERE id = $1
		FOR UPDATE
	`

	var req entity.SwapRequest
	err := s.tx.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &req, nil
}

func (s *txStore) CountPendingByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM swap_requests
		WHERE status = $1
		  AND (requester_slot_id = ANY($2) OR responder_slot_id = ANY($2))
	`

	var count int
	err := s.tx.GetContext(ctx, &count, query, entity.SwapPending, pq.Array(eventIDs))
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *txStore) ListOtherPendingByEventIDs(ctx context.Context, excludeRequestID uuid.UUID, eventIDs []uuid.UUID) ([]entity.SwapRequest, error) {
	query := `
		SELECT id, requester_id, responder_id, requester_slot_id, responder_slot_id,
		       status, created_at, updated_at
		FROM swap_requests
		WHERE status = $1
		  AND id <> $2
		  AND (requester_slot_id = ANY($3) OR responder_slot_id = ANY($3))
		FOR UPDATE
	`

	var reqs []entity.SwapRequest
	err := s.tx.SelectContext(ctx, &reqs, query, entity.SwapPending, excludeRequestID, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}

	return reqs, nil
}

func (s *txStore) casEventStatus(ctx context.Context, eventID uuid.UUID, from, to evententity.EventStatus) (bool, error) {
	query := `
		UPDATE events SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	res, err := s.tx.ExecContext(ctx, query, eventID, from, to)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkEventSwapPending moves a slot SWAPPABLE -> SWAP_PENDING. Returns false
// when the slot was not SWAPPABLE anymore (a concurrent request got there
// first).
func (s *txStore) MarkEventSwapPending(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return s.casEventStatus(ctx, eventID, evententity.StatusSwappable, evententity.StatusSwapPending)
}

// ReleaseEvent moves a slot SWAP_PENDING -> SWAPPABLE, putting it back on the
// marketplace after a rejection.
func (s *txStore) ReleaseEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	return s.casEventStatus(ctx, eventID, evententity.StatusSwapPending, evententity.StatusSwappable)
}

// CompleteEvent hands a slot to its new owner and settles it as BUSY. Guarded
// on SWAP_PENDING so a slot that already left the negotiation cannot be
// reassigned.
func (s *txStore) CompleteEvent(ctx context.Context, eventID uuid.UUID, newOwnerID uuid.UUID) (bool, error) {
	query := `
		UPDATE events SET owner_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	res, err := s.tx.ExecContext(ctx, query,
		eventID, newOwnerID, evententity.StatusBusy, evententity.StatusSwapPending)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *txStore) InsertRequest(ctx context.Context, req *entity.SwapRequest) (*entity.SwapRequest, error) {
	query := `
		INSERT INTO swap_requests (requester_id, responder_id, requester_slot_id, responder_slot_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, requester_id, responder_id, requester_slot_id, responder_slot_id,
		          status, created_at, updated_at
	`

	var created entity.SwapRequest
	err := s.tx.GetContext(ctx, &created, query,
		req.RequesterID, req.ResponderID, req.RequesterSlotID, req.ResponderSlotID, req.Status)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ResolveRequest performs the single terminal status move, guarded on the
// expected current status.
func (s *txStore) ResolveRequest(ctx context.Context, id uuid.UUID, from, to entity.SwapStatus) (bool, error) {
	query := `
		UPDATE swap_requests SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	res, err := s.tx.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
