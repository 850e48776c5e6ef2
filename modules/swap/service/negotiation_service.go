package service

import (
	"context"
	"strings"

	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/tasks"
	evententity "slotswapper/modules/event/entity"
	notifentity "slotswapper/modules/notification/entity"
	"slotswapper/modules/swap/dto"
	"slotswapper/modules/swap/entity"
	"slotswapper/modules/swap/repository"

	"github.com/google/uuid"
)

// TaskEnqueuer is the slice of the task client the engine needs. Tasks are
// enqueued only after the transaction commits; a failed negotiation never
// produces a notification.
type TaskEnqueuer interface {
	EnqueueSwapNotification(ctx context.Context, p tasks.SwapNotificationPayload) error
}

type SwapServiceInterface interface {
	RequestSwap(ctx context.Context, requesterID uuid.UUID, req *dto.CreateSwapRequest) (*entity.SwapRequest, *errors.AppError)
	Respond(ctx context.Context, responderID uuid.UUID, requestID uuid.UUID, accept bool) (*entity.SwapRequest, *errors.AppError)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestDetail, *errors.AppError)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestDetail, *errors.AppError)
}

// SwapService is the negotiation engine. Every state mutation runs inside a
// single transaction with row locks taken in a stable order, so two racing
// calls serialize and exactly one of them wins.
type SwapService struct {
	store    repository.Store
	enqueuer TaskEnqueuer
}

func NewSwapService(store repository.Store, enqueuer TaskEnqueuer) *SwapService {
	return &SwapService{store: store, enqueuer: enqueuer}
}

// lockOrder returns the two event ids sorted ascending. The engine's lock
// discipline is: event rows first, in this order, then swap-request rows.
// Concurrent negotiations touching the same slots serialize on the shared
// event lock instead of deadlocking.
func lockOrder(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return a, b
	}
	return b, a
}

func (s *SwapService) lockBoth(ctx context.Context, tx repository.TxStore, firstID, secondID uuid.UUID) (map[uuid.UUID]*evententity.Event, error) {
	lo, hi := lockOrder(firstID, secondID)

	events := make(map[uuid.UUID]*evententity.Event, 2)
	for _, id := range []uuid.UUID{lo, hi} {
		ev, err := tx.GetEventForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			events[id] = ev
		}
	}
	return events, nil
}

// RequestSwap proposes exchanging the requester's slot for someone else's.
// All preconditions are re-checked under row locks, so a slot that looked
// SWAPPABLE a moment ago but was claimed concurrently fails here with
// ErrSlotUnavailable and no partial effect.
func (s *SwapService) RequestSwap(ctx context.Context, requesterID uuid.UUID, req *dto.CreateSwapRequest) (*entity.SwapRequest, *errors.AppError) {
	if req.RequesterSlotID == uuid.Nil || req.ResponderSlotID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "requester_slot_id and responder_slot_id are required", nil)
	}
	if req.RequesterSlotID == req.ResponderSlotID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "cannot swap a slot with itself", nil)
	}

	var created *entity.SwapRequest
	var notes []tasks.SwapNotificationPayload

	err := s.store.InTx(ctx, func(tx repository.TxStore) error {
		events, err := s.lockBoth(ctx, tx, req.RequesterSlotID, req.ResponderSlotID)
		if err != nil {
			return err
		}

		mine := events[req.RequesterSlotID]
		theirs := events[req.ResponderSlotID]

		if mine == nil || mine.OwnerID != requesterID {
			return errors.NewAppError(errors.ErrNotFound, "requester slot not found", nil)
		}
		if theirs == nil {
			return errors.NewAppError(errors.ErrNotFound, "responder slot not found", nil)
		}
		if theirs.OwnerID == requesterID {
			return errors.NewAppError(errors.ErrSlotUnavailable, "cannot request a swap with your own slot", nil)
		}
		if mine.Status != evententity.StatusSwappable || theirs.Status != evententity.StatusSwappable {
			return errors.NewAppError(errors.ErrSlotUnavailable, "both slots must be swappable", nil)
		}

		pending, err := tx.CountPendingByEventIDs(ctx, []uuid.UUID{mine.ID, theirs.ID})
		if err != nil {
			return err
		}
		if pending > 0 {
			return errors.NewAppError(errors.ErrSlotUnavailable, "a slot is already part of a pending swap", nil)
		}

		for _, id := range []uuid.UUID{mine.ID, theirs.ID} {
			ok, err := tx.MarkEventSwapPending(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return errors.NewAppError(errors.ErrSlotUnavailable, "slot was claimed by a concurrent request", nil)
			}
		}

		created, err = tx.InsertRequest(ctx, &entity.SwapRequest{
			RequesterID:     requesterID,
			ResponderID:     theirs.OwnerID,
			RequesterSlotID: mine.ID,
			ResponderSlotID: theirs.ID,
			Status:          entity.SwapPending,
		})
		if err != nil {
			return err
		}

		notes = append(notes, tasks.SwapNotificationPayload{
			UserID:  theirs.OwnerID,
			Title:   "New swap request",
			Message: "Someone wants to swap their slot for your \"" + theirs.Title + "\"",
			Type:    notifentity.TypeSwapRequestReceived,
			Data:    map[string]any{"swap_request_id": created.ID.String()},
		})
		return nil
	})
	if err != nil {
		if ae := errors.From(err); ae.Code != errors.ErrInternalServer {
			return nil, ae
		}
		logger.Error("SwapService:RequestSwap", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create swap request", err)
	}

	s.notify(ctx, notes)
	return created, nil
}

// Respond resolves a pending request. Only the responder may call it, and
// only once: the status move is a compare-and-set on PENDING.
//
// Accept exchanges the two slots' owners and settles both as BUSY; every
// other pending request still referencing either slot is auto-rejected and
// its far-side slot put back on the marketplace. Reject simply releases both
// slots back to SWAPPABLE.
//
// The slot pair is read before the transaction (slot ids are immutable on a
// request) so the event rows can be locked first, keeping the engine's
// event-then-request lock order; responder and status are re-validated under
// the locks.
func (s *SwapService) Respond(ctx context.Context, responderID uuid.UUID, requestID uuid.UUID, accept bool) (*entity.SwapRequest, *errors.AppError) {
	existing, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		logger.Error("SwapService:Respond:GetByID", "error", err, "request_id", requestID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load swap request", err)
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
	}

	var resolved *entity.SwapRequest
	var notes []tasks.SwapNotificationPayload

	err = s.store.InTx(ctx, func(tx repository.TxStore) error {
		if _, err := s.lockBoth(ctx, tx, existing.RequesterSlotID, existing.ResponderSlotID); err != nil {
			return err
		}

		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
		}
		if req.ResponderID != responderID {
			return errors.NewAppError(errors.ErrForbidden, "only the responder can resolve this request", nil)
		}
		if req.Status.Terminal() {
			return errors.NewAppError(errors.ErrAlreadyResolved, "swap request is already resolved", nil)
		}

		if accept {
			if err := s.acceptLocked(ctx, tx, req, &notes); err != nil {
				return err
			}
			req.Status = entity.SwapAccepted
		} else {
			if err := s.rejectLocked(ctx, tx, req, &notes); err != nil {
				return err
			}
			req.Status = entity.SwapRejected
		}

		resolved = req
		return nil
	})
	if err != nil {
		if ae := errors.From(err); ae.Code != errors.ErrInternalServer {
			return nil, ae
		}
		logger.Error("SwapService:Respond", "error", err, "request_id", requestID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve swap request", err)
	}

	s.notify(ctx, notes)
	return resolved, nil
}

func (s *SwapService) acceptLocked(ctx context.Context, tx repository.TxStore, req *entity.SwapRequest, notes *[]tasks.SwapNotificationPayload) error {
	ok, err := tx.ResolveRequest(ctx, req.ID, entity.SwapPending, entity.SwapAccepted)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewAppError(errors.ErrAlreadyResolved, "swap request is already resolved", nil)
	}

	// Exchange ownership. Titles and times travel with the event row; only
	// owner_id and status change.
	ok, err = tx.CompleteEvent(ctx, req.RequesterSlotID, req.ResponderID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewAppError(errors.ErrSlotUnavailable, "requester slot is no longer locked for this swap", nil)
	}
	ok, err = tx.CompleteEvent(ctx, req.ResponderSlotID, req.RequesterID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewAppError(errors.ErrSlotUnavailable, "responder slot is no longer locked for this swap", nil)
	}

	*notes = append(*notes, tasks.SwapNotificationPayload{
		UserID:  req.RequesterID,
		Title:   "Swap accepted",
		Message: "Your swap request was accepted",
		Type:    notifentity.TypeSwapRequestAccepted,
		Data:    map[string]any{"swap_request_id": req.ID.String()},
	})

	return s.cascadeLocked(ctx, tx, req, notes)
}

// cascadeLocked auto-rejects every other pending request touching either of
// the swapped slots. The far-side slot of each cascaded request (the one not
// involved in the accepted swap) goes back to SWAPPABLE.
func (s *SwapService) cascadeLocked(ctx context.Context, tx repository.TxStore, accepted *entity.SwapRequest, notes *[]tasks.SwapNotificationPayload) error {
	swapped := map[uuid.UUID]bool{
		accepted.RequesterSlotID: true,
		accepted.ResponderSlotID: true,
	}

	others, err := tx.ListOtherPendingByEventIDs(ctx, accepted.ID,
		[]uuid.UUID{accepted.RequesterSlotID, accepted.ResponderSlotID})
	if err != nil {
		return err
	}

	for i := range others {
		other := &others[i]

		ok, err := tx.ResolveRequest(ctx, other.ID, entity.SwapPending, entity.SwapRejected)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		for _, slotID := range []uuid.UUID{other.RequesterSlotID, other.ResponderSlotID} {
			if swapped[slotID] {
				continue
			}
			if _, err := tx.ReleaseEvent(ctx, slotID); err != nil {
				return err
			}
		}

		*notes = append(*notes, tasks.SwapNotificationPayload{
			UserID:  other.RequesterID,
			Title:   "Swap cancelled",
			Message: "Your swap request was cancelled because a slot was traded away",
			Type:    notifentity.TypeSwapRequestCancelled,
			Data:    map[string]any{"swap_request_id": other.ID.String()},
		})
	}

	return nil
}

func (s *SwapService) rejectLocked(ctx context.Context, tx repository.TxStore, req *entity.SwapRequest, notes *[]tasks.SwapNotificationPayload) error {
	ok, err := tx.ResolveRequest(ctx, req.ID, entity.SwapPending, entity.SwapRejected)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewAppError(errors.ErrAlreadyResolved, "swap request is already resolved", nil)
	}

	for _, slotID := range []uuid.UUID{req.RequesterSlotID, req.ResponderSlotID} {
		ok, err := tx.ReleaseEvent(ctx, slotID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewAppError(errors.ErrSlotUnavailable, "slot is no longer locked for this swap", nil)
		}
	}

	*notes = append(*notes, tasks.SwapNotificationPayload{
		UserID:  req.RequesterID,
		Title:   "Swap rejected",
		Message: "Your swap request was rejected",
		Type:    notifentity.TypeSwapRequestRejected,
		Data:    map[string]any{"swap_request_id": req.ID.String()},
	})
	return nil
}

func (s *SwapService) ListIncoming(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestDetail, *errors.AppError) {
	details, err := s.store.ListIncoming(ctx, userID)
	if err != nil {
		logger.Error("SwapService:ListIncoming", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list incoming swap requests", err)
	}
	if details == nil {
		details = []entity.SwapRequestDetail{}
	}
	return details, nil
}

func (s *SwapService) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]entity.SwapRequestDetail, *errors.AppError) {
	details, err := s.store.ListOutgoing(ctx, userID)
	if err != nil {
		logger.Error("SwapService:ListOutgoing", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list outgoing swap requests", err)
	}
	if details == nil {
		details = []entity.SwapRequestDetail{}
	}
	return details, nil
}

// notify runs after commit. Delivery failures are logged, never surfaced:
// the state change has already happened.
func (s *SwapService) notify(ctx context.Context, notes []tasks.SwapNotificationPayload) {
	if s.enqueuer == nil {
		return
	}
	for _, n := range notes {
		if err := s.enqueuer.EnqueueSwapNotification(ctx, n); err != nil {
			logger.Error("SwapService:Notify", "error", err, "user_id", n.UserID, "type", n.Type)
		}
	}
}
