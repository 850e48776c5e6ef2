package service

import (
	"context"

	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/modules/event/dto"
	"slotswapper/modules/event/entity"
	"slotswapper/modules/event/repository"

	"github.com/google/uuid"
)

type EventServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError)
	List(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, *errors.AppError)
	Update(ctx context.Context, ownerID uuid.UUID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError)
	Delete(ctx context.Context, ownerID uuid.UUID, eventID uuid.UUID) *errors.AppError
}

type EventService struct {
	repo repository.EventRepositoryInterface
}

func NewEventService(repo repository.EventRepositoryInterface) *EventService {
	return &EventService{repo: repo}
}

// Create inserts a new slot. Every slot starts out BUSY; the owner opts into
// the marketplace by toggling it SWAPPABLE afterwards.
func (s *EventService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time and end_time are required", nil)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}

	event := &entity.Event{
		OwnerID:   ownerID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    entity.StatusBusy,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		logger.Error("EventService:Create", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	return created, nil
}

func (s *EventService) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, *errors.AppError) {
	events, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("EventService:List", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", err)
	}
	return events, nil
}

// getOwned loads an event and hides its existence from non-owners: a missing
// id and someone else's id both come back as not found.
func (s *EventService) getOwned(ctx context.Context, ownerID uuid.UUID, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil || event.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}

// Update edits title/times and toggles visibility. A slot locked by a
// pending swap (SWAP_PENDING) cannot be touched, and SWAP_PENDING can never
// be set directly; that state belongs to the negotiation engine.
func (s *EventService) Update(ctx context.Context, ownerID uuid.UUID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError) {
	event, appErr := s.getOwned(ctx, ownerID, eventID)
	if appErr != nil {
		return nil, appErr
	}

	if event.Status == entity.StatusSwapPending {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "slot is locked by a pending swap request", nil)
	}
	// The write below is guarded on this status; if the engine locks the
	// slot between the read above and the write, the guard fails instead of
	// clobbering the lock.
	prior := event.Status

	if req.Status != nil {
		to := entity.EventStatus(*req.Status)
		if !to.Valid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown status", nil)
		}
		if !entity.CanOwnerTransition(event.Status, to) {
			return nil, errors.NewAppError(errors.ErrInvalidTransition, "status can only be toggled between BUSY and SWAPPABLE", nil)
		}
		event.Status = to
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "title cannot be empty", nil)
		}
		event.Title = *req.Title
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}

	ok, err := s.repo.Update(ctx, event, prior)
	if err != nil {
		logger.Error("EventService:Update", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", err)
	}
	if !ok {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "slot is locked by a pending swap request", nil)
	}

	return event, nil
}

// Delete removes a slot unless a pending swap has it locked.
func (s *EventService) Delete(ctx context.Context, ownerID uuid.UUID, eventID uuid.UUID) *errors.AppError {
	event, appErr := s.getOwned(ctx, ownerID, eventID)
	if appErr != nil {
		return appErr
	}

	if event.Status == entity.StatusSwapPending {
		return errors.NewAppError(errors.ErrConflict, "cannot delete a slot locked by a pending swap request", nil)
	}

	ok, err := s.repo.Delete(ctx, eventID)
	if err != nil {
		logger.Error("EventService:Delete", "error", err, "event_id", eventID)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", err)
	}
	if !ok {
		return errors.NewAppError(errors.ErrConflict, "cannot delete a slot locked by a pending swap request", nil)
	}

	return nil
}
