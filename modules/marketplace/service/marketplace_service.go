package service

import (
	"context"

	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/modules/event/entity"
	"slotswapper/modules/event/repository"

	"github.com/google/uuid"
)

type MarketplaceServiceInterface interface {
	ListSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]entity.MarketplaceSlot, *errors.AppError)
}

type MarketplaceService struct {
	events repository.EventRepositoryInterface
}

func NewMarketplaceService(events repository.EventRepositoryInterface) *MarketplaceService {
	return &MarketplaceService{events: events}
}

// ListSwappableSlots returns every SWAPPABLE slot owned by someone other than
// the viewer. The viewer's own slots never show up here, and slots locked by
// a pending swap (SWAP_PENDING) drop out until the negotiation resolves.
func (s *MarketplaceService) ListSwappableSlots(ctx context.Context, viewerID uuid.UUID) ([]entity.MarketplaceSlot, *errors.AppError) {
	slots, err := s.events.ListSwappableExcluding(ctx, viewerID)
	if err != nil {
		logger.Error("MarketplaceService:ListSwappableSlots", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list swappable slots", err)
	}
	if slots == nil {
		slots = []entity.MarketplaceSlot{}
	}
	return slots, nil
}
