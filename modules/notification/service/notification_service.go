package service

import (
	"context"

	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/params"
	"slotswapper/modules/notification/entity"
	"slotswapper/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	Create(ctx context.Context, notification *entity.Notification) *errors.AppError
	GetByUserID(ctx context.Context, userID uuid.UUID, qp params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, notification *entity.Notification) *errors.AppError {
	if notification.UserID == uuid.Nil {
		return errors.NewAppError(errors.ErrInvalidInput, "user_id is required", nil)
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		logger.Error("NotificationService:Create", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to create notification", err)
	}
	return nil
}

func (s *NotificationService) GetByUserID(ctx context.Context, userID uuid.UUID, qp params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	page, err := s.repo.GetByUserID(ctx, userID, qp)
	if err != nil {
		logger.Error("NotificationService:GetByUserID", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list notifications", err)
	}
	return page, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "invalid notification id", err)
		}
	}
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		logger.Error("NotificationService:MarkAsRead", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		logger.Error("NotificationService:MarkAllAsRead", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark notifications as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		logger.Error("NotificationService:CountUnread", "error", err)
		return 0, errors.NewAppError(errors.ErrInternalServer, "failed to count unread notifications", err)
	}
	return count, nil
}
