package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"slotswapper/core/logger"
	"slotswapper/core/tasks"
	"slotswapper/modules/notification/entity"
	"slotswapper/modules/notification/service"

	"github.com/hibiken/asynq"
)

// Worker consumes swap-lifecycle notification tasks and persists them as
// notification rows the user can poll.
type Worker struct {
	service service.NotificationServiceInterface
}

func NewWorker(svc service.NotificationServiceInterface) *Worker {
	return &Worker{service: svc}
}

// Register mounts the worker's handlers on the asynq mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeSwapNotification, w.HandleSwapNotification)
}

func (w *Worker) HandleSwapNotification(ctx context.Context, t *asynq.Task) error {
	var p tasks.SwapNotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A payload that cannot be decoded will never succeed; drop it.
		return fmt.Errorf("unmarshal swap notification payload: %v: %w", err, asynq.SkipRetry)
	}

	notification := &entity.Notification{
		UserID:  p.UserID,
		Title:   p.Title,
		Message: p.Message,
		Type:    p.Type,
		Data:    entity.JSONB(p.Data),
	}

	if appErr := w.service.Create(ctx, notification); appErr != nil {
		return appErr
	}

	logger.Info("Worker:HandleSwapNotification:Delivered",
		"user_id", p.UserID,
		"type", p.Type,
	)
	return nil
}
