package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"slotswapper/core/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TypeSwapNotification delivers one swap-lifecycle notification to one
	// user. The negotiation engine enqueues these after its transaction
	// commits; the worker in modules/notification consumes them.
	TypeSwapNotification = "swap:notification"
)

type SwapNotificationPayload struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
}

func NewSwapNotificationTask(p SwapNotificationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal swap notification payload: %w", err)
	}
	return asynq.NewTask(TypeSwapNotification, payload), nil
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client is a thin wrapper around the asynq client so callers depend on a
// narrow interface instead of asynq directly.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{inner: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) EnqueueSwapNotification(ctx context.Context, p SwapNotificationPayload) error {
	task, err := NewSwapNotificationTask(p)
	if err != nil {
		return err
	}
	_, err = c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	return err
}

func (c *Client) Close() error {
	return c.inner.Close()
}
