package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TypeRefresh is the background pipeline refresh task.
const TypeRefresh = "news:refresh"

// RefreshPayload is the refresh task body. Trace IDs carry the enqueue
// span across the queue so the worker can link its span to it.
type RefreshPayload struct {
	RunID string `json:"run_id"`
	Force bool   `json:"force"`

	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix nanoseconds
}

// Client wraps the Asynq client for enqueueing refresh tasks.
type Client struct {
	client *asynq.Client
}

// ClientConfig contains configuration for the queue client.
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}),
	}
}

// EnqueueRefresh enqueues one pipeline refresh. Force bypasses the
// cache TTL. Returns the run ID used in worker logs.
func (c *Client) EnqueueRefresh(ctx context.Context, force bool) (string, error) {
	payload := RefreshPayload{
		RunID:      uuid.NewString(),
		Force:      force,
		EnqueuedAt: time.Now().UnixNano(),
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		payload.TraceID = spanCtx.TraceID().String()
		payload.SpanID = spanCtx.SpanID().String()

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeRefresh),
			attribute.String("run.id", payload.RunID),
		))
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TypeRefresh, payloadBytes)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
		asynq.Queue("refresh"),
		// One fixed query: overlapping refreshes add nothing.
		asynq.Unique(time.Minute),
	}

	if _, err := c.client.Enqueue(task, opts...); err != nil {
		return "", fmt.Errorf("failed to enqueue refresh task: %w", err)
	}
	return payload.RunID, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
