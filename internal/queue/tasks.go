package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// handleRefresh executes one background pipeline refresh.
func (w *Worker) handleRefresh(ctx context.Context, t *asynq.Task) error {
	var payload RefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %w", err)
	}

	// Periodic tasks carry a blank payload: the scheduler re-enqueues
	// the same bytes on every fire, so per-run values are assigned here.
	if payload.RunID == "" {
		payload.RunID = uuid.NewString()
	}

	var queueWait time.Duration
	if payload.EnqueuedAt > 0 {
		queueWait = time.Since(time.Unix(0, payload.EnqueuedAt))
	}

	ctx, span := w.startTaskSpan(ctx, payload, queueWait)
	defer span.End()

	w.logger.Info("processing background refresh",
		"run_id", payload.RunID,
		"force", payload.Force,
		"queue_wait_seconds", queueWait.Seconds(),
	)

	now := time.Now().UTC()
	var err error
	if payload.Force {
		_, err = w.cache.ForceRefresh(ctx, now, w.refresher.Refresh)
	} else {
		_, _, err = w.cache.GetOrRefresh(ctx, now, w.refresher.Refresh)
	}
	if err != nil {
		// The stale snapshot stays cached; asynq retries per the
		// worker's backoff schedule.
		return fmt.Errorf("background refresh: %w", err)
	}

	w.logger.Info("background refresh complete", "run_id", payload.RunID)
	return nil
}

// startTaskSpan recreates the enqueue-time trace context, when the
// payload carries one, and opens a consumer span.
func (w *Worker) startTaskSpan(ctx context.Context, payload RefreshPayload, queueWait time.Duration) (context.Context, trace.Span) {
	if payload.TraceID != "" && payload.SpanID != "" {
		traceID, err := trace.TraceIDFromHex(payload.TraceID)
		if err == nil {
			spanID, err := trace.SpanIDFromHex(payload.SpanID)
			if err == nil {
				remote := trace.NewSpanContext(trace.SpanContextConfig{
					TraceID:    traceID,
					SpanID:     spanID,
					TraceFlags: trace.FlagsSampled,
					Remote:     true,
				})
				ctx = trace.ContextWithRemoteSpanContext(ctx, remote)
			}
		}
	}

	return otel.Tracer("newswatch").Start(ctx, "asynq.task.refresh",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeRefresh),
			attribute.String("run.id", payload.RunID),
			attribute.Bool("task.force", payload.Force),
			attribute.Float64("queue.wait_time_seconds", queueWait.Seconds()),
		),
	)
}
