package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/newswatchhq/newswatch/internal/cache"
	"github.com/newswatchhq/newswatch/internal/models"
)

// Refresher runs the fetch-annotate-aggregate pipeline. Satisfied by
// pipeline.Pipeline.
type Refresher interface {
	Refresh(ctx context.Context, now time.Time) (*models.Snapshot, error)
}

// Worker wraps the Asynq server for processing refresh tasks. It runs
// the same refresh path as a cache miss, so the periodic trigger and
// request-driven refreshes never diverge.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher Refresher
	cache     *cache.ResponseCache
	logger    *slog.Logger
}

// WorkerConfig contains configuration for the queue worker.
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

// NewWorker creates a new queue worker.
func NewWorker(cfg WorkerConfig, refresher Refresher, c *cache.ResponseCache) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			"refresh": 1,
		},
		// Upstream outages resolve on their own; back off rather than
		// hammer the provider's rate limit.
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			delays := []time.Duration{
				1 * time.Minute,
				5 * time.Minute,
				15 * time.Minute,
			}
			if n < len(delays) {
				return delays[n]
			}
			return delays[len(delays)-1]
		},
		ShutdownTimeout: 30 * time.Second,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			slog.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:    asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, serverCfg),
		mux:       asynq.NewServeMux(),
		refresher: refresher,
		cache:     c,
		logger:    slog.Default(),
	}
	w.mux.HandleFunc(TypeRefresh, w.handleRefresh)
	return w
}

// Start starts the worker to begin processing tasks. Blocking.
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker", "queues", map[string]int{"refresh": 1})
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the worker.
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
