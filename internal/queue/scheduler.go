package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Scheduler enqueues a refresh task on a fixed cron interval, feeding
// the worker the same task type the API's refresh trigger would.
type Scheduler struct {
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// NewScheduler registers the periodic refresh entry. cronSpec is a
// standard 5-field cron expression, e.g. "*/15 * * * *".
func NewScheduler(cfg ClientConfig, cronSpec string) (*Scheduler, error) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	// The payload is marshaled once here and re-enqueued verbatim on
	// every cron fire, so it must not bake in per-run values. The
	// worker assigns a run ID to payloads that carry none.
	payload, err := json.Marshal(RefreshPayload{})
	if err != nil {
		return nil, fmt.Errorf("marshal refresh payload: %w", err)
	}

	task := asynq.NewTask(TypeRefresh, payload)
	entryID, err := scheduler.Register(cronSpec, task,
		asynq.Queue("refresh"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return nil, fmt.Errorf("register periodic refresh: %w", err)
	}

	s := &Scheduler{scheduler: scheduler, logger: slog.Default()}
	s.logger.Info("periodic refresh registered", "cron", cronSpec, "entry_id", entryID)
	return s, nil
}

// Run starts the scheduler loop. Blocking.
func (s *Scheduler) Run() error {
	if err := s.scheduler.Run(); err != nil {
		return fmt.Errorf("asynq scheduler error: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler.
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
