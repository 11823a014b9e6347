package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"github.com/newswatchhq/newswatch/internal/cache"
	"github.com/newswatchhq/newswatch/internal/models"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, now time.Time) (*models.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Snapshot{
		Articles:  []models.AnnotatedArticle{{RawArticle: models.RawArticle{Title: "t"}}},
		FetchedAt: now,
	}, nil
}

func refreshTask(t *testing.T, payload RefreshPayload) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	return asynq.NewTask(TypeRefresh, body)
}

func TestNewWorker(t *testing.T) {
	// Construction must not touch Redis; only Start connects.
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, &fakeRefresher{}, cache.New(time.Minute))
	assert.NotNil(t, w)
	assert.NotNil(t, w.server)
	assert.NotNil(t, w.mux)
}

func TestHandleRefreshPopulatesCache(t *testing.T) {
	refresher := &fakeRefresher{}
	c := cache.New(time.Hour)
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, c)

	task := refreshTask(t, RefreshPayload{RunID: "run-1", EnqueuedAt: time.Now().UnixNano()})
	err := w.handleRefresh(context.Background(), task)

	assert.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)

	snap, ok := c.Peek()
	assert.True(t, ok)
	assert.Len(t, snap.Articles, 1)
}

func TestHandleRefreshSkipsFreshCache(t *testing.T) {
	refresher := &fakeRefresher{}
	c := cache.New(time.Hour)
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, c)

	task := refreshTask(t, RefreshPayload{RunID: "run-1"})
	assert.NoError(t, w.handleRefresh(context.Background(), task))
	assert.NoError(t, w.handleRefresh(context.Background(), task))

	// Without force, a fresh entry short-circuits the second run.
	assert.Equal(t, 1, refresher.calls)
}

func TestHandleRefreshForce(t *testing.T) {
	refresher := &fakeRefresher{}
	c := cache.New(time.Hour)
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, c)

	task := refreshTask(t, RefreshPayload{RunID: "run-1", Force: true})
	assert.NoError(t, w.handleRefresh(context.Background(), task))
	assert.NoError(t, w.handleRefresh(context.Background(), task))

	assert.Equal(t, 2, refresher.calls)
}

func TestHandleRefreshFailure(t *testing.T) {
	boom := errors.New("provider down")
	refresher := &fakeRefresher{err: boom}
	c := cache.New(time.Hour)
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, c)

	task := refreshTask(t, RefreshPayload{RunID: "run-1"})
	err := w.handleRefresh(context.Background(), task)

	assert.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, ok := c.Peek()
	assert.False(t, ok, "failed refresh must not store an entry")
}

func TestHandleRefreshFailurePreservesEntry(t *testing.T) {
	refresher := &fakeRefresher{}
	c := cache.New(time.Nanosecond)
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, c)

	task := refreshTask(t, RefreshPayload{RunID: "run-1"})
	assert.NoError(t, w.handleRefresh(context.Background(), task))

	refresher.err = errors.New("provider down")
	time.Sleep(time.Millisecond)
	assert.Error(t, w.handleRefresh(context.Background(), task))

	snap, ok := c.Peek()
	assert.True(t, ok, "previous entry must survive a failed refresh")
	assert.Len(t, snap.Articles, 1)
}

func TestHandleRefreshBlankPayloadRunID(t *testing.T) {
	refresher := &fakeRefresher{}
	c := cache.New(time.Hour)
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, c)

	var logs bytes.Buffer
	w.logger = slog.New(slog.NewJSONHandler(&logs, nil))

	// Periodic tasks arrive with the zero payload; each run must still
	// get its own run ID.
	task := refreshTask(t, RefreshPayload{})
	assert.NoError(t, w.handleRefresh(context.Background(), task))

	_, ok := c.Peek()
	assert.True(t, ok)
	assert.NotContains(t, logs.String(), `"run_id":""`)
	assert.Contains(t, logs.String(), `"run_id":"`)
}

func TestHandleRefreshBlankPayloadQueueWait(t *testing.T) {
	refresher := &fakeRefresher{}
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, refresher, cache.New(time.Hour))

	var logs bytes.Buffer
	w.logger = slog.New(slog.NewJSONHandler(&logs, nil))

	// Without an enqueue timestamp the wait must report zero, not the
	// age of some registration-time constant.
	task := refreshTask(t, RefreshPayload{})
	assert.NoError(t, w.handleRefresh(context.Background(), task))
	assert.Contains(t, logs.String(), `"queue_wait_seconds":0`)
}

func TestHandleRefreshInvalidPayload(t *testing.T) {
	w := NewWorker(WorkerConfig{RedisAddr: "localhost:6379"}, &fakeRefresher{}, cache.New(time.Minute))

	task := asynq.NewTask(TypeRefresh, []byte("not json"))
	err := w.handleRefresh(context.Background(), task)

	assert.Error(t, err)
}

func TestRefreshPayloadRoundTrip(t *testing.T) {
	payload := RefreshPayload{
		RunID:      "run-42",
		Force:      true,
		TraceID:    "0af7651916cd43dd8448eb211c80319c",
		SpanID:     "b7ad6b7169203331",
		EnqueuedAt: time.Now().UnixNano(),
	}

	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	var decoded RefreshPayload
	assert.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, payload, decoded)
}
