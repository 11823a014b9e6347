package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/newswatchhq/newswatch/internal/models"
)

// RefreshFunc produces a fresh snapshot. It is invoked by the cache on
// a miss while the cache lock is held, so at most one refresh runs at a
// time per cache.
type RefreshFunc func(ctx context.Context, now time.Time) (*models.Snapshot, error)

// ResponseCache memoizes the last computed snapshot for a fixed TTL.
// There is a single entry: the service serves one fixed topic query.
// A failed refresh never evicts the previous entry; stale data beats no
// data.
type ResponseCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	entry  *models.Snapshot
	logger *slog.Logger
}

// New creates an empty cache with the given TTL.
func New(ttl time.Duration) *ResponseCache {
	return &ResponseCache{ttl: ttl, logger: slog.Default()}
}

// GetOrRefresh returns the cached snapshot when it is younger than the
// TTL, otherwise runs refresh and stores its result stamped with now.
// The hit flag reports whether the cached entry was served. The lock is
// held across the whole check-refresh-store sequence so concurrent
// callers cannot trigger duplicate refreshes.
func (c *ResponseCache) GetOrRefresh(ctx context.Context, now time.Time, refresh RefreshFunc) (*models.Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil && now.Sub(c.entry.FetchedAt) < c.ttl {
		return c.entry, true, nil
	}

	snapshot, err := c.refreshLocked(ctx, now, refresh)
	if err != nil {
		return nil, false, err
	}
	return snapshot, false, nil
}

// ForceRefresh refreshes regardless of entry age. On failure the prior
// entry is preserved and the error is returned.
func (c *ResponseCache) ForceRefresh(ctx context.Context, now time.Time, refresh RefreshFunc) (*models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx, now, refresh)
}

func (c *ResponseCache) refreshLocked(ctx context.Context, now time.Time, refresh RefreshFunc) (*models.Snapshot, error) {
	snapshot, err := refresh(ctx, now)
	if err != nil {
		c.logger.Error("cache refresh failed, keeping previous entry",
			"error", err,
			"has_previous", c.entry != nil,
		)
		return nil, err
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = now
	}
	c.entry = snapshot
	return snapshot, nil
}

// Peek returns the current entry, fresh or stale, without refreshing.
func (c *ResponseCache) Peek() (*models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry, c.entry != nil
}
