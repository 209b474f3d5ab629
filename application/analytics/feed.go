package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FetchFunc loads one analytics payload
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Feed caches the last good result of a fetch. A failed refresh is logged
// and leaves the previous data in place.
type Feed[T any] struct {
	name   string
	fetch  FetchFunc[T]
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	data      T
	loaded    bool
	loading   bool
	lastErr   error
	updatedAt time.Time
}

// FeedState is a point-in-time copy of a feed
type FeedState[T any] struct {
	Data      T         `json:"data"`
	Loaded    bool      `json:"loaded"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewFeed creates a feed that starts empty and not loading
func NewFeed[T any](name string, fetch FetchFunc[T], logger *zap.Logger) *Feed[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed[T]{name: name, fetch: fetch, logger: logger, now: time.Now}
}

// Refresh fetches new data. The loading flag is set for the duration of the
// call and always cleared afterwards.
func (f *Feed[T]) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.mu.Unlock()

	data, err := f.fetch(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.lastErr = err
	if err != nil {
		f.logger.Error("Failed to refresh analytics feed",
			zap.String("feed", f.name),
			zap.Bool("stale", f.loaded),
			zap.Error(err))
		return err
	}
	f.data = data
	f.loaded = true
	f.updatedAt = f.now()
	return nil
}

// State returns a copy of the feed state
func (f *Feed[T]) State() FeedState[T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := FeedState[T]{
		Data:      f.data,
		Loaded:    f.loaded,
		Loading:   f.loading,
		UpdatedAt: f.updatedAt,
	}
	if f.lastErr != nil {
		s.Error = f.lastErr.Error()
	}
	return s
}

// Name returns the feed name used in logs and errors
func (f *Feed[T]) Name() string { return f.name }
