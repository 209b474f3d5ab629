// Package ratelimit counts requests per key over a sliding window.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most limit requests per key within any window
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
}

// New creates a limiter. A limit of zero or less allows everything.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// PerMinute creates a limiter for limit requests per minute
func PerMinute(limit int) *Limiter {
	return New(limit, time.Minute)
}

// Allow records a request for key and reports whether it is within the limit
func (l *Limiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	start := now.Add(-l.window)

	// Drop requests that left the window
	kept := l.windows[key][:0]
	for _, t := range l.windows[key] {
		if t.After(start) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.windows[key] = kept
		return false
	}
	l.windows[key] = append(kept, now)
	return true
}

// RetryAfter is how long key must wait for its oldest request to expire
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	requests := l.windows[key]
	if l.limit <= 0 || len(requests) < l.limit {
		return 0
	}
	wait := requests[0].Add(l.window).Sub(l.now())
	if wait < 0 {
		return 0
	}
	return wait
}

// Reset forgets every request for key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Prune drops keys with no request inside the window
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := l.now().Add(-l.window)
	for key, requests := range l.windows {
		if len(requests) == 0 || !requests[len(requests)-1].After(start) {
			delete(l.windows, key)
		}
	}
}
