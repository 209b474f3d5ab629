package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(limit int) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(limit, time.Minute)
	l.now = clock.now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, clock := newTestLimiter(2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "keys are independent")

	clock.t = clock.t.Add(61 * time.Second)
	assert.True(t, l.Allow("a"))
}

func TestLimiter_RetryAfter(t *testing.T) {
	l, clock := newTestLimiter(1)
	assert.Zero(t, l.RetryAfter("a"))

	l.Allow("a")
	clock.t = clock.t.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, l.RetryAfter("a"))
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a"))
	}
}

func TestLimiter_ResetAndPrune(t *testing.T) {
	l, clock := newTestLimiter(1)
	l.Allow("a")
	l.Allow("b")

	l.Reset("a")
	assert.True(t, l.Allow("a"))

	clock.t = clock.t.Add(2 * time.Minute)
	l.Prune()
	assert.Empty(t, l.windows)
}
