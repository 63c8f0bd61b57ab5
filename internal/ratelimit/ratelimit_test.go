package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, interval time.Duration) (*Limiter, *time.Time) {
	l := New(limit, interval)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("caller")
		require.True(t, allowed, "call %d should be allowed", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("caller")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_WindowResets(t *testing.T) {
	l, current := newTestLimiter(1, time.Minute)
	defer l.Stop()

	allowed, _ := l.Allow("caller")
	require.True(t, allowed)

	allowed, _ = l.Allow("caller")
	require.False(t, allowed)

	*current = current.Add(time.Minute)
	allowed, _ = l.Allow("caller")
	assert.True(t, allowed, "a fresh window resets the counter")
}

func TestLimiter_CallersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	defer l.Stop()

	allowed, _ := l.Allow("alice")
	require.True(t, allowed)

	allowed, _ = l.Allow("bob")
	assert.True(t, allowed, "one caller's usage must not affect another")
}

func TestLimiter_ZeroLimitDisables(t *testing.T) {
	l := New(0, time.Minute)
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("caller")
		require.True(t, allowed)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l, current := newTestLimiter(5, time.Minute)
	defer l.Stop()

	l.Allow("stale")
	*current = current.Add(3 * time.Minute)
	l.Allow("fresh")

	l.cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.windows, "stale")
	assert.Contains(t, l.windows, "fresh")
}
