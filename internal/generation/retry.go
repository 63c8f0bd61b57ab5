package generation

import (
	"context"
	"time"

	"github.com/jonathan/proposal-agent/internal/llm"
)

// Policy controls how many times a request-and-parse cycle is attempted and
// how long to wait between attempts. Delays double per attempt, bounded by
// MaxDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy mirrors the long-standing defaults: 3 attempts with 2s/4s/8s
// backoff capped at 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// normalized fills zero values with defaults so a partially-configured
// policy behaves sensibly.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	return p
}

// delay returns the backoff before the given retry (1-based attempt that
// just failed).
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if d > p.MaxDelay || d <= 0 {
		return p.MaxDelay
	}
	return d
}

// Do runs fn up to MaxAttempts times. A malformed response is treated the
// same as a transient transport fault: it may be a one-off sampling
// artifact, so the whole cycle is retried. Errors classified as
// non-retriable (auth, quota, malformed key) fail fast.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	p = p.normalized()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !llm.IsRetriable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}
	return lastErr
}
