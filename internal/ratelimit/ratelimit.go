// Package ratelimit gates how many model-invoking runs a caller may start
// per rolling time window. Exceeding the limit fails the run early rather
// than queuing it.
package ratelimit

import (
	"sync"
	"time"
)

// window tracks one caller's usage inside the current window.
type window struct {
	start time.Time
	count int
}

// Info describes the limiter's decision for one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter counts runs per caller identity over a rolling window. State is
// process-wide and explicitly reset when the window elapses; there is no
// ambient global counter.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	interval time.Duration

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}

	now func() time.Time // injectable for tests
}

// New creates a limiter allowing limit calls per interval for each caller.
// A limit of zero or below disables limiting.
func New(limit int, interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = time.Minute
	}

	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}

	if limit > 0 {
		l.cleanupTicker = time.NewTicker(5 * time.Minute)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow records one call for the caller and reports whether it fits inside
// the current window.
func (l *Limiter) Allow(callerID string) (bool, Info) {
	if l.limit <= 0 {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[callerID]
	if !exists || now.Sub(w.start) >= l.interval {
		// Window elapsed: reset the counter.
		w = &window{start: now}
		l.windows[callerID] = w
	}

	reset := w.start.Add(l.interval)
	if w.count >= l.limit {
		return false, Info{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}
	}

	w.count++
	return true, Info{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - w.count,
		ResetTime: reset,
	}
}

// cleanupLoop drops idle caller windows so the map does not grow without
// bound.
func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanup()
		case <-l.cleanupStop:
			return
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-2 * l.interval)
	for caller, w := range l.windows {
		if w.start.Before(cutoff) {
			delete(l.windows, caller)
		}
	}
}

// Stop halts the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
