package jido

import (
	"sync"
	"time"
)

// slidingWindowLimiter counts events within a trailing time window,
// grounded on the teacher's ratelimit.go RPM/TPM sliding-window limiter,
// generalized here to rate-limit AgentSupervisor restarts instead of LLM
// requests.
type slidingWindowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	clock  Clock
	events []time.Time
}

func newSlidingWindowLimiter(limit int, window time.Duration, clock Clock) *slidingWindowLimiter {
	if clock == nil {
		clock = RealClock
	}
	return &slidingWindowLimiter{limit: limit, window: window, clock: clock}
}

// Allow records an event now and reports whether the window is still
// within its limit (true while the event count is at most limit, false
// once it is strictly greater).
func (l *slidingWindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	cutoff := now.Add(-l.window)
	kept := l.events[:0]
	for _, t := range l.events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.events = append(kept, now)
	return len(l.events) <= l.limit
}
