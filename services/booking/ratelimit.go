package booking

import (
	"sync"
	"time"
)

// SlidingWindowLimiter bounds how often a single actor may perform an
// operation. Timestamps outside the window are evicted lazily on each check;
// no background sweep runs.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	calls  map[string][]time.Time
	now    func() time.Time
}

// NewSlidingWindowLimiter constructs a limiter allowing `limit` calls per
// actor within `window`.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window: window,
		limit:  limit,
		calls:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an attempt for the actor and reports whether it is within
// quota. The attempt is only recorded when allowed.
func (l *SlidingWindowLimiter) Allow(actorID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.calls[actorID][:0]
	for _, ts := range l.calls[actorID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.calls[actorID] = kept
		return false
	}
	l.calls[actorID] = append(kept, now)
	return true
}

// RetryAfter reports how long the actor must wait before the oldest call in
// the window expires. Zero when the actor is under quota.
func (l *SlidingWindowLimiter) RetryAfter(actorID string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	var inWindow []time.Time
	for _, ts := range l.calls[actorID] {
		if ts.After(cutoff) {
			inWindow = append(inWindow, ts)
		}
	}
	if len(inWindow) < l.limit {
		return 0
	}
	return inWindow[0].Add(l.window).Sub(now)
}
