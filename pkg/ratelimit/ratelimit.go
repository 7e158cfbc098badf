package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds how many times a keyed action may run inside a window.
// Implementations must be safe for concurrent use. The in-memory limiter
// below assumes a single-process deployment; a multi-instance deployment
// needs this interface backed by a shared counter store.
type Limiter interface {
	// Allow reports whether the action identified by key may proceed. When
	// the budget is exhausted it returns false and how long the caller
	// should wait before retrying.
	Allow(key string) (bool, time.Duration)
}

type window struct {
	count     int
	resetTime time.Time
}

// FixedWindow is an in-memory fixed-window limiter keyed by caller-chosen
// identifiers (e.g. "parse_nlp:<userID>"). Windows reset by wall clock on
// the next Allow call after expiry; no background eviction runs.
type FixedWindow struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	windowSize  time.Duration
	now         func() time.Time
}

// NewFixedWindow creates a limiter allowing maxRequests per windowSize.
func NewFixedWindow(maxRequests int, windowSize time.Duration) *FixedWindow {
	return &FixedWindow{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		windowSize:  windowSize,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Test helper.
func (l *FixedWindow) SetClock(now func() time.Time) {
	l.now = now
}

func (l *FixedWindow) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	current, ok := l.windows[key]
	if !ok || now.After(current.resetTime) {
		l.windows[key] = &window{count: 1, resetTime: now.Add(l.windowSize)}
		return true, 0
	}

	if current.count >= l.maxRequests {
		return false, current.resetTime.Sub(now)
	}

	current.count++
	return true, 0
}
