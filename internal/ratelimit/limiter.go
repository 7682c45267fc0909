package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow admits at most max requests per client key within a trailing
// window. Buckets only grow with admitted timestamps, so a bucket never holds
// more than max entries once stale ones are pruned.
type SlidingWindow struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewSlidingWindow builds a limiter with the given ceiling and window.
func NewSlidingWindow(max int, window time.Duration) *SlidingWindow {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &SlidingWindow{
		buckets: make(map[string][]time.Time),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Admit prunes timestamps older than the window for the key, then admits the
// request iff the remaining count is below the ceiling. Denial is a plain
// false so the caller can translate it into a throttling response.
func (l *SlidingWindow) Admit(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	bucket := l.buckets[key]
	kept := bucket[:0]
	for _, ts := range bucket {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.buckets[key] = kept
		return false
	}

	l.buckets[key] = append(kept, now)
	return true
}

// Remaining reports how many admissions the key has left in the current window.
func (l *SlidingWindow) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, ts := range l.buckets[key] {
		if ts.After(cutoff) {
			count++
		}
	}
	if count >= l.max {
		return 0
	}
	return l.max - count
}
