package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(max int, window time.Duration) (*SlidingWindow, *time.Time) {
	l := NewSlidingWindow(max, window)
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestSlidingWindow_AdmitsUpToCeiling(t *testing.T) {
	l, _ := newTestLimiter(100, 15*time.Minute)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Admit("203.0.113.9"), "request %d should pass", i+1)
	}
	assert.False(t, l.Admit("203.0.113.9"), "request 101 should be throttled")
	assert.Equal(t, 0, l.Remaining("203.0.113.9"))
}

func TestSlidingWindow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	assert.True(t, l.Admit("client-a"))
	assert.True(t, l.Admit("client-a"))
	assert.False(t, l.Admit("client-a"))

	assert.True(t, l.Admit("client-b"))
	assert.Equal(t, 1, l.Remaining("client-b"))
}

func TestSlidingWindow_WindowSlides(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	assert.True(t, l.Admit("client"))
	*clock = clock.Add(30 * time.Second)
	assert.True(t, l.Admit("client"))
	assert.False(t, l.Admit("client"))

	// 61s after the first request: only the second is still in the window.
	*clock = clock.Add(31 * time.Second)
	assert.True(t, l.Admit("client"))
	assert.False(t, l.Admit("client"))

	// Once everything ages out the key starts fresh.
	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 2, l.Remaining("client"))
	assert.True(t, l.Admit("client"))
}

func TestSlidingWindow_DeniedRequestsDoNotCount(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	assert.True(t, l.Admit("client"))
	for i := 0; i < 10; i++ {
		assert.False(t, l.Admit("client"))
	}

	// Denials must not extend the window: the single admitted timestamp ages
	// out on schedule.
	*clock = clock.Add(61 * time.Second)
	assert.True(t, l.Admit("client"))
}

func TestNewSlidingWindow_Defaults(t *testing.T) {
	l := NewSlidingWindow(0, 0)
	assert.Equal(t, 100, l.max)
	assert.Equal(t, 15*time.Minute, l.window)
}
