package chime

import (
	"sort"
	"sync"
	"time"
)

// Clock abstracts "now" and "fire a callback after a delay" so tests can
// substitute a fixed or steppable clock instead of racing the wall clock.
// Every chime.Options.Clock read in this package goes through this
// interface; there is no ambient process-wide clock.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f to run after d and returns a Timer that can
	// cancel it. It must behave like time.AfterFunc: a Timer whose Stop is
	// called before it fires prevents f from running.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the minimal surface chime needs from a scheduled callback.
type Timer interface {
	// Stop prevents the Timer from firing, returning false if it already
	// fired or was already stopped.
	Stop() bool
}

// SystemClock is the default Clock, backed by the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock whose Now() is advanced explicitly by tests, and
// whose AfterFunc callbacks fire synchronously (in the goroutine that calls
// Advance) once the advanced time reaches or passes their deadline.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*manualTimer
}

type manualTimer struct {
	deadline time.Time
	fn       func()
	fired    bool
	stopped  bool
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManualClock returns a ManualClock starting at `start`.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements Clock.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{deadline: c.now.Add(d), fn: f}
	if d <= 0 {
		// Still defer to Advance/fire path so callers that call Stop()
		// immediately after AfterFunc can race it exactly like the real
		// clock would allow.
		t.deadline = c.now
	}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by d and synchronously runs any timer
// whose deadline has been reached, in deadline order. It is safe to call
// from a single test goroutine; it is not safe to call concurrently with
// itself.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	due := make([]*manualTimer, 0, len(c.pending))
	remaining := c.pending[:0]
	for _, t := range c.pending {
		if !t.stopped && !t.deadline.After(now) {
			due = append(due, t)
		} else if !t.stopped {
			remaining = append(remaining, t)
		}
	}
	c.pending = remaining
	c.mu.Unlock()
	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })

	for _, t := range due {
		c.mu.Lock()
		already := t.fired || t.stopped
		t.fired = true
		c.mu.Unlock()
		if !already {
			t.fn()
		}
	}
}

// Set jumps the clock directly to `t` (equivalent to Advance(t.Sub(Now()))).
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	cur := c.now
	c.mu.Unlock()
	c.Advance(t.Sub(cur))
}
