package framework

import "time"

// Clock provides the time for controlling logic. Control paths never read
// the wall clock directly so tests can advance time deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system monotonic clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock advanced explicitly. Intended for tests.
type ManualClock struct {
	Current time.Time
}

// NewManualClock creates a ManualClock from an arbitrary base time.
func NewManualClock() *ManualClock {
	return &ManualClock{Current: time.Unix(0, 0)}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time { return c.Current }

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.Current = c.Current.Add(d)
	return c.Current
}
