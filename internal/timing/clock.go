// Package timing implements the poll-driven state machines that gate every
// side-effecting action: a one-second countdown, a two-phase confirmation
// gate, an elapsed-time interval gate and the temporary suspension that
// reverses itself.
//
// Nothing in this package starts goroutines or timers. Every type is advanced
// by its owner passing the current time on each UI frame.
package timing

import "time"

// Clock abstracts time operations for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. Readings carry Go's monotonic component,
// so elapsed-time comparisons are immune to system clock changes.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current reading.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
