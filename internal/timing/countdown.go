package timing

import (
	"strconv"
	"time"
)

// Countdown is a restartable counter that loses one tick per elapsed second.
// It is meant to be polled every frame; the anchor absorbs the frame rate.
type Countdown struct {
	remaining uint64
	original  uint64
	anchor    time.Time
	started   bool
	display   string
	tick      time.Duration
}

// NewCountdown creates a countdown of ticks one-second ticks.
func NewCountdown(ticks uint64) Countdown {
	return Countdown{
		remaining: ticks,
		original:  ticks,
		tick:      time.Second,
	}
}

// Count advances the countdown. The first call after a reset only records
// the anchor; later calls decrement once at least one tick has elapsed since
// the anchor. Reaching zero rolls the countdown over to its original value.
func (c *Countdown) Count(now time.Time) {
	if !c.started {
		c.anchor = now
		c.started = true
	}

	if now.Sub(c.anchor) >= c.tick && c.remaining > 0 {
		c.remaining--
		c.anchor = now
	}

	c.display = strconv.FormatUint(c.remaining, 10)

	if c.remaining == 0 {
		c.Reset()
	}
}

// Reset puts the countdown back to its original value and forgets the anchor.
func (c *Countdown) Reset() {
	*c = NewCountdown(c.original)
}

// Remaining returns the ticks left.
func (c Countdown) Remaining() uint64 {
	return c.remaining
}

// Original returns the tick count the countdown was created with.
func (c Countdown) Original() uint64 {
	return c.original
}

// Started reports whether the anchor has been recorded.
func (c Countdown) Started() bool {
	return c.started
}

// String returns the display text. It is empty until the first Count after a
// reset.
func (c Countdown) String() string {
	return c.display
}
