package timing

import "time"

// ShouldFire reports whether at least interval has passed since last.
func ShouldFire(last time.Time, interval time.Duration, now time.Time) bool {
	return now.Sub(last) >= interval
}

// IntervalGate permits a periodic action only once per interval. The
// reference point moves to the firing time, so the next poll is closed again.
type IntervalGate struct {
	interval  time.Duration
	lastFired time.Time
}

// NewIntervalGate creates a gate whose first opening is one interval after start.
func NewIntervalGate(interval time.Duration, start time.Time) *IntervalGate {
	return &IntervalGate{
		interval:  interval,
		lastFired: start,
	}
}

// Ready reports whether the gate is open at now.
func (g *IntervalGate) Ready(now time.Time) bool {
	return ShouldFire(g.lastFired, g.interval, now)
}

// Reset moves the reference point to now.
func (g *IntervalGate) Reset(now time.Time) {
	g.lastFired = now
}

// TryFire resets the gate and returns true when it is open at now.
// The reset happens before the caller runs its side effect.
func (g *IntervalGate) TryFire(now time.Time) bool {
	if !g.Ready(now) {
		return false
	}
	g.Reset(now)
	return true
}

// Elapsed returns the time since the gate last fired.
func (g *IntervalGate) Elapsed(now time.Time) time.Duration {
	return now.Sub(g.lastFired)
}

// Remaining returns the time until the gate opens, zero when already open.
func (g *IntervalGate) Remaining(now time.Time) time.Duration {
	left := g.interval - g.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Interval returns the configured interval.
func (g *IntervalGate) Interval() time.Duration {
	return g.interval
}
