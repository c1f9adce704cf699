package timing

import "time"

// SuspensionState is the state of a temporary suspension.
type SuspensionState int

const (
	// Normal means no external effect is outstanding.
	Normal SuspensionState = iota
	// Suspended means an effect is in place and waiting to be reversed.
	Suspended
)

func (s SuspensionState) String() string {
	switch s {
	case Suspended:
		return "suspended"
	default:
		return "normal"
	}
}

// Suspension tracks an external effect (a suspended process, a blocking
// firewall rule) that must be reversed after an interval, and in any case
// before the application exits.
type Suspension struct {
	gate  *IntervalGate
	state SuspensionState
}

// NewSuspension creates a suspension in the Normal state.
func NewSuspension(interval time.Duration) *Suspension {
	return &Suspension{
		gate: NewIntervalGate(interval, time.Time{}),
	}
}

// Suspend records that the effect was applied at now. Suspending again while
// already suspended restarts the interval.
func (s *Suspension) Suspend(now time.Time) {
	s.state = Suspended
	s.gate.Reset(now)
}

// Poll runs reverse exactly once when the interval has elapsed. The state
// returns to Normal even if reverse fails.
func (s *Suspension) Poll(now time.Time, reverse func() error) (reversed bool, err error) {
	if s.state != Suspended || !s.gate.Ready(now) {
		return false, nil
	}
	return s.release(reverse)
}

// Shutdown runs reverse if the effect is still in place, regardless of the
// time left.
func (s *Suspension) Shutdown(reverse func() error) (reversed bool, err error) {
	if s.state != Suspended {
		return false, nil
	}
	return s.release(reverse)
}

// State returns the current state.
func (s *Suspension) State() SuspensionState {
	return s.state
}

// Active reports whether the effect is in place.
func (s *Suspension) Active() bool {
	return s.state == Suspended
}

// Remaining returns how long until the automatic reversal.
func (s *Suspension) Remaining(now time.Time) time.Duration {
	if s.state != Suspended {
		return 0
	}
	return s.gate.Remaining(now)
}

func (s *Suspension) release(reverse func() error) (bool, error) {
	s.state = Normal
	if reverse == nil {
		return true, nil
	}
	return true, reverse()
}
