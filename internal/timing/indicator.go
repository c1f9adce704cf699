package timing

import "time"

// IndicatorState is what a status dot shows.
type IndicatorState int

const (
	// Neutral is the resting state.
	Neutral IndicatorState = iota
	// Succeeded flashes after an action worked.
	Succeeded
	// Failed flashes after an action was refused or errored.
	Failed
)

func (s IndicatorState) String() string {
	switch s {
	case Succeeded:
		return "ok"
	case Failed:
		return "failed"
	default:
		return "neutral"
	}
}

// Indicator is a status that falls back to Neutral after a fixed delay
// instead of holding an error forever.
type Indicator struct {
	gate  *IntervalGate
	state IndicatorState
}

// NewIndicator creates a Neutral indicator.
func NewIndicator(delay time.Duration) *Indicator {
	return &Indicator{gate: NewIntervalGate(delay, time.Time{})}
}

// Set shows state from now on.
func (i *Indicator) Set(state IndicatorState, now time.Time) {
	i.state = state
	i.gate.Reset(now)
}

// Report sets Failed when err is non-nil and Succeeded otherwise.
func (i *Indicator) Report(err error, now time.Time) {
	if err != nil {
		i.Set(Failed, now)
		return
	}
	i.Set(Succeeded, now)
}

// Poll reverts to Neutral once the delay has passed.
func (i *Indicator) Poll(now time.Time) {
	if i.state != Neutral && i.gate.Ready(now) {
		i.state = Neutral
	}
}

// State returns the current state.
func (i *Indicator) State() IndicatorState {
	return i.state
}
