package timing

import "time"

// ConfirmGate guards a destructive action behind two separate triggers. The
// first trigger arms the gate; a second trigger on a later poll inside the
// window performs the action. Letting the window pass disarms silently.
type ConfirmGate struct {
	window     time.Duration
	idleLabel  string
	armedLabel string

	armed     bool
	armedAt   time.Time
	justArmed bool
	label     string
}

// NewConfirmGate creates a disarmed gate. The labels are what a button shows
// while idle and while waiting for confirmation.
func NewConfirmGate(window time.Duration, idleLabel, armedLabel string) *ConfirmGate {
	return &ConfirmGate{
		window:     window,
		idleLabel:  idleLabel,
		armedLabel: armedLabel,
		label:      idleLabel,
	}
}

// Prompt evaluates one input report within the current poll. trigger is
// whether the guarded input fired. action runs at most once per confirmation;
// its error is returned but the gate goes back to idle either way.
//
// A trigger arriving in the same poll that armed the gate is ignored until
// EndPoll has been called.
func (g *ConfirmGate) Prompt(now time.Time, trigger bool, action func() error) (fired bool, err error) {
	switch {
	case trigger && !g.armed:
		g.armed = true
		g.armedAt = now
		g.justArmed = true
		g.label = g.armedLabel

	case g.armed && now.Sub(g.armedAt) > g.window:
		g.disarm()

	case g.armed && trigger && !g.justArmed:
		g.disarm()
		if action != nil {
			err = action()
		}
		return true, err
	}

	return false, nil
}

// EndPoll closes the current poll. Only after it can a trigger confirm.
func (g *ConfirmGate) EndPoll() {
	g.justArmed = false
}

// Step is a whole poll with a single input report.
func (g *ConfirmGate) Step(now time.Time, trigger bool, action func() error) (fired bool, err error) {
	defer g.EndPoll()
	return g.Prompt(now, trigger, action)
}

// Armed reports whether the gate is waiting for confirmation.
func (g *ConfirmGate) Armed() bool {
	return g.armed
}

// ArmedAt returns when the gate was armed. Meaningless when not armed.
func (g *ConfirmGate) ArmedAt() time.Time {
	return g.armedAt
}

// Remaining returns how long the confirmation window stays open.
func (g *ConfirmGate) Remaining(now time.Time) time.Duration {
	if !g.armed {
		return 0
	}
	left := g.window - now.Sub(g.armedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Label returns the text the guarded button should show.
func (g *ConfirmGate) Label() string {
	return g.label
}

// Reset disarms the gate without running the action.
func (g *ConfirmGate) Reset() {
	g.disarm()
	g.justArmed = false
}

func (g *ConfirmGate) disarm() {
	g.armed = false
	g.armedAt = time.Time{}
	g.label = g.idleLabel
}
