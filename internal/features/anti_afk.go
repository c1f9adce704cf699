package features

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/timing"
	"github.com/xonecas/gtatools/internal/win"
)

const (
	// maxConsecutiveErrors is the threshold for the circuit breaker.
	// After this many failed sends in a row, anti AFK turns itself off.
	maxConsecutiveErrors = 3
)

// AntiAFKStatus represents the current state of anti AFK.
type AntiAFKStatus struct {
	Enabled   bool
	Focused   bool
	Remaining time.Duration
}

// AntiAFKCallbacks lets the display react to anti AFK events.
type AntiAFKCallbacks struct {
	// OnSent is called after the keys were injected.
	OnSent func()

	// OnSkipped is called when the interval passed but the game was not in
	// a state to receive keys.
	OnSkipped func()

	// OnTripped is called when the circuit breaker turned anti AFK off.
	OnTripped func(err error)
}

// AntiAFK keeps the player from being kicked for idling by tapping keys the
// game ignores on foot, once per interval, while the game has focus.
type AntiAFK struct {
	enabled           bool
	gate              *timing.IntervalGate
	desktop           win.Desktop
	journal           session.Journal
	callbacks         AntiAFKCallbacks
	consecutiveErrors int
}

// NewAntiAFK creates a disabled anti AFK.
func NewAntiAFK(desktop win.Desktop, journal session.Journal, interval time.Duration, now time.Time) *AntiAFK {
	if journal == nil {
		journal = nopJournal{}
	}
	return &AntiAFK{
		gate:    timing.NewIntervalGate(interval, now),
		desktop: desktop,
		journal: journal,
	}
}

// SetCallbacks replaces the event callbacks.
func (a *AntiAFK) SetCallbacks(cb AntiAFKCallbacks) {
	a.callbacks = cb
}

// Start enables anti AFK. The first send happens one interval from now.
func (a *AntiAFK) Start(now time.Time) error {
	if a.enabled {
		return fmt.Errorf("anti AFK already running")
	}
	a.enabled = true
	a.consecutiveErrors = 0
	a.gate.Reset(now)

	log.Info().Dur("interval", a.gate.Interval()).Msg("Anti AFK started")
	return nil
}

// Stop disables anti AFK.
func (a *AntiAFK) Stop() error {
	if !a.enabled {
		return fmt.Errorf("anti AFK not active")
	}
	a.enabled = false

	log.Info().Msg("Anti AFK stopped")
	return nil
}

// SetEnabled starts or stops anti AFK, ignoring no-op transitions.
func (a *AntiAFK) SetEnabled(on bool, now time.Time) {
	if on == a.enabled {
		return
	}
	if on {
		_ = a.Start(now)
		return
	}
	_ = a.Stop()
}

// Enabled reports whether anti AFK is on.
func (a *AntiAFK) Enabled() bool {
	return a.enabled
}

// CanActivate reports whether keys may be sent right now: the game window
// has focus, the player is not holding one of the keys and no cursor is
// showing (which would mean a menu is open).
func (a *AntiAFK) CanActivate() bool {
	return a.desktop.IsWindowFocused(constants.WindowTitle) &&
		!a.desktop.IsAnyKeyPressed(win.PressKeys...) &&
		!a.desktop.IsCursorVisible()
}

// Status returns the current anti AFK status.
func (a *AntiAFK) Status(now time.Time) AntiAFKStatus {
	st := AntiAFKStatus{Enabled: a.enabled}
	if a.enabled {
		st.Focused = a.desktop.IsWindowFocused(constants.WindowTitle)
		st.Remaining = a.gate.Remaining(now)
	}
	return st
}

// Poll sends the keys when the interval has elapsed. The interval restarts
// whether or not the keys could be sent.
func (a *AntiAFK) Poll(now time.Time) (sent bool, err error) {
	if !a.enabled || !a.gate.TryFire(now) {
		return false, nil
	}

	if !a.CanActivate() {
		log.Debug().Msg("Anti AFK interval elapsed but game is not ready for input")
		if a.callbacks.OnSkipped != nil {
			a.callbacks.OnSkipped()
		}
		return false, nil
	}

	err = a.desktop.SendKeys(win.PressKeys...)
	a.journal.Record(store.ActionAntiAFK, constants.WindowTitle, err)
	if err != nil {
		a.consecutiveErrors++
		log.Warn().Err(err).Int("consecutive_errors", a.consecutiveErrors).Msg("Anti AFK send failed")

		// Circuit breaker - stop if too many consecutive errors
		if a.consecutiveErrors >= maxConsecutiveErrors {
			log.Warn().Int("consecutive_errors", a.consecutiveErrors).Msg("Circuit breaker triggered - stopping anti AFK")
			a.enabled = false
			if a.callbacks.OnTripped != nil {
				a.callbacks.OnTripped(err)
			}
		}
		return false, err
	}

	a.consecutiveErrors = 0
	log.Debug().Msg("Anti AFK keys sent")
	if a.callbacks.OnSent != nil {
		a.callbacks.OnSent()
	}
	return true, nil
}
