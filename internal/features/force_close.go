package features

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/sysinfo"
	"github.com/xonecas/gtatools/internal/timing"
)

// Force close button labels.
const (
	ForceCloseLabel   = "Force close game"
	ForceConfirmLabel = "Are you sure?"
)

// ForceClose kills every game process after a confirmed double press.
type ForceClose struct {
	gate    *timing.ConfirmGate
	procs   sysinfo.Table
	journal session.Journal
}

// NewForceClose creates a disarmed force close.
func NewForceClose(procs sysinfo.Table, journal session.Journal, window time.Duration) *ForceClose {
	if journal == nil {
		journal = nopJournal{}
	}
	return &ForceClose{
		gate:    timing.NewConfirmGate(window, ForceCloseLabel, ForceConfirmLabel),
		procs:   procs,
		journal: journal,
	}
}

// Poll runs one frame with the number of presses the button received in it.
// The first press arms; only a press in a later frame inside the window kills.
func (f *ForceClose) Poll(ctx context.Context, now time.Time, presses int) (killed bool, err error) {
	defer f.gate.EndPoll()

	if presses == 0 {
		_, _ = f.gate.Prompt(now, false, nil)
		return false, nil
	}

	kill := func() error { return f.kill(ctx) }
	for i := 0; i < presses; i++ {
		fired, err := f.gate.Prompt(now, true, kill)
		if fired {
			return true, err
		}
	}
	return false, nil
}

// Label returns the button text.
func (f *ForceClose) Label() string {
	return f.gate.Label()
}

// Armed reports whether a confirmation is awaited.
func (f *ForceClose) Armed() bool {
	return f.gate.Armed()
}

// Remaining returns how long the confirmation stays open.
func (f *ForceClose) Remaining(now time.Time) time.Duration {
	return f.gate.Remaining(now)
}

func (f *ForceClose) kill(ctx context.Context) error {
	return KillGame(ctx, f.procs, f.journal)
}

// KillGame kills every running game process, journaling each one. It
// returns ErrGameNotRunning when there is nothing to kill.
func KillGame(ctx context.Context, procs sysinfo.Table, journal session.Journal) error {
	if journal == nil {
		journal = nopJournal{}
	}

	found, err := procs.FindAll(ctx, constants.GameExecutables...)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		log.Info().Msg("Force close confirmed but game is not running")
		return ErrGameNotRunning
	}

	var errs []error
	for _, p := range found {
		err := p.Kill()
		journal.Record(store.ActionForceClose, p.Name(), err)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Info().Int32("pid", p.PID()).Str("name", p.Name()).Msg("Killed game process")
	}
	return errors.Join(errs...)
}
