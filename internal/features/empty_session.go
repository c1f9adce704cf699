package features

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/firewall"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/sysinfo"
	"github.com/xonecas/gtatools/internal/timing"
)

// EmptySession drops the player into a session of their own by cutting the
// game off for a few seconds, either by freezing the process or by blocking
// it in the firewall. The effect is always reversed: after the interval, or
// at shutdown at the latest.
type EmptySession struct {
	procs   sysinfo.Table
	fw      firewall.Firewall
	journal session.Journal

	suspension *timing.Suspension
	countdown  timing.Countdown

	// What was applied, so the reversal matches even if the method
	// setting changes meanwhile.
	applied config.EmptySessionMethod
	target  sysinfo.Process
}

// NewEmptySession creates an idle empty session.
func NewEmptySession(procs sysinfo.Table, fw firewall.Firewall, journal session.Journal, interval time.Duration) *EmptySession {
	if journal == nil {
		journal = nopJournal{}
	}
	return &EmptySession{
		procs:      procs,
		fw:         fw,
		journal:    journal,
		suspension: timing.NewSuspension(interval),
		countdown:  timing.NewCountdown(uint64(interval / constants.CountdownTick)),
	}
}

// Activate applies the effect with the given method. It does nothing while
// an effect is already in place.
func (e *EmptySession) Activate(ctx context.Context, now time.Time, method config.EmptySessionMethod) error {
	if e.suspension.Active() {
		return nil
	}

	proc, err := findGame(ctx, e.procs)
	if err != nil {
		return err
	}

	switch method {
	case config.EmptySessionFirewall:
		err = e.block(ctx, proc)
	default:
		err = proc.Suspend()
		e.journal.Record(store.ActionSuspend, proc.Name(), err)
	}
	if err != nil {
		return err
	}

	e.applied = method
	e.target = proc
	e.suspension.Suspend(now)
	e.countdown.Reset()

	log.Info().
		Int32("pid", proc.PID()).
		Str("method", method.String()).
		Dur("interval", e.suspension.Remaining(now)).
		Msg("Emptied session")
	return nil
}

func (e *EmptySession) block(ctx context.Context, proc sysinfo.Process) error {
	if proc.Exe() == "" {
		err := fmt.Errorf("executable path of %s is unknown", proc.Name())
		e.journal.Record(store.ActionSuspend, proc.Name(), err)
		return err
	}

	// A rule left behind by a crash would otherwise be stacked on.
	if err := e.fw.Remove(ctx, constants.RuleEmptySession); err != nil {
		log.Warn().Err(err).Msg("Failed to clear stale empty session rule")
	}

	var errs []error
	for _, dir := range []firewall.Direction{firewall.Outbound, firewall.Inbound} {
		errs = append(errs, e.fw.Add(ctx, firewall.Rule{
			Name:      constants.RuleEmptySession,
			Direction: dir,
			Protocol:  firewall.AnyProtocol,
			Program:   proc.Exe(),
		}))
	}

	err := errors.Join(errs...)
	e.journal.Record(store.ActionSuspend, constants.RuleEmptySession, err)
	if err != nil {
		// Half-applied rules must not outlive the failure.
		_ = e.fw.Remove(ctx, constants.RuleEmptySession)
	}
	return err
}

// Poll advances the countdown while the effect is in place and reverses it
// once the interval has passed.
func (e *EmptySession) Poll(ctx context.Context, now time.Time) (reversed bool, err error) {
	if e.suspension.Active() {
		e.countdown.Count(now)
	} else {
		e.countdown.Reset()
	}
	return e.suspension.Poll(now, e.reverse(ctx))
}

// Shutdown reverses the effect if it is still in place.
func (e *EmptySession) Shutdown(ctx context.Context) error {
	_, err := e.suspension.Shutdown(e.reverse(ctx))
	return err
}

// Active reports whether the game is currently cut off. The button that
// activates it should be disabled meanwhile.
func (e *EmptySession) Active() bool {
	return e.suspension.Active()
}

// Countdown returns the seconds left as text, or "" when idle.
func (e *EmptySession) Countdown() string {
	return e.countdown.String()
}

// Remaining returns how long until the effect is reversed.
func (e *EmptySession) Remaining(now time.Time) time.Duration {
	return e.suspension.Remaining(now)
}

func (e *EmptySession) reverse(ctx context.Context) func() error {
	return func() error {
		target := e.target
		e.target = nil

		var err error
		name := constants.RuleEmptySession
		switch e.applied {
		case config.EmptySessionFirewall:
			err = e.fw.Remove(ctx, constants.RuleEmptySession)
		default:
			if target == nil {
				return nil
			}
			name = target.Name()
			err = target.Resume()
		}

		e.journal.Record(store.ActionResume, name, err)
		if err != nil {
			log.Error().Err(err).Msg("Failed to restore game after empty session")
			return err
		}
		log.Info().Str("method", e.applied.String()).Msg("Restored game after empty session")
		return nil
	}
}
