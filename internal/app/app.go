// Package app holds the state of a running gtatools instance and advances
// every feature once per frame.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/features"
	"github.com/xonecas/gtatools/internal/firewall"
	"github.com/xonecas/gtatools/internal/launch"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/sysinfo"
	"github.com/xonecas/gtatools/internal/timing"
	"github.com/xonecas/gtatools/internal/win"
)

// ErrNotElevated is returned by actions that edit the firewall when the
// process lacks administrator rights.
var ErrNotElevated = errors.New("administrator rights required")

// SettingsStore persists settings.
type SettingsStore interface {
	Save(settings config.Settings) error
}

// Journal records actions and is closed on shutdown.
type Journal interface {
	session.Journal
	End() error
}

// Deps are the collaborators an App drives.
type Deps struct {
	Procs    sysinfo.Table
	Firewall firewall.Firewall
	Desktop  win.Desktop
	Launcher features.Launcher
	Settings SettingsStore
	Journal  Journal

	// Elevate restarts the program with administrator rights.
	Elevate func() error
}

// Input is what the user did during one frame.
type Input struct {
	// ForceClose is the number of force close presses.
	ForceClose int

	EmptySession  bool
	Launch        bool
	Block         bool
	Unblock       bool
	ToggleAntiAFK bool
	Elevate       bool

	// Settings replaces the current settings when non-nil.
	Settings *config.Settings
}

// Status is a snapshot of the App for rendering.
type Status struct {
	Settings config.Settings
	Elevated bool

	ForceCloseLabel string
	ForceCloseArmed bool
	ForceCloseLeft  time.Duration

	EmptySessionActive    bool
	EmptySessionCountdown string

	Blocked bool
	AntiAFK features.AntiAFKStatus

	// AntiAFKSent and AntiAFKSkipped count fires since start.
	AntiAFKSent    int
	AntiAFKSkipped int

	Indicator timing.IndicatorState
	LastError string
}

// App is the explicit context of one program run.
type App struct {
	settings config.Settings
	elevated bool
	closing  bool
	closed   bool

	deps    Deps
	journal Journal

	forceClose   *features.ForceClose
	emptySession *features.EmptySession
	antiAFK      *features.AntiAFK
	networking   *features.GameNetworking
	launch       *features.Launch

	indicator *timing.Indicator
	blocked   bool
	lastError string

	afkSent    int
	afkSkipped int
}

// New creates an App from loaded settings. elevated tells whether the
// process runs with administrator rights.
func New(deps Deps, settings config.Settings, elevated bool, opts features.Options, now time.Time) *App {
	var journal session.Journal = noJournal{}
	if deps.Journal != nil {
		journal = deps.Journal
	}

	a := &App{
		settings:     settings,
		elevated:     elevated,
		deps:         deps,
		journal:      deps.Journal,
		forceClose:   features.NewForceClose(deps.Procs, journal, opts.ConfirmWindow),
		emptySession: features.NewEmptySession(deps.Procs, deps.Firewall, journal, opts.EmptySessionInterval),
		antiAFK:      features.NewAntiAFK(deps.Desktop, journal, opts.AntiAFKInterval, now),
		networking:   features.NewGameNetworking(deps.Firewall, deps.Procs, journal),
		launch:       features.NewLaunch(deps.Launcher, journal),
		indicator:    timing.NewIndicator(opts.IndicatorDelay),
	}

	a.antiAFK.SetCallbacks(features.AntiAFKCallbacks{
		OnSent:    func() { a.afkSent++ },
		OnSkipped: func() { a.afkSkipped++ },
		OnTripped: func(err error) {
			a.settings.AntiAFKEnabled = false
			a.lastError = fmt.Sprintf("Anti AFK stopped: %v", err)
		},
	})
	a.antiAFK.SetEnabled(settings.AntiAFKEnabled, now)

	return a
}

// Init reads the initial firewall state. Call once before the first Poll.
func (a *App) Init(ctx context.Context) {
	if !a.elevated {
		return
	}
	if err := a.networking.EnsureExclusivity(ctx, a.settings.BlockMethod); err != nil {
		log.Warn().Err(err).Msg("Failed to enforce block method exclusivity")
	}
	a.refreshBlocked(ctx)
}

// Poll advances every feature by one frame. Order matters: the empty
// session timers run before the force close gate, anti AFK after it and
// the indicator last.
func (a *App) Poll(ctx context.Context, now time.Time, in Input) {
	if a.closing {
		return
	}

	if in.Settings != nil {
		a.applySettings(ctx, *in.Settings, now)
	}

	if in.EmptySession {
		a.report(now, "empty session", a.activateEmptySession(ctx, now))
	}
	if _, err := a.emptySession.Poll(ctx, now); err != nil {
		a.report(now, "empty session restore", err)
	}

	if killed, err := a.forceClose.Poll(ctx, now, in.ForceClose); killed {
		a.report(now, "force close", err)
	}

	if in.Block {
		a.report(now, "block", a.block(ctx))
	}
	if in.Unblock {
		a.report(now, "unblock", a.unblock(ctx))
	}
	if in.Launch {
		a.report(now, "launch", a.launch.Start(a.settings.Launcher, a.settings.LaunchVersion))
	}
	if in.Elevate {
		a.report(now, "elevate", a.elevate())
	}

	if in.ToggleAntiAFK {
		a.settings.AntiAFKEnabled = !a.antiAFK.Enabled()
		a.antiAFK.SetEnabled(a.settings.AntiAFKEnabled, now)
	}
	if _, err := a.antiAFK.Poll(now); err != nil {
		a.report(now, "anti AFK", err)
	}

	a.indicator.Poll(now)
}

// Status returns a snapshot for rendering.
func (a *App) Status(now time.Time) Status {
	return Status{
		Settings:              a.settings,
		Elevated:              a.elevated,
		ForceCloseLabel:       a.forceClose.Label(),
		ForceCloseArmed:       a.forceClose.Armed(),
		ForceCloseLeft:        a.forceClose.Remaining(now),
		EmptySessionActive:    a.emptySession.Active(),
		EmptySessionCountdown: a.emptySession.Countdown(),
		Blocked:               a.blocked,
		AntiAFK:               a.antiAFK.Status(now),
		AntiAFKSent:           a.afkSent,
		AntiAFKSkipped:        a.afkSkipped,
		Indicator:             a.indicator.State(),
		LastError:             a.lastError,
	}
}

// Settings returns the current settings.
func (a *App) Settings() config.Settings {
	return a.settings
}

// Closing reports whether the program should exit.
func (a *App) Closing() bool {
	return a.closing
}

// Shutdown persists settings, reverses an outstanding empty session and
// closes the journal. It is safe to call more than once. Cancellation of ctx
// is ignored: the program usually ends because ctx was cancelled, and the
// reversal must still run.
func (a *App) Shutdown(ctx context.Context) error {
	a.closing = true
	if a.closed {
		return nil
	}
	a.closed = true

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.deps.Settings != nil {
		if err := a.deps.Settings.Save(a.settings); err != nil {
			errs = append(errs, fmt.Errorf("save settings: %w", err))
		}
	}
	if err := a.emptySession.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("restore game: %w", err))
	}
	if a.journal != nil {
		if err := a.journal.End(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		log.Error().Err(err).Msg("Shutdown finished with errors")
	} else {
		log.Info().Msg("Shutdown complete")
	}
	return err
}

func (a *App) applySettings(ctx context.Context, next config.Settings, now time.Time) {
	if err := next.Validate(); err != nil {
		a.report(now, "settings", err)
		return
	}

	prev := a.settings
	a.settings = next

	if next.AntiAFKEnabled != prev.AntiAFKEnabled {
		a.antiAFK.SetEnabled(next.AntiAFKEnabled, now)
	}
	if next.BlockMethod != prev.BlockMethod && a.elevated {
		if err := a.networking.EnsureExclusivity(ctx, next.BlockMethod); err != nil {
			a.report(now, "block method", err)
		}
		a.refreshBlocked(ctx)
	}
}

func (a *App) activateEmptySession(ctx context.Context, now time.Time) error {
	if a.emptySession.Active() {
		return nil
	}
	if a.settings.EmptySessionMethod == config.EmptySessionFirewall && !a.elevated {
		return ErrNotElevated
	}
	return a.emptySession.Activate(ctx, now, a.settings.EmptySessionMethod)
}

func (a *App) block(ctx context.Context) error {
	if !a.elevated {
		return ErrNotElevated
	}
	err := a.networking.Block(ctx, a.settings.BlockMethod, a.settings.SaveServerIP)
	a.refreshBlocked(ctx)
	return err
}

func (a *App) unblock(ctx context.Context) error {
	if !a.elevated {
		return ErrNotElevated
	}
	err := a.networking.Unblock(ctx, a.settings.BlockMethod)
	a.refreshBlocked(ctx)
	return err
}

func (a *App) refreshBlocked(ctx context.Context) {
	blocked, err := a.networking.Blocked(ctx, a.settings.BlockMethod)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to query block status")
		return
	}
	a.blocked = blocked
}

func (a *App) elevate() error {
	if a.elevated {
		return nil
	}
	if a.deps.Elevate == nil {
		return win.ErrUnsupported
	}
	err := a.deps.Elevate()
	if a.journal != nil {
		a.journal.Record(store.ActionElevate, "", err)
	}
	if err != nil {
		return err
	}
	// The elevated copy takes over.
	a.closing = true
	return nil
}

// report turns an action result into indicator state. Expected absences
// leave the indicator neutral.
func (a *App) report(now time.Time, action string, err error) {
	switch {
	case err == nil:
		a.indicator.Set(timing.Succeeded, now)
		a.lastError = ""
	case errors.Is(err, features.ErrGameNotRunning), errors.Is(err, launch.ErrNotInstalled):
		log.Info().Str("action", action).Msg(err.Error())
		a.indicator.Set(timing.Neutral, now)
	default:
		log.Error().Err(err).Str("action", action).Msg("Action failed")
		a.indicator.Set(timing.Failed, now)
		a.lastError = fmt.Sprintf("%s: %v", action, err)
	}
}

type noJournal struct{}

func (noJournal) Record(string, string, error) {}
