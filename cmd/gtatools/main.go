package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/app"
	"github.com/xonecas/gtatools/internal/cli"
	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/features"
	"github.com/xonecas/gtatools/internal/firewall"
	"github.com/xonecas/gtatools/internal/launch"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/styles"
	"github.com/xonecas/gtatools/internal/sysinfo"
	"github.com/xonecas/gtatools/internal/tui"
	"github.com/xonecas/gtatools/internal/update"
	"github.com/xonecas/gtatools/internal/win"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Parse flags
	flags := cli.ParseFlags(Version)

	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return err
	}
	defer cli.RecoverPanic(dataDir)

	// Initialize logging
	if err := setupLogging(flags, dataDir); err != nil {
		return err
	}

	settingsStore := config.NewStore(flags.ConfigPath)
	log.Info().
		Str("version", Version).
		Str("config", settingsStore.Path()).
		Msg("Starting " + constants.AppName)

	// Load settings
	settings, err := settingsStore.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load settings, using defaults")
		settings = config.Default()
	}

	elevated := win.IsElevated()
	if settings.StartElevated && !elevated && flags.Command() == "" {
		if err := win.Elevate(); err != nil {
			log.Warn().Err(err).Msg("Failed to restart as administrator, continuing")
		} else {
			return nil
		}
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Every run is journalled, one-shot commands included
	journal := session.NewManager(db)
	if _, err := journal.Start(Version, elevated); err != nil {
		log.Warn().Err(err).Msg("Failed to start journal run")
	}

	procs := sysinfo.NewSystem()
	fw := firewall.New()
	launcher := launch.New()

	checker, err := update.NewChecker(constants.CodebergURL, constants.CodebergRepo, Version)
	if err != nil {
		log.Warn().Err(err).Msg("Update checks disabled")
	}

	// Handle one-shot commands
	if flags.Command() != "" {
		defer func() {
			if err := journal.End(); err != nil {
				log.Warn().Err(err).Msg("Failed to end journal run")
			}
		}()
		return runCommand(ctx, flags, settings, elevated, journal, procs, fw, launcher, checker)
	}

	a := app.New(app.Deps{
		Procs:    procs,
		Firewall: fw,
		Desktop:  win.NewSession(),
		Launcher: launcher,
		Settings: settingsStore,
		Journal:  journal,
		Elevate:  win.Elevate,
	}, settings, elevated, features.DefaultOptions(), time.Now())
	a.Init(ctx)

	opts := tui.Options{
		Version:     Version,
		DataDir:     dataDir,
		History:     journal.History,
		Journal:     journal,
		LightSystem: lightSystem(),
	}
	if checker != nil {
		opts.Updates = checker
	}

	err = tui.Start(ctx, a, opts)
	var panicErr *tui.PanicError
	if errors.As(err, &panicErr) {
		cli.ReportPanic(dataDir, panicErr.Value, panicErr.Stack)
		return errors.New("the interface crashed")
	}
	return err
}

func runCommand(
	ctx context.Context,
	flags *cli.Flags,
	settings config.Settings,
	elevated bool,
	journal *session.Manager,
	procs sysinfo.Table,
	fw firewall.Firewall,
	launcher features.Launcher,
	checker *update.Checker,
) error {
	out := os.Stdout
	net := features.NewGameNetworking(fw, procs, journal)

	switch {
	case flags.Kill:
		return cli.KillCmd(ctx, out, procs, journal)
	case flags.Launch:
		return cli.LaunchCmd(out, launcher, journal, settings)
	case flags.Block:
		return cli.BlockCmd(ctx, out, net, settings, elevated)
	case flags.Unblock:
		return cli.UnblockCmd(ctx, out, net, settings, elevated)
	case flags.History:
		return cli.HistoryCmd(out, journal.History, time.Now())
	case flags.CheckUpdate:
		if checker == nil {
			return errors.New("update checks are unavailable")
		}
		return cli.CheckUpdateCmd(ctx, out, checker, journal, Version)
	}
	return nil
}

// lightSystem reports the Windows app theme, falling back to the terminal
// background elsewhere.
func lightSystem() bool {
	light, err := win.IsLightTheme()
	if err != nil {
		return !lipgloss.HasDarkBackground()
	}
	return light
}

func setupLogging(flags *cli.Flags, dataDir string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if flags.Command() == "" {
		// TUI mode: log to file to avoid collision with UI
		return features.SetupFileLogging(dataDir, flags.Debug)
	}

	// Command mode: log to stderr
	features.SetupConsoleLogging(os.Stderr, flags.Debug)
	return nil
}
