package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xonecas/gtatools/internal/app"
	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/features"
	"github.com/xonecas/gtatools/internal/launch"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/styles"
	"github.com/xonecas/gtatools/internal/sysinfo"
	"github.com/xonecas/gtatools/internal/tui"
)

// HistoryLimit is how many journal entries HistoryCmd loads.
const HistoryLimit = 50

// KillCmd kills every game process. The flag is the confirmation.
func KillCmd(ctx context.Context, w io.Writer, procs sysinfo.Table, journal session.Journal) error {
	err := features.KillGame(ctx, procs, journal)
	if errors.Is(err, features.ErrGameNotRunning) {
		fmt.Fprintln(w, styles.Muted.Render("Game is not running"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("kill game: %w", err)
	}
	fmt.Fprintln(w, styles.Success.Render("Game closed"))
	return nil
}

// LaunchCmd starts the game with the saved launcher and version.
func LaunchCmd(w io.Writer, launcher features.Launcher, journal session.Journal, settings config.Settings) error {
	err := features.NewLaunch(launcher, journal).Start(settings.Launcher, settings.LaunchVersion)
	if errors.Is(err, launch.ErrNotInstalled) {
		fmt.Fprintln(w, styles.Muted.Render(settings.LaunchVersion.String()+" is not installed"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("launch game: %w", err)
	}
	fmt.Fprintf(w, "%s %s via %s\n", styles.Success.Render("Launched"), settings.LaunchVersion, settings.Launcher)
	return nil
}

// BlockCmd adds the firewall rules of the saved block method.
func BlockCmd(ctx context.Context, w io.Writer, net *features.GameNetworking, settings config.Settings, elevated bool) error {
	if !elevated {
		return app.ErrNotElevated
	}
	if err := net.EnsureExclusivity(ctx, settings.BlockMethod); err != nil {
		return fmt.Errorf("block: %w", err)
	}
	err := net.Block(ctx, settings.BlockMethod, settings.SaveServerIP)
	if errors.Is(err, features.ErrGameNotRunning) {
		fmt.Fprintln(w, styles.Muted.Render("Game is not running"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("block: %w", err)
	}
	fmt.Fprintf(w, "%s (%s)\n", styles.Success.Render("Blocked"), settings.BlockMethod)
	return nil
}

// UnblockCmd removes the firewall rules of the saved block method.
func UnblockCmd(ctx context.Context, w io.Writer, net *features.GameNetworking, settings config.Settings, elevated bool) error {
	if !elevated {
		return app.ErrNotElevated
	}
	if err := net.Unblock(ctx, settings.BlockMethod); err != nil {
		return fmt.Errorf("unblock: %w", err)
	}
	fmt.Fprintf(w, "%s (%s)\n", styles.Success.Render("Unblocked"), settings.BlockMethod)
	return nil
}

// HistoryCmd prints the newest journal entries.
func HistoryCmd(w io.Writer, load func(int) ([]store.Entry, error), now time.Time) error {
	entries, err := load(HistoryLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No actions recorded")
		return nil
	}

	fmt.Fprintln(w, styles.Brand.Render("Recent actions:"))
	fmt.Fprintln(w)

	for _, e := range entries {
		line := session.FormatEntry(e, now)
		if e.OK {
			line = styles.Secondary.Render(line)
		} else {
			line = styles.Error.Render(line)
		}
		fmt.Fprintf(w, "%s  %s\n", styles.Muted.Render(e.CreatedAt.Local().Format("Jan 02 15:04")), line)
	}

	return nil
}

// CheckUpdateCmd reports whether a newer release is published.
func CheckUpdateCmd(ctx context.Context, w io.Writer, checker tui.UpdateChecker, journal session.Journal, version string) error {
	rel, outdated, err := checker.Check(ctx)
	if journal != nil {
		journal.Record(store.ActionUpdateCheck, version, err)
	}
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}

	switch {
	case rel == nil:
		fmt.Fprintln(w, styles.Muted.Render("No releases published"))
	case outdated:
		fmt.Fprintf(w, "%s %s is available: %s\n", styles.Success.Render("Update"), rel.Version, rel.URL)
	default:
		fmt.Fprintf(w, "%s %s is up to date (latest %s)\n", styles.BrandBold.Render(constants.AppName), version, rel.Version)
	}
	return nil
}
