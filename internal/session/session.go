// Package session tracks the current run of the application and journals
// every side effect it performs.
package session

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/store"
)

// retention is how long journal entries are kept.
const retention = 30 * 24 * time.Hour

// Journal records actions against the current run.
type Journal interface {
	Record(name, target string, err error)
}

// Manager handles run creation and the action journal.
type Manager struct {
	db    *store.Store
	runID string
	now   func() time.Time
}

// NewManager creates a new session manager.
func NewManager(db *store.Store) *Manager {
	return &Manager{db: db, now: time.Now}
}

// Start creates the run every later action is recorded against and prunes
// entries past the retention period.
func (m *Manager) Start(version string, elevated bool) (string, error) {
	runID := uuid.New().String()
	if err := m.db.CreateRun(runID, version, elevated, m.now()); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	m.runID = runID
	log.Info().Str("run_id", runID).Str("version", version).Bool("elevated", elevated).Msg("Started run")

	if _, err := m.db.PruneRuns(m.now().Add(-retention)); err != nil {
		log.Warn().Err(err).Msg("Failed to prune journal")
	}
	return runID, nil
}

// RunID returns the current run, or "" before Start.
func (m *Manager) RunID() string {
	return m.runID
}

// Record implements Journal. Failures to write are logged, never returned:
// the journal must not get in the way of the action itself.
func (m *Manager) Record(name, target string, actionErr error) {
	if m == nil || m.runID == "" {
		return
	}

	a := store.Action{
		RunID:     m.runID,
		Name:      name,
		Target:    target,
		OK:        actionErr == nil,
		CreatedAt: m.now(),
	}
	if actionErr != nil {
		a.Detail = actionErr.Error()
	}

	if _, err := m.db.RecordAction(a); err != nil {
		log.Warn().Err(err).Str("action", name).Msg("Failed to save action to journal")
	}
}

// End marks the current run as finished.
func (m *Manager) End() error {
	if m.runID == "" {
		return nil
	}
	if err := m.db.EndRun(m.runID, m.now()); err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}
	return nil
}

// History returns the newest journal entries of every run, compacted.
func (m *Manager) History(limit int) ([]store.Entry, error) {
	actions, err := m.db.ListActions("", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return store.CompactActions(actions), nil
}

// Runs returns recent runs.
func (m *Manager) Runs(limit int) ([]store.Run, error) {
	runs, err := m.db.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// FormatAgo formats a past moment relative to now, like "3 minutes ago".
func FormatAgo(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatEntry renders a journal entry on one line.
func FormatEntry(e store.Entry, now time.Time) string {
	status := "ok"
	if !e.OK {
		status = "failed"
	}

	line := fmt.Sprintf("%-22s %-6s", e.Name, status)
	if e.Target != "" {
		line += " " + e.Target
	}
	if e.Count > 1 {
		line += fmt.Sprintf(" (x%s since %s)", humanize.Comma(int64(e.Count)), FormatAgo(e.FirstAt, now))
	}
	if e.Detail != "" {
		line += ": " + e.Detail
	}
	return line
}
