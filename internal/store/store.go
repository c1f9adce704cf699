// Package store provides SQLite persistence for the action journal.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/config"
)

// DBFileName is the journal database inside the data directory.
const DBFileName = "gtatools.db"

// Store handles database operations.
type Store struct {
	db *sql.DB
}

// Run is one execution of the application.
type Run struct {
	ID          string
	Version     string
	Elevated    bool
	StartedAt   time.Time
	EndedAt     *time.Time
	ActionCount int
}

// Action is one journalled side effect.
type Action struct {
	ID        int64
	RunID     string
	Name      string
	Target    string
	OK        bool
	Detail    string
	CreatedAt time.Time
}

// Open opens the journal in the data directory.
func Open() (*Store, error) {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	return OpenPath(filepath.Join(dataDir, DBFileName))
}

// OpenPath opens the database at dbPath and ensures the schema exists.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			elevated INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		);

		CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			target TEXT NOT NULL DEFAULT '',
			ok INTEGER NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_actions_created
		ON actions(created_at);
	`)
	return err
}

// CreateRun records the start of a run.
func (s *Store) CreateRun(id, version string, elevated bool, startedAt time.Time) error {
	query := `
		INSERT INTO runs (id, version, elevated, started_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, id, version, elevated, startedAt.UTC())
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// EndRun records when a run finished.
func (s *Store) EndRun(id string, endedAt time.Time) error {
	query := `UPDATE runs SET ended_at = ? WHERE id = ?`
	result, err := s.db.Exec(query, endedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("end run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("run '%s' not found", id)
	}
	return nil
}

// GetRun retrieves a run by ID. It returns nil when the run does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	query := `
		SELECT r.id, r.version, r.elevated, r.started_at, r.ended_at,
			(SELECT COUNT(*) FROM actions a WHERE a.run_id = r.id)
		FROM runs r
		WHERE r.id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs ordered by most recent.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT r.id, r.version, r.elevated, r.started_at, r.ended_at,
			(SELECT COUNT(*) FROM actions a WHERE a.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var endedAt sql.NullTime
	if err := row.Scan(
		&run.ID,
		&run.Version,
		&run.Elevated,
		&run.StartedAt,
		&endedAt,
		&run.ActionCount,
	); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		run.EndedAt = &endedAt.Time
	}
	return &run, nil
}

// RecordAction stores an action and returns its ID.
func (s *Store) RecordAction(a Action) (int64, error) {
	query := `
		INSERT INTO actions (run_id, name, target, ok, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.Exec(query, a.RunID, a.Name, a.Target, a.OK, a.Detail, a.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("record action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get action id: %w", err)
	}
	return id, nil
}

// ListActions returns the newest actions first. An empty runID lists
// actions of every run.
func (s *Store) ListActions(runID string, limit int) ([]Action, error) {
	query := `
		SELECT id, run_id, name, target, ok, detail, created_at
		FROM actions
		WHERE (? = '' OR run_id = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, runID, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var actions []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.RunID, &a.Name, &a.Target, &a.OK, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// PruneRuns deletes runs started before cutoff together with their actions.
func (s *Store) PruneRuns(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if n > 0 {
		log.Info().Int64("runs", n).Time("before", cutoff).Msg("Pruned old journal entries")
	}
	return n, nil
}
