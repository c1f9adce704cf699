package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xonecas/gtatools/internal/store"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *time.Time) {
	t.Helper()
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := epoch
	m := NewManager(db)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestRecordBeforeStartIsIgnored(t *testing.T) {
	m, _ := newTestManager(t)
	m.Record(store.ActionLaunch, "Steam", nil)

	entries, err := m.History(10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestStartRecordHistory(t *testing.T) {
	m, now := newTestManager(t)

	runID, err := m.Start("1.0.0", false)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if runID == "" || m.RunID() != runID {
		t.Fatalf("run id = %q, RunID() = %q", runID, m.RunID())
	}

	m.Record(store.ActionSuspend, "GTA5.exe", nil)
	*now = now.Add(10 * time.Second)
	m.Record(store.ActionResume, "GTA5.exe", errors.New("access denied"))

	entries, err := m.History(10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != store.ActionResume || entries[0].OK || entries[0].Detail != "access denied" {
		t.Errorf("newest entry = %+v", entries[0])
	}
	if entries[1].RunID != runID {
		t.Errorf("entry run = %q, want %q", entries[1].RunID, runID)
	}

	*now = now.Add(time.Minute)
	if err := m.End(); err != nil {
		t.Fatalf("End() error: %v", err)
	}
	runs, err := m.Runs(5)
	if err != nil {
		t.Fatalf("Runs() error: %v", err)
	}
	if len(runs) != 1 || runs[0].EndedAt == nil || runs[0].ActionCount != 2 {
		t.Errorf("got runs %+v", runs)
	}
}

func TestNilManagerRecord(t *testing.T) {
	var m *Manager
	m.Record(store.ActionLaunch, "", nil)
}

func TestFormatAgo(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"minutes", 3 * time.Minute, "3 minutes ago"},
		{"hours", 2 * time.Hour, "2 hours ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAgo(epoch.Add(-tt.d), epoch); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEntry(t *testing.T) {
	e := store.Entry{
		Action: store.Action{
			Name:      store.ActionAntiAFK,
			OK:        true,
			CreatedAt: epoch,
		},
		Count:   1200,
		FirstAt: epoch.Add(-20 * time.Hour),
	}

	got := FormatEntry(e, epoch)
	if !strings.HasPrefix(got, "anti_afk.keys") || !strings.Contains(got, "ok") {
		t.Errorf("unexpected line %q", got)
	}
	if !strings.Contains(got, "x1,200 since 20 hours ago") {
		t.Errorf("missing repeat summary in %q", got)
	}

	failed := store.Entry{Action: store.Action{Name: store.ActionBlock, Target: "entire game", Detail: "elevation required"}, Count: 1}
	got = FormatEntry(failed, epoch)
	if !strings.Contains(got, "failed entire game: elevation required") {
		t.Errorf("unexpected line %q", got)
	}
}
