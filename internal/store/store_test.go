package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateRun("run-1", "1.2.0", true, epoch); err != nil {
		t.Fatalf("CreateRun() error: %v", err)
	}

	run, err := s.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if run == nil {
		t.Fatal("run not found")
	}
	if run.Version != "1.2.0" || !run.Elevated {
		t.Errorf("got %+v", run)
	}
	if !run.StartedAt.Equal(epoch) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, epoch)
	}
	if run.EndedAt != nil {
		t.Errorf("EndedAt = %v, want nil", run.EndedAt)
	}

	if err := s.EndRun("run-1", epoch.Add(time.Hour)); err != nil {
		t.Fatalf("EndRun() error: %v", err)
	}
	run, _ = s.GetRun("run-1")
	if run.EndedAt == nil || !run.EndedAt.Equal(epoch.Add(time.Hour)) {
		t.Errorf("EndedAt = %v, want %v", run.EndedAt, epoch.Add(time.Hour))
	}

	if err := s.EndRun("missing", epoch); err == nil {
		t.Error("expected error ending unknown run")
	}

	missing, err := s.GetRun("missing")
	if err != nil || missing != nil {
		t.Errorf("GetRun(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestActionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	_ = s.CreateRun("run-1", "dev", false, epoch)
	_ = s.CreateRun("run-2", "dev", false, epoch.Add(time.Minute))

	names := []string{ActionLaunch, ActionSuspend, ActionResume}
	for i, name := range names {
		_, err := s.RecordAction(Action{
			RunID:     "run-1",
			Name:      name,
			Target:    "GTA5.exe",
			OK:        true,
			CreatedAt: epoch.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("RecordAction() error: %v", err)
		}
	}
	_, _ = s.RecordAction(Action{RunID: "run-2", Name: ActionForceClose, OK: false, Detail: "access denied", CreatedAt: epoch.Add(time.Hour)})

	all, err := s.ListActions("", 10)
	if err != nil {
		t.Fatalf("ListActions() error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d actions, want 4", len(all))
	}
	if all[0].Name != ActionForceClose || all[0].OK || all[0].Detail != "access denied" {
		t.Errorf("newest action = %+v", all[0])
	}
	if all[3].Name != ActionLaunch {
		t.Errorf("oldest action = %q, want %q", all[3].Name, ActionLaunch)
	}

	first, err := s.ListActions("run-1", 2)
	if err != nil {
		t.Fatalf("ListActions(run-1) error: %v", err)
	}
	if len(first) != 2 || first[0].Name != ActionResume || first[1].Name != ActionSuspend {
		t.Errorf("got %+v", first)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" || runs[1].ActionCount != 3 {
		t.Errorf("got runs %+v", runs)
	}
}

func TestPruneRuns(t *testing.T) {
	s := openTestStore(t)
	_ = s.CreateRun("old", "dev", false, epoch)
	_ = s.CreateRun("new", "dev", false, epoch.Add(48*time.Hour))
	_, _ = s.RecordAction(Action{RunID: "old", Name: ActionLaunch, OK: true, CreatedAt: epoch})

	n, err := s.PruneRuns(epoch.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneRuns() error: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d runs, want 1", n)
	}

	actions, _ := s.ListActions("", 10)
	if len(actions) != 0 {
		t.Errorf("actions of pruned run survived: %+v", actions)
	}
}

func TestCompactActions(t *testing.T) {
	afk := func(sec int, ok bool) Action {
		return Action{RunID: "r", Name: ActionAntiAFK, OK: ok, CreatedAt: epoch.Add(time.Duration(sec) * time.Second)}
	}

	// Newest first.
	actions := []Action{
		afk(300, true),
		afk(240, true),
		afk(180, true),
		{RunID: "r", Name: ActionSuspend, OK: true, CreatedAt: epoch.Add(150 * time.Second)},
		afk(120, false),
		afk(60, true),
		afk(0, true),
	}

	got := CompactActions(actions)
	if len(got) != 4 {
		t.Fatalf("got %d entries, want 4: %+v", len(got), got)
	}

	if got[0].Count != 3 || !got[0].CreatedAt.Equal(epoch.Add(300*time.Second)) || !got[0].FirstAt.Equal(epoch.Add(180*time.Second)) {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Name != ActionSuspend || got[1].Count != 1 {
		t.Errorf("second entry = %+v", got[1])
	}
	if got[2].OK || got[2].Count != 1 {
		t.Errorf("failed send should stand alone: %+v", got[2])
	}
	if got[3].Count != 2 {
		t.Errorf("last entry count = %d, want 2", got[3].Count)
	}
}

func TestCompactActionsNeverFoldsOneOff(t *testing.T) {
	actions := []Action{
		{Name: ActionBlock, OK: true, CreatedAt: epoch.Add(time.Second)},
		{Name: ActionBlock, OK: true, CreatedAt: epoch},
	}
	if got := CompactActions(actions); len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
}

func TestCompactActionsTruncatesDetail(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := CompactActions([]Action{{Name: ActionBlock, Detail: long}})
	if len(got[0].Detail) != 200+len("... [truncated]") {
		t.Errorf("detail length = %d", len(got[0].Detail))
	}
	if !strings.HasSuffix(got[0].Detail, "... [truncated]") {
		t.Errorf("detail not marked as truncated: %q", got[0].Detail[190:])
	}
}
