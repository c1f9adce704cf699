package features

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/store"
)

func TestEmptySessionSuspendAndResume(t *testing.T) {
	ctx := context.Background()
	procs, game := gameTable()
	journal := &fakeJournal{}
	es := NewEmptySession(procs, &fakeFirewall{}, journal, 10*time.Second)

	if err := es.Activate(ctx, t0, config.EmptySessionSuspend); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if game.suspended != 1 || !es.Active() {
		t.Fatalf("got suspended=%d active=%v", game.suspended, es.Active())
	}

	// Pressing again while active changes nothing.
	if err := es.Activate(ctx, t0.Add(time.Second), config.EmptySessionSuspend); err != nil {
		t.Fatalf("second Activate: %v", err)
	}
	if game.suspended != 1 {
		t.Errorf("got %d suspends, want 1", game.suspended)
	}

	if _, err := es.Poll(ctx, t0); err != nil {
		t.Fatal(err)
	}
	if got := es.Countdown(); got != "10" {
		t.Errorf("countdown: got %q, want %q", got, "10")
	}
	if _, err := es.Poll(ctx, t0.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if got := es.Countdown(); got != "9" {
		t.Errorf("countdown: got %q, want %q", got, "9")
	}

	reversed, err := es.Poll(ctx, t0.Add(9*time.Second))
	if err != nil || reversed {
		t.Fatalf("before interval: reversed=%v err=%v", reversed, err)
	}

	reversed, err = es.Poll(ctx, t0.Add(10*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !reversed || game.resumed != 1 {
		t.Fatalf("got reversed=%v resumed=%d", reversed, game.resumed)
	}
	if es.Active() {
		t.Error("still active after reversal")
	}

	// The reversal happens exactly once.
	if reversed, _ := es.Poll(ctx, t0.Add(20*time.Second)); reversed {
		t.Error("reversed twice")
	}
	if got := es.Countdown(); got != "" {
		t.Errorf("idle countdown: got %q, want empty", got)
	}

	want := []string{store.ActionSuspend, store.ActionResume}
	got := journal.names()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("journal: got %v, want %v", got, want)
	}
}

func TestEmptySessionShutdownResumes(t *testing.T) {
	ctx := context.Background()
	procs, game := gameTable()
	es := NewEmptySession(procs, &fakeFirewall{}, nil, 10*time.Second)

	if err := es.Activate(ctx, t0, config.EmptySessionSuspend); err != nil {
		t.Fatal(err)
	}
	if err := es.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	if game.resumed != 1 {
		t.Errorf("got %d resumes, want 1", game.resumed)
	}

	if err := es.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	if game.resumed != 1 {
		t.Errorf("shutdown while idle resumed again")
	}
}

func TestEmptySessionFirewall(t *testing.T) {
	ctx := context.Background()
	procs, game := gameTable()
	fw := &fakeFirewall{}
	es := NewEmptySession(procs, fw, nil, 10*time.Second)

	if err := es.Activate(ctx, t0, config.EmptySessionFirewall); err != nil {
		t.Fatal(err)
	}
	if got := fw.count(constants.RuleEmptySession); got != 2 {
		t.Fatalf("got %d rules, want 2", got)
	}
	for _, r := range fw.rules {
		if r.Program != game.exe {
			t.Errorf("rule program: got %q, want %q", r.Program, game.exe)
		}
	}
	if game.suspended != 0 {
		t.Error("firewall method should not suspend the process")
	}

	if _, err := es.Poll(ctx, t0.Add(10*time.Second)); err != nil {
		t.Fatal(err)
	}
	if got := fw.count(constants.RuleEmptySession); got != 0 {
		t.Errorf("got %d rules after reversal, want 0", got)
	}
}

func TestEmptySessionFirewallFailureCleansUp(t *testing.T) {
	ctx := context.Background()
	procs, _ := gameTable()
	fw := &fakeFirewall{failAdd: errBoom}
	es := NewEmptySession(procs, fw, nil, 10*time.Second)

	err := es.Activate(ctx, t0, config.EmptySessionFirewall)
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want errBoom", err)
	}
	if es.Active() {
		t.Error("failed activation must stay idle")
	}
}

func TestEmptySessionGameNotRunning(t *testing.T) {
	es := NewEmptySession(&fakeTable{}, &fakeFirewall{}, nil, 10*time.Second)

	err := es.Activate(context.Background(), t0, config.EmptySessionSuspend)
	if !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("got %v, want ErrGameNotRunning", err)
	}
	if es.Active() {
		t.Error("should stay idle")
	}
}

func TestEmptySessionSuspendFailure(t *testing.T) {
	procs, game := gameTable()
	game.failSusp = errBoom
	es := NewEmptySession(procs, &fakeFirewall{}, nil, 10*time.Second)

	if err := es.Activate(context.Background(), t0, config.EmptySessionSuspend); !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want errBoom", err)
	}
	if es.Active() {
		t.Error("should stay idle")
	}
}
