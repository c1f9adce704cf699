package features

import (
	"testing"
	"time"

	"github.com/xonecas/gtatools/internal/store"
)

func TestAntiAFKSendsOncePerInterval(t *testing.T) {
	desktop := &fakeDesktop{focused: true}
	journal := &fakeJournal{}
	a := NewAntiAFK(desktop, journal, time.Minute, t0)

	if sent, _ := a.Poll(t0.Add(2 * time.Minute)); sent {
		t.Fatal("disabled anti AFK sent keys")
	}

	if err := a.Start(t0); err != nil {
		t.Fatal(err)
	}
	if err := a.Start(t0); err == nil {
		t.Error("second Start should fail")
	}

	if sent, _ := a.Poll(t0.Add(59 * time.Second)); sent {
		t.Error("sent before the interval")
	}
	sent, err := a.Poll(t0.Add(time.Minute))
	if err != nil || !sent {
		t.Fatalf("got sent=%v err=%v", sent, err)
	}
	if sent, _ := a.Poll(t0.Add(time.Minute + 100*time.Millisecond)); sent {
		t.Error("sent twice in one interval")
	}
	if desktop.sent != 1 {
		t.Errorf("got %d sends, want 1", desktop.sent)
	}
	if len(journal.records) != 1 || journal.records[0].name != store.ActionAntiAFK {
		t.Errorf("journal: got %+v", journal.records)
	}

	if err := a.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := a.Stop(); err == nil {
		t.Error("second Stop should fail")
	}
}

func TestAntiAFKSkipsWhenNotReady(t *testing.T) {
	tests := []struct {
		name    string
		desktop fakeDesktop
	}{
		{"unfocused", fakeDesktop{}},
		{"cursor visible", fakeDesktop{focused: true, cursor: true}},
		{"key held", fakeDesktop{focused: true, held: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.desktop
			skipped := 0
			a := NewAntiAFK(&d, nil, time.Minute, t0)
			a.SetCallbacks(AntiAFKCallbacks{OnSkipped: func() { skipped++ }})
			a.SetEnabled(true, t0)

			sent, err := a.Poll(t0.Add(time.Minute))
			if sent || err != nil {
				t.Fatalf("got sent=%v err=%v", sent, err)
			}
			if skipped != 1 {
				t.Errorf("got %d skips, want 1", skipped)
			}

			// The interval restarted despite the skip.
			d.focused, d.cursor, d.held = true, false, false
			if sent, _ := a.Poll(t0.Add(90 * time.Second)); sent {
				t.Error("sent before a new interval elapsed")
			}
			if sent, _ := a.Poll(t0.Add(2 * time.Minute)); !sent {
				t.Error("did not send after the next interval")
			}
		})
	}
}

func TestAntiAFKCircuitBreaker(t *testing.T) {
	desktop := &fakeDesktop{focused: true, sendErr: errBoom}
	var tripped error
	a := NewAntiAFK(desktop, nil, time.Minute, t0)
	a.SetCallbacks(AntiAFKCallbacks{OnTripped: func(err error) { tripped = err }})
	a.SetEnabled(true, t0)

	now := t0
	for i := 0; i < maxConsecutiveErrors; i++ {
		now = now.Add(time.Minute)
		if _, err := a.Poll(now); err == nil {
			t.Fatalf("send #%d: want error", i+1)
		}
	}

	if a.Enabled() {
		t.Error("breaker did not turn anti AFK off")
	}
	if tripped != errBoom {
		t.Errorf("OnTripped: got %v, want errBoom", tripped)
	}
}

func TestAntiAFKStatus(t *testing.T) {
	a := NewAntiAFK(&fakeDesktop{focused: true}, nil, time.Minute, t0)
	if st := a.Status(t0); st.Enabled {
		t.Errorf("got %+v, want disabled", st)
	}

	a.SetEnabled(true, t0)
	st := a.Status(t0.Add(20 * time.Second))
	if !st.Enabled || !st.Focused || st.Remaining != 40*time.Second {
		t.Errorf("got %+v", st)
	}
}
