package timing

import (
	"errors"
	"testing"
	"time"
)

func TestShouldFire(t *testing.T) {
	interval := 10 * time.Second
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"zero", 0, false},
		{"just under", interval - time.Nanosecond, false},
		{"half", interval / 2, false},
		{"exact", interval, true},
		{"over", interval + time.Millisecond, true},
		{"far over", 10 * interval, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldFire(epoch, interval, epoch.Add(tt.elapsed)); got != tt.want {
				t.Errorf("ShouldFire(elapsed=%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestIntervalGateTryFireResets(t *testing.T) {
	g := NewIntervalGate(time.Minute, epoch)

	if g.TryFire(epoch.Add(59 * time.Second)) {
		t.Fatal("gate fired before the interval")
	}

	fireAt := epoch.Add(time.Minute)
	if !g.TryFire(fireAt) {
		t.Fatal("gate did not fire at the interval")
	}

	if g.Ready(fireAt) {
		t.Error("gate still open immediately after firing")
	}
	if g.TryFire(fireAt.Add(100 * time.Millisecond)) {
		t.Error("gate fired again on the next poll")
	}
	if got := g.Remaining(fireAt.Add(10 * time.Second)); got != 50*time.Second {
		t.Errorf("Remaining() = %v, want 50s", got)
	}
	if !g.TryFire(fireAt.Add(time.Minute)) {
		t.Error("gate did not fire one interval after the reset")
	}
}

func TestSuspensionAutoExpiry(t *testing.T) {
	s := NewSuspension(10 * time.Second)
	var reversals int
	reverse := func() error { reversals++; return nil }

	s.Suspend(epoch)
	if s.State() != Suspended {
		t.Fatalf("State() = %v, want suspended", s.State())
	}

	now := epoch
	for now.Before(epoch.Add(10*time.Second + 500*time.Millisecond)) {
		now = now.Add(100 * time.Millisecond)
		s.Poll(now, reverse)
	}

	if reversals != 1 {
		t.Errorf("reverse ran %d times, want 1", reversals)
	}
	if s.State() != Normal {
		t.Errorf("State() = %v, want normal", s.State())
	}
}

func TestSuspensionSinglePollAfterInterval(t *testing.T) {
	s := NewSuspension(10 * time.Second)
	var reversals int
	reverse := func() error { reversals++; return nil }

	s.Suspend(epoch)
	reversed, err := s.Poll(epoch.Add(10*time.Second+time.Millisecond), reverse)
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}
	if !reversed || reversals != 1 {
		t.Errorf("reversed=%v reversals=%d, want one reversal", reversed, reversals)
	}

	// Nothing outstanding any more.
	s.Poll(epoch.Add(time.Hour), reverse)
	if reversals != 1 {
		t.Errorf("reverse ran %d times, want 1", reversals)
	}
}

func TestSuspensionShutdown(t *testing.T) {
	t.Run("suspended", func(t *testing.T) {
		s := NewSuspension(10 * time.Second)
		var reversals int

		s.Suspend(epoch)
		s.Poll(epoch.Add(2*time.Second), func() error { reversals++; return nil })

		reversed, err := s.Shutdown(func() error { reversals++; return nil })
		if err != nil {
			t.Fatalf("Shutdown() error: %v", err)
		}
		if !reversed || reversals != 1 {
			t.Errorf("reversed=%v reversals=%d, want one reversal", reversed, reversals)
		}
		if s.Active() {
			t.Error("expected normal state after shutdown")
		}
	})

	t.Run("normal", func(t *testing.T) {
		s := NewSuspension(10 * time.Second)
		called := false
		reversed, _ := s.Shutdown(func() error { called = true; return nil })
		if reversed || called {
			t.Error("shutdown in normal state must not run reverse")
		}
	})
}

func TestSuspensionReverseErrorReturnsToNormal(t *testing.T) {
	s := NewSuspension(time.Second)
	s.Suspend(epoch)

	_, err := s.Poll(epoch.Add(2*time.Second), func() error { return errors.New("denied") })
	if err == nil {
		t.Error("expected reverse error")
	}
	if s.Active() {
		t.Error("failed reversal must not leave the suspension active")
	}
}

func TestSuspensionRemaining(t *testing.T) {
	s := NewSuspension(10 * time.Second)
	if got := s.Remaining(epoch); got != 0 {
		t.Errorf("Remaining() normal = %v, want 0", got)
	}
	s.Suspend(epoch)
	if got := s.Remaining(epoch.Add(4 * time.Second)); got != 6*time.Second {
		t.Errorf("Remaining() = %v, want 6s", got)
	}
}

func TestIndicatorAutoRevert(t *testing.T) {
	ind := NewIndicator(3 * time.Second)

	ind.Report(errors.New("access denied"), epoch)
	if ind.State() != Failed {
		t.Fatalf("State() = %v, want failed", ind.State())
	}

	ind.Poll(epoch.Add(2 * time.Second))
	if ind.State() != Failed {
		t.Errorf("State() = %v before delay, want failed", ind.State())
	}

	ind.Poll(epoch.Add(3 * time.Second))
	if ind.State() != Neutral {
		t.Errorf("State() = %v after delay, want neutral", ind.State())
	}

	ind.Report(nil, epoch.Add(4*time.Second))
	if ind.State() != Succeeded {
		t.Errorf("State() = %v, want ok", ind.State())
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	c.Advance(1500 * time.Millisecond)
	if got := c.Now().Sub(epoch); got != 1500*time.Millisecond {
		t.Errorf("elapsed = %v, want 1.5s", got)
	}
	var _ Clock = SystemClock{}
}
