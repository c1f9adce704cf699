package firewall

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type brokenFirewall struct {
	err   error
	calls int
}

func (b *brokenFirewall) Add(context.Context, Rule) error { b.calls++; return b.err }
func (b *brokenFirewall) Remove(context.Context, string) error {
	b.calls++
	return b.err
}
func (b *brokenFirewall) Exists(context.Context, string) (bool, error) {
	b.calls++
	return false, b.err
}

func TestFallbackSwitchesWhenUnavailable(t *testing.T) {
	primary := &brokenFirewall{err: fmt.Errorf("%w: create firewall policy: class not registered", ErrUnavailable)}
	runner := newFakeRunner()
	fw := &Fallback{Primary: primary, Secondary: NewNetsh(runner.run)}
	ctx := context.Background()

	rule := Rule{Name: "test", Direction: Outbound, Protocol: AnyProtocol, RemoteAddress: "192.0.2.1"}
	if err := fw.Add(ctx, rule); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !runner.rules["test"] {
		t.Fatal("rule not added through netsh")
	}

	ok, err := fw.Exists(ctx, "test")
	if err != nil || !ok {
		t.Errorf("exists: got %v, %v, want true, nil", ok, err)
	}
	if primary.calls != 1 {
		t.Errorf("primary called %d times after switching, want 1", primary.calls)
	}
}

func TestFallbackKeepsRejections(t *testing.T) {
	denied := errors.New("access denied")
	primary := &brokenFirewall{err: denied}
	runner := newFakeRunner()
	fw := &Fallback{Primary: primary, Secondary: NewNetsh(runner.run)}

	err := fw.Remove(context.Background(), "test")
	if !errors.Is(err, denied) {
		t.Errorf("got %v, want %v", err, denied)
	}
	if len(runner.calls) != 0 {
		t.Errorf("netsh called %d times, want 0", len(runner.calls))
	}
}
