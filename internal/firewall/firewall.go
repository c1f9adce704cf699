// Package firewall manages the named Windows Firewall block rules used to cut
// the game off from the network.
package firewall

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnsupported is returned on platforms without Windows Firewall.
	ErrUnsupported = errors.New("firewall: not supported on this platform")

	// ErrUnavailable wraps failures to reach a firewall backend at all, as
	// opposed to a backend rejecting a change.
	ErrUnavailable = errors.New("firewall: backend unavailable")
)

// Direction is the traffic direction a rule applies to.
type Direction int

const (
	// Inbound matches incoming traffic.
	Inbound Direction = iota + 1
	// Outbound matches outgoing traffic.
	Outbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "in"
	}
	return "out"
}

// Protocol is the IP protocol a rule matches.
type Protocol int

const (
	// AnyProtocol matches all traffic.
	AnyProtocol Protocol = iota
	// TCP matches TCP only.
	TCP
	// UDP matches UDP only.
	UDP
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	default:
		return "any"
	}
}

// Rule is a blocking rule. Exactly one of Program or RemoteAddress selects
// what the rule matches.
type Rule struct {
	Name          string
	Direction     Direction
	Protocol      Protocol
	Program       string
	RemoteAddress string
}

// Firewall edits block rules. Implementations are synchronous.
type Firewall interface {
	// Add creates a block rule.
	Add(ctx context.Context, rule Rule) error

	// Remove deletes every rule called name. Removing a rule that does not
	// exist is not an error.
	Remove(ctx context.Context, name string) error

	// Exists reports whether at least one rule called name exists.
	Exists(ctx context.Context, name string) (bool, error)
}

func validate(rule Rule) error {
	if rule.Name == "" {
		return errors.New("firewall: rule name is required")
	}
	if (rule.Program == "") == (rule.RemoteAddress == "") {
		return errors.New("firewall: rule needs exactly one of program or remote address")
	}
	return nil
}

// Fallback uses Primary and switches to Secondary for good the first time
// Primary reports ErrUnavailable.
type Fallback struct {
	Primary   Firewall
	Secondary Firewall

	switched bool
}

func (f *Fallback) pick(err error) bool {
	if f.switched || !errors.Is(err, ErrUnavailable) {
		return false
	}
	log.Warn().Err(err).Msg("Firewall backend unavailable, switching to fallback")
	f.switched = true
	return true
}

// Add implements Firewall.
func (f *Fallback) Add(ctx context.Context, rule Rule) error {
	if !f.switched {
		err := f.Primary.Add(ctx, rule)
		if !f.pick(err) {
			return err
		}
	}
	return f.Secondary.Add(ctx, rule)
}

// Remove implements Firewall.
func (f *Fallback) Remove(ctx context.Context, name string) error {
	if !f.switched {
		err := f.Primary.Remove(ctx, name)
		if !f.pick(err) {
			return err
		}
	}
	return f.Secondary.Remove(ctx, name)
}

// Exists implements Firewall.
func (f *Fallback) Exists(ctx context.Context, name string) (bool, error) {
	if !f.switched {
		ok, err := f.Primary.Exists(ctx, name)
		if !f.pick(err) {
			return ok, err
		}
	}
	return f.Secondary.Exists(ctx, name)
}
