//go:build windows

package firewall

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/rs/zerolog/log"
)

// INetFwRule constants.
const (
	fwDirIn       = 1
	fwDirOut      = 2
	fwActionBlock = 0
	fwProtoTCP    = 6
	fwProtoUDP    = 17
	fwProtoAny    = 256

	// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
	sFalse = 1

	// maxRemovals bounds the loop deleting same-named rules.
	maxRemovals = 16
)

type property struct {
	name  string
	value interface{}
}

// COM manages rules through the INetFwPolicy2 automation interface.
type COM struct{}

// New returns the COM-backed firewall, falling back to netsh when the
// automation interface cannot be reached.
func New() Firewall {
	return &Fallback{Primary: &COM{}, Secondary: NewNetsh(nil)}
}

// Add implements Firewall.
func (c *COM) Add(_ context.Context, rule Rule) error {
	if err := validate(rule); err != nil {
		return err
	}

	return withRules(func(rules *ole.IDispatch) error {
		unknown, err := oleutil.CreateObject("HNetCfg.FWRule")
		if err != nil {
			return fmt.Errorf("create rule object: %w", err)
		}
		defer unknown.Release()

		fwRule, err := unknown.QueryInterface(ole.IID_IDispatch)
		if err != nil {
			return fmt.Errorf("query rule interface: %w", err)
		}
		defer fwRule.Release()

		props := []property{
			{"Name", rule.Name},
			{"Direction", comDirection(rule.Direction)},
			{"Protocol", comProtocol(rule.Protocol)},
			{"Action", int32(fwActionBlock)},
			{"Enabled", true},
		}
		if rule.Program != "" {
			props = append(props, property{"ApplicationName", rule.Program})
		}
		if rule.RemoteAddress != "" {
			props = append(props, property{"RemoteAddresses", rule.RemoteAddress})
		}

		for _, p := range props {
			if _, err := oleutil.PutProperty(fwRule, p.name, p.value); err != nil {
				return fmt.Errorf("set rule %s: %w", p.name, err)
			}
		}

		if _, err := oleutil.CallMethod(rules, "Add", fwRule); err != nil {
			return fmt.Errorf("add rule %q: %w", rule.Name, err)
		}

		log.Debug().Str("rule", rule.Name).Str("dir", rule.Direction.String()).Msg("Firewall rule added")
		return nil
	})
}

// Remove implements Firewall. INetFwRules.Remove drops one rule per call,
// so it is repeated until no rule with the name is left.
func (c *COM) Remove(_ context.Context, name string) error {
	return withRules(func(rules *ole.IDispatch) error {
		for i := 0; i < maxRemovals; i++ {
			if !ruleExists(rules, name) {
				return nil
			}
			if _, err := oleutil.CallMethod(rules, "Remove", name); err != nil {
				return fmt.Errorf("remove rule %q: %w", name, err)
			}
			log.Debug().Str("rule", name).Msg("Firewall rule removed")
		}
		return nil
	})
}

// Exists implements Firewall.
func (c *COM) Exists(_ context.Context, name string) (bool, error) {
	var exists bool
	err := withRules(func(rules *ole.IDispatch) error {
		exists = ruleExists(rules, name)
		return nil
	})
	return exists, err
}

func ruleExists(rules *ole.IDispatch, name string) bool {
	item, err := oleutil.CallMethod(rules, "Item", name)
	if err != nil {
		return false
	}
	_ = item.Clear()
	return true
}

// withRules runs fn with the policy's rule collection on a thread that has
// COM initialized for the duration of the call.
func withRules(fn func(rules *ole.IDispatch) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("%w: initialize COM: %w", ErrUnavailable, err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("HNetCfg.FwPolicy2")
	if err != nil {
		return fmt.Errorf("%w: create firewall policy: %w", ErrUnavailable, err)
	}
	defer unknown.Release()

	policy, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("%w: query policy interface: %w", ErrUnavailable, err)
	}
	defer policy.Release()

	rulesVar, err := oleutil.GetProperty(policy, "Rules")
	if err != nil {
		return fmt.Errorf("get rules: %w", err)
	}
	rules := rulesVar.ToIDispatch()
	defer rules.Release()

	return fn(rules)
}

func comDirection(d Direction) int32 {
	if d == Inbound {
		return fwDirIn
	}
	return fwDirOut
}

func comProtocol(p Protocol) int32 {
	switch p {
	case TCP:
		return fwProtoTCP
	case UDP:
		return fwProtoUDP
	default:
		return fwProtoAny
	}
}
