package firewall

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Netsh manages rules by shelling out to `netsh advfirewall`.
type Netsh struct {
	run Runner
}

// NewNetsh creates a netsh-backed firewall. A nil runner runs the real binary.
func NewNetsh(run Runner) *Netsh {
	if run == nil {
		run = execRunner
	}
	return &Netsh{run: run}
}

// Add implements Firewall.
func (n *Netsh) Add(ctx context.Context, rule Rule) error {
	if err := validate(rule); err != nil {
		return err
	}

	args := []string{
		"advfirewall", "firewall", "add", "rule",
		"name=" + rule.Name,
		"dir=" + rule.Direction.String(),
		"action=block",
		"protocol=" + rule.Protocol.String(),
		"enable=yes",
	}
	if rule.Program != "" {
		args = append(args, "program="+rule.Program)
	}
	if rule.RemoteAddress != "" {
		args = append(args, "remoteip="+rule.RemoteAddress)
	}

	out, err := n.run(ctx, "netsh", args...)
	if err != nil {
		return fmt.Errorf("add rule %q: %w: %s", rule.Name, err, strings.TrimSpace(string(out)))
	}

	log.Debug().Str("rule", rule.Name).Str("dir", rule.Direction.String()).Msg("Firewall rule added")
	return nil
}

// Remove implements Firewall. netsh deletes every rule with the name at once.
func (n *Netsh) Remove(ctx context.Context, name string) error {
	exists, err := n.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	out, err := n.run(ctx, "netsh", "advfirewall", "firewall", "delete", "rule", "name="+name)
	if err != nil {
		return fmt.Errorf("delete rule %q: %w: %s", name, err, strings.TrimSpace(string(out)))
	}

	log.Debug().Str("rule", name).Msg("Firewall rule removed")
	return nil
}

// Exists implements Firewall. netsh exits non-zero when no rule matches.
func (n *Netsh) Exists(ctx context.Context, name string) (bool, error) {
	out, err := n.run(ctx, "netsh", "advfirewall", "firewall", "show", "rule", "name="+name)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) || strings.Contains(string(out), "No rules match") {
		return false, nil
	}
	return false, fmt.Errorf("show rule %q: %w", name, err)
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	return cmd.CombinedOutput()
}
