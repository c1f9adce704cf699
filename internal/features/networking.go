package features

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/firewall"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/sysinfo"
)

// GameNetworking blocks the game's network access until unblocked, either
// entirely or only towards the Rockstar save server.
type GameNetworking struct {
	fw      firewall.Firewall
	procs   sysinfo.Table
	journal session.Journal
}

// NewGameNetworking creates the network blocker.
func NewGameNetworking(fw firewall.Firewall, procs sysinfo.Table, journal session.Journal) *GameNetworking {
	if journal == nil {
		journal = nopJournal{}
	}
	return &GameNetworking{fw: fw, procs: procs, journal: journal}
}

// RuleName returns the firewall rule a block method uses.
func RuleName(method config.BlockMethod) string {
	if method == config.BlockSaveServer {
		return constants.RuleSaveServer
	}
	return constants.RuleEntireGame
}

// Block adds the rules of method. Rules of the same name are replaced, so
// blocking twice leaves a single set.
func (g *GameNetworking) Block(ctx context.Context, method config.BlockMethod, saveServerIP string) error {
	rules, err := g.rules(ctx, method, saveServerIP)
	if err != nil {
		g.journal.Record(store.ActionBlock, method.String(), err)
		return err
	}

	name := RuleName(method)
	if err := g.fw.Remove(ctx, name); err != nil {
		g.journal.Record(store.ActionBlock, method.String(), err)
		return fmt.Errorf("replace %q: %w", name, err)
	}

	var errs []error
	for _, r := range rules {
		errs = append(errs, g.fw.Add(ctx, r))
	}
	err = errors.Join(errs...)
	g.journal.Record(store.ActionBlock, method.String(), err)
	if err != nil {
		_ = g.fw.Remove(ctx, name)
		return err
	}

	log.Info().Str("method", method.String()).Str("rule", name).Msg("Blocked game network access")
	return nil
}

// Unblock removes the rules of method.
func (g *GameNetworking) Unblock(ctx context.Context, method config.BlockMethod) error {
	err := g.fw.Remove(ctx, RuleName(method))
	g.journal.Record(store.ActionUnblock, method.String(), err)
	if err != nil {
		return err
	}
	log.Info().Str("method", method.String()).Msg("Unblocked game network access")
	return nil
}

// Blocked reports whether the rules of method are in place.
func (g *GameNetworking) Blocked(ctx context.Context, method config.BlockMethod) (bool, error) {
	return g.fw.Exists(ctx, RuleName(method))
}

// EnsureExclusivity removes the rules of every method other than method, so
// switching methods never leaves a forgotten block behind.
func (g *GameNetworking) EnsureExclusivity(ctx context.Context, method config.BlockMethod) error {
	var errs []error
	for _, other := range config.BlockMethods {
		if other == method {
			continue
		}
		name := RuleName(other)
		exists, err := g.fw.Exists(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !exists {
			continue
		}
		err = g.fw.Remove(ctx, name)
		g.journal.Record(store.ActionUnblock, other.String(), err)
		errs = append(errs, err)
		if err == nil {
			log.Info().Str("rule", name).Msg("Removed rule of inactive block method")
		}
	}
	return errors.Join(errs...)
}

func (g *GameNetworking) rules(ctx context.Context, method config.BlockMethod, saveServerIP string) ([]firewall.Rule, error) {
	if method == config.BlockSaveServer {
		ip := strings.TrimSpace(saveServerIP)
		if ip == "" {
			ip = constants.DefaultSaveServerIP
		}
		return []firewall.Rule{{
			Name:          constants.RuleSaveServer,
			Direction:     firewall.Outbound,
			Protocol:      firewall.AnyProtocol,
			RemoteAddress: ip,
		}}, nil
	}

	proc, err := findGame(ctx, g.procs)
	if err != nil {
		return nil, err
	}
	if proc.Exe() == "" {
		return nil, fmt.Errorf("executable path of %s is unknown", proc.Name())
	}

	var rules []firewall.Rule
	for _, dir := range []firewall.Direction{firewall.Outbound, firewall.Inbound} {
		rules = append(rules, firewall.Rule{
			Name:      constants.RuleEntireGame,
			Direction: dir,
			Protocol:  firewall.AnyProtocol,
			Program:   proc.Exe(),
		})
	}
	return rules, nil
}
