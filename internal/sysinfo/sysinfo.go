// Package sysinfo finds the game process and acts on it.
package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/process"
)

// Process is a running process that can be terminated or frozen.
type Process interface {
	PID() int32
	Name() string
	Exe() string
	Kill() error
	Suspend() error
	Resume() error
}

// Table enumerates running processes.
type Table interface {
	// Find returns the first process whose name matches one of names, or
	// nil when none is running. Absence is not an error.
	Find(ctx context.Context, names ...string) (Process, error)

	// FindAll returns every process whose name matches one of names.
	FindAll(ctx context.Context, names ...string) ([]Process, error)
}

// System is the Table backed by the operating system.
type System struct{}

// NewSystem creates a process table.
func NewSystem() *System {
	return &System{}
}

// Find implements Table.
func (s *System) Find(ctx context.Context, names ...string) (Process, error) {
	procs, err := s.scan(ctx, names, true)
	if err != nil {
		return nil, err
	}
	if len(procs) == 0 {
		return nil, nil
	}
	return procs[0], nil
}

// FindAll implements Table.
func (s *System) FindAll(ctx context.Context, names ...string) ([]Process, error) {
	return s.scan(ctx, names, false)
}

func (s *System) scan(ctx context.Context, names []string, first bool) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var found []Process
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Processes exit between listing and querying; skip them.
			continue
		}
		if !matches(name, names) {
			continue
		}

		exe, err := p.ExeWithContext(ctx)
		if err != nil {
			log.Debug().Err(err).Int32("pid", p.Pid).Msg("Could not resolve executable path")
		}

		found = append(found, &osProcess{proc: p, name: name, exe: exe})
		if first {
			break
		}
	}
	return found, nil
}

// matches compares process names the way Windows does, ignoring case.
func matches(name string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	return false
}

type osProcess struct {
	proc *process.Process
	name string
	exe  string
}

func (p *osProcess) PID() int32 {
	return p.proc.Pid
}

func (p *osProcess) Name() string {
	return p.name
}

func (p *osProcess) Exe() string {
	return p.exe
}

func (p *osProcess) Kill() error {
	if err := p.proc.Kill(); err != nil {
		return fmt.Errorf("kill %s (%d): %w", p.name, p.proc.Pid, err)
	}
	return nil
}

func (p *osProcess) Suspend() error {
	if err := p.proc.Suspend(); err != nil {
		return fmt.Errorf("suspend %s (%d): %w", p.name, p.proc.Pid, err)
	}
	return nil
}

func (p *osProcess) Resume() error {
	if err := p.proc.Resume(); err != nil {
		return fmt.Errorf("resume %s (%d): %w", p.name, p.proc.Pid, err)
	}
	return nil
}
