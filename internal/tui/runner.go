package tui

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/app"
)

// PanicError is returned by Run when the interface panicked. The terminal
// has been restored and the app shut down by then.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Runner manages the TUI application lifecycle.
type Runner struct {
	program *tea.Program
	app     *app.App
	ctx     context.Context
}

// NewRunner creates a new TUI runner.
func NewRunner(ctx context.Context, a *app.App, opts Options) (*Runner, error) {
	if a == nil {
		return nil, errors.New("app cannot be nil")
	}

	model := NewModel(ctx, a, opts)

	r := &Runner{
		app: a,
		ctx: ctx,
	}

	// Panics are handled by Run so the app can shut down first.
	r.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithoutCatchPanics(),
	)

	return r, nil
}

// Run starts the TUI application and shuts the app down when it ends,
// however it ends.
func (r *Runner) Run() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := debug.Stack()
			if restoreErr := r.program.RestoreTerminal(); restoreErr != nil {
				log.Warn().Err(restoreErr).Msg("Failed to restore terminal")
			}
			log.Error().Interface("panic", rec).Msg("Panic in TUI")
			err = &PanicError{Value: rec, Stack: stack}
		}

		if shutdownErr := r.app.Shutdown(r.ctx); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()

	_, err = r.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// Context cancelled: a normal way out.
		err = nil
	}
	return err
}

// Stop stops the TUI application.
func (r *Runner) Stop() {
	if r.program != nil {
		r.program.Quit()
	}
}

// Start creates a TUI runner and starts the application.
// This is the main entry point for TUI mode.
func Start(ctx context.Context, a *app.App, opts Options) error {
	runner, err := NewRunner(ctx, a, opts)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	return runner.Run()
}
