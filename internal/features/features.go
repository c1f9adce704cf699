// Package features binds the timing state machines to the operating system:
// each feature owns a gate and the collaborators it drives.
package features

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/sysinfo"
)

// ErrGameNotRunning is returned when an action needs the game and it is not running.
var ErrGameNotRunning = errors.New("game is not running")

// Options tunes the timing of every feature.
type Options struct {
	ConfirmWindow        time.Duration
	EmptySessionInterval time.Duration
	AntiAFKInterval      time.Duration
	IndicatorDelay       time.Duration
}

// DefaultOptions returns the production timings.
func DefaultOptions() Options {
	return Options{
		ConfirmWindow:        constants.ConfirmWindow,
		EmptySessionInterval: constants.EmptySessionInterval,
		AntiAFKInterval:      constants.AntiAFKInterval,
		IndicatorDelay:       constants.IndicatorDelay,
	}
}

// nopJournal discards records. Used when no journal is wired.
type nopJournal struct{}

func (nopJournal) Record(string, string, error) {}

func findGame(ctx context.Context, procs sysinfo.Table) (sysinfo.Process, error) {
	proc, err := procs.Find(ctx, constants.GameExecutables...)
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	if proc == nil {
		return nil, ErrGameNotRunning
	}
	return proc, nil
}
