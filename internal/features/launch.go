package features

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/launch"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
)

// Launcher starts the game through a storefront.
type Launcher interface {
	Launch(p launch.Platform, v launch.Version) error
}

// Launch starts the game and journals the attempt.
type Launch struct {
	launcher Launcher
	journal  session.Journal
}

// NewLaunch creates the launch feature.
func NewLaunch(launcher Launcher, journal session.Journal) *Launch {
	if journal == nil {
		journal = nopJournal{}
	}
	return &Launch{launcher: launcher, journal: journal}
}

// Start launches version v through platform p. A Rockstar Games launch with
// no install found is reported as launch.ErrNotInstalled.
func (l *Launch) Start(p launch.Platform, v launch.Version) error {
	err := l.launcher.Launch(p, v)
	l.journal.Record(store.ActionLaunch, p.String()+" "+v.String(), err)
	if errors.Is(err, launch.ErrNotInstalled) {
		log.Info().Str("platform", p.String()).Msg("Nothing to launch")
	}
	return err
}
