package features

import (
	"errors"
	"testing"

	"github.com/xonecas/gtatools/internal/launch"
	"github.com/xonecas/gtatools/internal/store"
)

type fakeLauncher struct {
	err      error
	platform launch.Platform
	version  launch.Version
}

func (l *fakeLauncher) Launch(p launch.Platform, v launch.Version) error {
	l.platform, l.version = p, v
	return l.err
}

func TestLaunchStart(t *testing.T) {
	launcher := &fakeLauncher{}
	journal := &fakeJournal{}
	l := NewLaunch(launcher, journal)

	if err := l.Start(launch.Epic, launch.Legacy); err != nil {
		t.Fatal(err)
	}
	if launcher.platform != launch.Epic || launcher.version != launch.Legacy {
		t.Errorf("got %v %v", launcher.platform, launcher.version)
	}
	if len(journal.records) != 1 || journal.records[0].name != store.ActionLaunch || !journal.records[0].ok {
		t.Errorf("journal: got %+v", journal.records)
	}
}

func TestLaunchNotInstalled(t *testing.T) {
	journal := &fakeJournal{}
	l := NewLaunch(&fakeLauncher{err: launch.ErrNotInstalled}, journal)

	if err := l.Start(launch.Rockstar, launch.Enhanced); !errors.Is(err, launch.ErrNotInstalled) {
		t.Fatalf("got %v, want ErrNotInstalled", err)
	}
	if len(journal.records) != 1 || journal.records[0].ok {
		t.Errorf("journal: got %+v", journal.records)
	}
}
