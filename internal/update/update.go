// Package update looks up the latest published release on Codeberg.
package update

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Release is a published version.
type Release struct {
	Version     string
	URL         string
	PublishedAt time.Time
}

// Detector finds the latest release of a repository slug.
type Detector interface {
	DetectLatest(ctx context.Context, repo selfupdate.Repository) (*selfupdate.Release, bool, error)
}

// Checker compares the running version with the latest release.
type Checker struct {
	detector Detector
	repo     string
	current  string
}

// NewChecker creates a checker for repo ("owner/name") hosted on the Gitea
// instance at baseURL.
func NewChecker(baseURL, repo, current string) (*Checker, error) {
	source, err := selfupdate.NewGiteaSource(selfupdate.GiteaConfig{BaseURL: baseURL})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	updater, err := newUpdater(source, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, err
	}

	return newChecker(updater, repo, current), nil
}

// anyAsset selects a release whatever its asset is called. Releases ship a
// single executable with no OS or architecture suffix in its name.
const anyAsset = `.+`

func newUpdater(source selfupdate.Source, goos, goarch string) (*selfupdate.Updater, error) {
	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:  source,
		OS:      goos,
		Arch:    goarch,
		Filters: []string{anyAsset},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return updater, nil
}

func newChecker(d Detector, repo, current string) *Checker {
	return &Checker{detector: d, repo: repo, current: current}
}

// Check returns the latest release and whether it is newer than the running
// version. A development build is never considered out of date.
func (c *Checker) Check(ctx context.Context) (*Release, bool, error) {
	latest, found, err := c.detector.DetectLatest(ctx, selfupdate.ParseSlug(c.repo))
	if err != nil {
		return nil, false, errors.Wrapf(err, "detect latest release of %s", c.repo)
	}
	if !found {
		log.Debug().Str("repo", c.repo).Msg("No release found for this platform")
		return nil, false, nil
	}

	rel := &Release{
		Version:     latest.Version(),
		URL:         latest.URL,
		PublishedAt: latest.PublishedAt,
	}

	current := strings.TrimPrefix(c.current, "v")
	if _, err := semver.NewVersion(current); err != nil {
		log.Debug().Str("version", c.current).Msg("Running an unversioned build, skipping comparison")
		return rel, false, nil
	}

	newer := !latest.LessOrEqual(current)
	log.Info().
		Str("latest", rel.Version).
		Str("current", c.current).
		Bool("newer", newer).
		Msg("Checked for updates")
	return rel, newer, nil
}
