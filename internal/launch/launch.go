// Package launch starts the game through one of the storefronts it is sold on.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// ErrNotInstalled is returned when the Rockstar Games install cannot be found.
var ErrNotInstalled = errors.New("game is not installed through Rockstar Games")

// Platform is a storefront.
type Platform int

const (
	Steam Platform = iota
	Rockstar
	Epic
)

// Platforms lists every storefront in display order.
var Platforms = []Platform{Steam, Rockstar, Epic}

func (p Platform) String() string {
	switch p {
	case Rockstar:
		return "Rockstar Games"
	case Epic:
		return "Epic Games"
	default:
		return "Steam"
	}
}

// MarshalText stores the platform by its short name.
func (p Platform) MarshalText() ([]byte, error) {
	switch p {
	case Steam:
		return []byte("steam"), nil
	case Rockstar:
		return []byte("rockstar"), nil
	case Epic:
		return []byte("epic"), nil
	}
	return nil, fmt.Errorf("unknown platform %d", int(p))
}

// UnmarshalText parses a short or display name.
func (p *Platform) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "steam":
		*p = Steam
	case "rockstar", "rockstar games":
		*p = Rockstar
	case "epic", "epic games":
		*p = Epic
	default:
		return fmt.Errorf("unknown platform %q", text)
	}
	return nil
}

// Version is an edition of the game.
type Version int

const (
	Enhanced Version = iota
	Legacy
)

// Versions lists every edition in display order.
var Versions = []Version{Enhanced, Legacy}

func (v Version) String() string {
	if v == Legacy {
		return "Legacy"
	}
	return "Enhanced"
}

// MarshalText stores the version by name.
func (v Version) MarshalText() ([]byte, error) {
	switch v {
	case Enhanced:
		return []byte("enhanced"), nil
	case Legacy:
		return []byte("legacy"), nil
	}
	return nil, fmt.Errorf("unknown version %d", int(v))
}

// UnmarshalText parses a version name.
func (v *Version) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "enhanced":
		*v = Enhanced
	case "legacy":
		*v = Legacy
	default:
		return fmt.Errorf("unknown version %q", text)
	}
	return nil
}

// Store URLs that ask the launcher to start the game.
const (
	steamEnhanced = "steam://run/3240220"
	steamLegacy   = "steam://run/271590"
	epicEnhanced  = "com.epicgames.launcher://apps/8769e24080ea413b8ebca3f1b8c50951?action=launch&silent=true"
	epicLegacy    = "com.epicgames.launcher://apps/9d2d0eb64d5c44529cece33fe2a46482?action=launch&silent=true"
)

// Registry keys under HKLM holding the Rockstar Games install folder.
const (
	rockstarKeyEnhanced = `SOFTWARE\WOW6432Node\Rockstar Games\GTAV Enhanced`
	rockstarKeyLegacy   = `SOFTWARE\WOW6432Node\Rockstar Games\Grand Theft Auto V`
	installFolderValue  = "InstallFolder"
	rockstarLauncherExe = "PlayGTAV.exe"
)

// URL returns the store URL for a platform. Rockstar Games has none; ok is
// false for it.
func URL(p Platform, v Version) (url string, ok bool) {
	switch p {
	case Steam:
		if v == Legacy {
			return steamLegacy, true
		}
		return steamEnhanced, true
	case Epic:
		if v == Legacy {
			return epicLegacy, true
		}
		return epicEnhanced, true
	}
	return "", false
}

// RockstarKey returns the registry key holding the install folder of v.
func RockstarKey(v Version) string {
	if v == Legacy {
		return rockstarKeyLegacy
	}
	return rockstarKeyEnhanced
}

// Launcher starts the game. Its hooks are replaced in tests.
type Launcher struct {
	openURL    func(url string) error
	installDir func(key string) (string, error)
	start      func(path string) error
}

// New returns a launcher that opens URLs with the default handler and runs
// the Rockstar launcher directly.
func New() *Launcher {
	return &Launcher{
		openURL:    browser.OpenURL,
		installDir: installFolder,
		start:      startDetached,
	}
}

// Launch starts version v of the game through platform p.
func (l *Launcher) Launch(p Platform, v Version) error {
	if url, ok := URL(p, v); ok {
		if err := l.openURL(url); err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		log.Info().Str("platform", p.String()).Str("version", v.String()).Str("url", url).Msg("Launched game")
		return nil
	}

	dir, err := l.installDir(RockstarKey(v))
	if err != nil {
		log.Debug().Err(err).Str("version", v.String()).Msg("Rockstar Games install not found")
		return ErrNotInstalled
	}

	exe := filepath.Join(dir, rockstarLauncherExe)
	if err := l.start(exe); err != nil {
		return fmt.Errorf("start %s: %w", exe, err)
	}
	log.Info().Str("platform", p.String()).Str("version", v.String()).Str("exe", exe).Msg("Launched game")
	return nil
}

func startDetached(path string) error {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
