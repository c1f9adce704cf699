// Package config holds the user's persistent settings.
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/launch"
)

// Settings are the choices that survive a restart.
type Settings struct {
	Launcher           launch.Platform    `toml:"launcher"`
	LaunchVersion      launch.Version     `toml:"launch_version"`
	Theme              Theme              `toml:"theme"`
	BlockMethod        BlockMethod        `toml:"block_method"`
	SaveServerIP       string             `toml:"save_server_ip"`
	EmptySessionMethod EmptySessionMethod `toml:"empty_session_method"`
	StartElevated      bool               `toml:"start_elevated"`
	AntiAFKEnabled     bool               `toml:"anti_afk_enabled"`
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{
		Launcher:           launch.Steam,
		LaunchVersion:      launch.Enhanced,
		Theme:              ThemeAuto,
		BlockMethod:        BlockEntireGame,
		SaveServerIP:       constants.DefaultSaveServerIP,
		EmptySessionMethod: EmptySessionSuspend,
	}
}

// Validate checks the fields that can be typed in by hand.
func (s Settings) Validate() error {
	if net.ParseIP(strings.TrimSpace(s.SaveServerIP)) == nil {
		return fmt.Errorf("save server IP %q is not an IP address", s.SaveServerIP)
	}
	return nil
}

// Theme is the colour scheme of the interface.
type Theme int

const (
	// ThemeAuto follows the system light/dark setting.
	ThemeAuto Theme = iota
	ThemeLatte
	ThemeFrappe
	ThemeMacchiato
	ThemeMocha
)

// Themes lists every theme in display order.
var Themes = []Theme{ThemeAuto, ThemeLatte, ThemeFrappe, ThemeMacchiato, ThemeMocha}

var themeNames = []string{"auto", "latte", "frappe", "macchiato", "mocha"}

func (t Theme) String() string {
	switch t {
	case ThemeLatte:
		return "Catppuccin Latte"
	case ThemeFrappe:
		return "Catppuccin Frappé"
	case ThemeMacchiato:
		return "Catppuccin Macchiato"
	case ThemeMocha:
		return "Catppuccin Mocha"
	default:
		return "Auto"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Theme) MarshalText() ([]byte, error) {
	return marshalName("theme", themeNames, int(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Theme) UnmarshalText(text []byte) error {
	i, err := parseName("theme", themeNames, text)
	if err != nil {
		return err
	}
	*t = Theme(i)
	return nil
}

// BlockMethod is what a permanent network block cuts off.
type BlockMethod int

const (
	// BlockEntireGame blocks all traffic of the game executable.
	BlockEntireGame BlockMethod = iota
	// BlockSaveServer blocks only the Rockstar save server.
	BlockSaveServer
)

// BlockMethods lists every block method in display order.
var BlockMethods = []BlockMethod{BlockEntireGame, BlockSaveServer}

var blockMethodNames = []string{"entire_game", "save_server"}

func (m BlockMethod) String() string {
	if m == BlockSaveServer {
		return "Save server"
	}
	return "Entire game"
}

// MarshalText implements encoding.TextMarshaler.
func (m BlockMethod) MarshalText() ([]byte, error) {
	return marshalName("block method", blockMethodNames, int(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlockMethod) UnmarshalText(text []byte) error {
	i, err := parseName("block method", blockMethodNames, text)
	if err != nil {
		return err
	}
	*m = BlockMethod(i)
	return nil
}

// EmptySessionMethod is how a session is emptied.
type EmptySessionMethod int

const (
	// EmptySessionSuspend freezes the game process.
	EmptySessionSuspend EmptySessionMethod = iota
	// EmptySessionFirewall blocks the game with a temporary firewall rule.
	EmptySessionFirewall
)

// EmptySessionMethods lists every method in display order.
var EmptySessionMethods = []EmptySessionMethod{EmptySessionSuspend, EmptySessionFirewall}

var emptySessionNames = []string{"suspend", "firewall"}

func (m EmptySessionMethod) String() string {
	if m == EmptySessionFirewall {
		return "Firewall"
	}
	return "Suspend"
}

// MarshalText implements encoding.TextMarshaler.
func (m EmptySessionMethod) MarshalText() ([]byte, error) {
	return marshalName("empty session method", emptySessionNames, int(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *EmptySessionMethod) UnmarshalText(text []byte) error {
	i, err := parseName("empty session method", emptySessionNames, text)
	if err != nil {
		return err
	}
	*m = EmptySessionMethod(i)
	return nil
}

func marshalName(kind string, names []string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("unknown %s %d", kind, i)
	}
	return []byte(names[i]), nil
}

func parseName(kind string, names []string, text []byte) (int, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, text)
}
