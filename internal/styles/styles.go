// Package styles provides UI styling based on the Catppuccin palettes.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/gtatools/internal/config"
)

// Palette is one Catppuccin flavour.
type Palette struct {
	Name    string
	Dark    bool
	Base    lipgloss.Color
	Mantle  lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Mauve   lipgloss.Color
	Teal    lipgloss.Color
	Green   lipgloss.Color
	Red     lipgloss.Color
	Yellow  lipgloss.Color
	Blue    lipgloss.Color
}

// Catppuccin flavours, lightest first.
var (
	Latte = Palette{
		Name: "Latte", Dark: false,
		Base: "#eff1f5", Mantle: "#e6e9ef", Surface: "#ccd0da", Overlay: "#9ca0b0",
		Text: "#4c4f69", Subtext: "#6c6f85",
		Mauve: "#8839ef", Teal: "#179299", Green: "#40a02b", Red: "#d20f39", Yellow: "#df8e1d", Blue: "#1e66f5",
	}
	Frappe = Palette{
		Name: "Frappe", Dark: true,
		Base: "#303446", Mantle: "#292c3c", Surface: "#414559", Overlay: "#737994",
		Text: "#c6d0f5", Subtext: "#a5adce",
		Mauve: "#ca9ee6", Teal: "#81c8be", Green: "#a6d189", Red: "#e78284", Yellow: "#e5c890", Blue: "#8caaee",
	}
	Macchiato = Palette{
		Name: "Macchiato", Dark: true,
		Base: "#24273a", Mantle: "#1e2030", Surface: "#363a4f", Overlay: "#6e738d",
		Text: "#cad3f5", Subtext: "#a5adcb",
		Mauve: "#c6a0f6", Teal: "#8bd5ca", Green: "#a6da95", Red: "#ed8796", Yellow: "#eed49f", Blue: "#8aadf4",
	}
	Mocha = Palette{
		Name: "Mocha", Dark: true,
		Base: "#1e1e2e", Mantle: "#181825", Surface: "#313244", Overlay: "#6c7086",
		Text: "#cdd6f4", Subtext: "#a6adc8",
		Mauve: "#cba6f7", Teal: "#94e2d5", Green: "#a6e3a1", Red: "#f38ba8", Yellow: "#f9e2af", Blue: "#89b4fa",
	}
)

// ForTheme resolves a theme setting to a palette. light is the system
// preference, used by the automatic theme.
func ForTheme(theme config.Theme, light bool) Palette {
	switch theme {
	case config.ThemeLatte:
		return Latte
	case config.ThemeFrappe:
		return Frappe
	case config.ThemeMacchiato:
		return Macchiato
	case config.ThemeMocha:
		return Mocha
	default:
		if light {
			return Latte
		}
		return Mocha
	}
}

// Colors of the active palette.
var (
	ColorBrand   lipgloss.Color
	ColorTeal    lipgloss.Color
	ColorText    lipgloss.Color
	ColorError   lipgloss.Color
	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorMuted   lipgloss.Color
	ColorBg      lipgloss.Color
	ColorBgPanel lipgloss.Color
	ColorBorder  lipgloss.Color
)

// Base styles
var (
	Brand     lipgloss.Style
	BrandBold lipgloss.Style
	Secondary lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
)

var current Palette

func init() {
	Use(Mocha)
}

// Use makes p the active palette and rebuilds every style.
func Use(p Palette) {
	current = p

	ColorBrand = p.Mauve
	ColorTeal = p.Teal
	ColorText = p.Text
	ColorError = p.Red
	ColorSuccess = p.Green
	ColorWarning = p.Yellow
	ColorMuted = p.Overlay
	ColorBg = p.Base
	ColorBgPanel = p.Mantle
	ColorBorder = p.Surface

	Brand = lipgloss.NewStyle().Foreground(ColorBrand)
	BrandBold = lipgloss.NewStyle().Foreground(ColorBrand).Bold(true)
	Secondary = lipgloss.NewStyle().Foreground(ColorTeal)
	Muted = lipgloss.NewStyle().Foreground(ColorMuted)
	Error = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
}

// Current returns the active palette.
func Current() Palette {
	return current
}
