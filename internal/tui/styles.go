package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/gtatools/internal/styles"
)

// TUI-specific styles building on base styles. They are rebuilt by
// applyStyles whenever the palette changes.
var (
	HeaderStyle     lipgloss.Style
	TitleStyle      lipgloss.Style
	BadgeAdminStyle lipgloss.Style
	BadgeUserStyle  lipgloss.Style

	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style

	// Buttons
	KeyStyle           lipgloss.Style
	ButtonStyle        lipgloss.Style
	ButtonArmedStyle   lipgloss.Style
	ButtonDisableStyle lipgloss.Style
	ValueStyle         lipgloss.Style

	// Settings rows
	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style

	// Input styles
	InputBorderStyle      lipgloss.Style
	InputPromptStyle      lipgloss.Style
	InputTextStyle        lipgloss.Style
	InputPlaceholderStyle lipgloss.Style

	// Status bar styles
	StatusBarStyle lipgloss.Style

	// Status icon styles (3-char width each: [ <icon> ])
	IconAntiAFKStyle lipgloss.Style
	IconInfoStyle    lipgloss.Style
	IconWarningStyle lipgloss.Style
	IconErrorStyle   lipgloss.Style
	IconBlockStyle   lipgloss.Style
	IconAdminStyle   lipgloss.Style

	// Status text styles
	StatusTextStyle      lipgloss.Style
	StatusTextErrorStyle lipgloss.Style
	StatusTextOKStyle    lipgloss.Style

	// Journal view
	LogStyle        lipgloss.Style
	EntryOKStyle    lipgloss.Style
	EntryErrorStyle lipgloss.Style

	// Dimmed text
	DimmedStyle lipgloss.Style
)

func init() {
	applyStyles()
}

func iconStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(c).
		Background(styles.ColorBg).
		Width(3).
		Align(lipgloss.Center)
}

func applyStyles() {
	bg := lipgloss.NewStyle().Background(styles.ColorBg)

	HeaderStyle = bg.
		Border(lipgloss.NormalBorder(), false, false, true, false). // Bottom border only
		BorderForeground(styles.ColorBorder).
		Padding(0, 1)
	TitleStyle = bg.Foreground(styles.ColorBrand).Bold(true)
	BadgeAdminStyle = bg.Foreground(styles.ColorSuccess).Bold(true)
	BadgeUserStyle = bg.Foreground(styles.ColorWarning)

	TabStyle = bg.Foreground(styles.ColorMuted).Padding(0, 1)
	TabActiveStyle = bg.Foreground(styles.ColorBrand).Bold(true).Underline(true).Padding(0, 1)

	KeyStyle = bg.Foreground(styles.ColorTeal).Bold(true)
	ButtonStyle = bg.Foreground(styles.ColorText)
	ButtonArmedStyle = bg.Foreground(styles.ColorError).Bold(true)
	ButtonDisableStyle = bg.Foreground(styles.ColorMuted).Italic(true)
	ValueStyle = bg.Foreground(styles.ColorBrand)

	RowStyle = bg.Foreground(styles.ColorText).Padding(0, 2)
	RowSelectedStyle = lipgloss.NewStyle().
		Foreground(styles.ColorBg).
		Background(styles.ColorBrand).
		Padding(0, 2)

	InputBorderStyle = bg.
		Border(lipgloss.NormalBorder(), true, false, false, false). // Top border only
		BorderForeground(styles.ColorBorder).
		Padding(0, 1)
	InputPromptStyle = bg.Foreground(styles.ColorBrand).Bold(true)
	InputTextStyle = bg.Foreground(styles.ColorTeal)
	InputPlaceholderStyle = bg.Foreground(styles.ColorMuted).Italic(true)

	StatusBarStyle = bg.
		Border(lipgloss.NormalBorder(), true, false, false, false). // Top border only
		BorderForeground(styles.ColorBorder)

	IconAntiAFKStyle = iconStyle(styles.ColorTeal)
	IconInfoStyle = iconStyle(styles.ColorSuccess)
	IconWarningStyle = iconStyle(styles.ColorWarning)
	IconErrorStyle = iconStyle(styles.ColorError)
	IconBlockStyle = iconStyle(styles.ColorError)
	IconAdminStyle = iconStyle(styles.ColorBrand)

	StatusTextStyle = bg.Foreground(styles.ColorMuted)
	StatusTextErrorStyle = bg.Foreground(styles.ColorError)
	StatusTextOKStyle = bg.Foreground(styles.ColorSuccess)

	LogStyle = bg
	EntryOKStyle = bg.Foreground(styles.ColorText)
	EntryErrorStyle = bg.Foreground(styles.ColorError)

	DimmedStyle = bg.Foreground(styles.ColorMuted)
}
