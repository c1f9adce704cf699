package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/gtatools/internal/styles"
)

// StatusBar manages the bottom status bar with animated icons and status text.
type StatusBar struct {
	width int

	// Icon animation state
	antiAFKFrames int // Remaining animation frames for anti AFK icon
	infoFrames    int // Remaining animation frames for info icon
	warningFrames int // Remaining animation frames for warning icon
	errorFrames   int // Remaining animation frames for error icon

	currentFrame int // Current animation frame (0-11 for 12 frames @ 8 FPS)

	// Steady indicators on the right
	blocked  bool
	elevated bool

	// Status text
	errorText   string
	warningText string
	activeText  string
}

const (
	animationFPSFast     = 8                                                  // 8 frames per second (fast animation at start)
	animationFPSSlow     = 2                                                  // 2 frames per second (slow animation during deceleration)
	framesPerCycle       = 12                                                 // 12 frames in one complete cycle
	fastCycles           = 2                                                  // Number of fast cycles before deceleration
	decelerationFrames   = 12                                                 // Number of frames for deceleration phase
	totalAnimationFrames = (fastCycles * framesPerCycle) + decelerationFrames // 24 + 12 = 36
)

// StatusBarTickMsg is sent every animation frame.
type StatusBarTickMsg struct{}

// NewStatusBar creates a new status bar.
func NewStatusBar(width int) StatusBar {
	return StatusBar{
		width: width,
	}
}

// Init initializes the status bar.
func (s StatusBar) Init() tea.Cmd {
	return s.tick()
}

func (s StatusBar) maxFrames() int {
	return max(s.antiAFKFrames, s.infoFrames, s.warningFrames, s.errorFrames)
}

// tick returns a command that sends a tick message after the animation interval.
// The tick rate varies: fast during initial cycles, slow during deceleration, stops when idle.
func (s StatusBar) tick() tea.Cmd {
	maxFrames := s.maxFrames()

	// No animation needed if all icons are idle
	if maxFrames == 0 {
		return nil
	}

	var tickRate time.Duration
	if maxFrames > decelerationFrames {
		tickRate = time.Second / animationFPSFast // 125ms (8 FPS)
	} else {
		tickRate = time.Second / animationFPSSlow // 500ms (2 FPS)
	}

	return tea.Tick(tickRate, func(time.Time) tea.Msg {
		return StatusBarTickMsg{}
	})
}

// Update handles status bar updates.
func (s StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	if _, ok := msg.(StatusBarTickMsg); ok {
		s.currentFrame = (s.currentFrame + 1) % framesPerCycle

		s.antiAFKFrames = decrement(s.antiAFKFrames)
		s.infoFrames = decrement(s.infoFrames)
		s.warningFrames = decrement(s.warningFrames)
		s.errorFrames = decrement(s.errorFrames)

		return s, s.tick()
	}

	return s, nil
}

func decrement(frames int) int {
	if frames > 0 {
		return frames - 1
	}
	return 0
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// animate resets one icon to a full animation cycle and restarts the tick
// when the bar was idle.
func (s *StatusBar) animate(frames *int) tea.Cmd {
	wasIdle := s.maxFrames() == 0
	*frames = totalAnimationFrames
	if wasIdle {
		return s.tick()
	}
	return nil
}

// AnimateAntiAFK flashes the anti AFK icon after keys were sent.
func (s *StatusBar) AnimateAntiAFK() tea.Cmd {
	return s.animate(&s.antiAFKFrames)
}

// AnimateInfo flashes the info icon after an action worked.
func (s *StatusBar) AnimateInfo() tea.Cmd {
	return s.animate(&s.infoFrames)
}

// SetWarning sets the warning text.
func (s *StatusBar) SetWarning(text string) tea.Cmd {
	s.warningText = text
	return s.animate(&s.warningFrames)
}

// ClearWarning clears the warning text.
func (s *StatusBar) ClearWarning() {
	s.warningText = ""
}

// SetError sets the error text.
func (s *StatusBar) SetError(text string) tea.Cmd {
	s.errorText = text
	return s.animate(&s.errorFrames)
}

// ClearError clears the error text.
func (s *StatusBar) ClearError() {
	s.errorText = ""
}

// SetActiveText shows what is currently in progress, such as an empty
// session countdown. Empty text clears it.
func (s *StatusBar) SetActiveText(text string) {
	s.activeText = text
}

// SetBlocked shows or hides the firewall block icon.
func (s *StatusBar) SetBlocked(blocked bool) {
	s.blocked = blocked
}

// SetElevated shows or hides the administrator icon.
func (s *StatusBar) SetElevated(elevated bool) {
	s.elevated = elevated
}

// View renders the status bar.
func (s StatusBar) View() string {
	// Left side: Status icon column (4 icons × 3 chars each = 12 chars)
	leftIconColumn := IconAntiAFKStyle.Render(s.renderIcon(s.antiAFKFrames, antiAFKIcons)) +
		IconInfoStyle.Render(s.renderIcon(s.infoFrames, infoIcons)) +
		IconWarningStyle.Render(s.renderIcon(s.warningFrames, warningIcons)) +
		IconErrorStyle.Render(s.renderIcon(s.errorFrames, errorIcons))

	// Right side: steady icons (2 icons × 3 chars each = 6 chars)
	blockIcon, adminIcon := " ", " "
	if s.blocked {
		blockIcon = "⊘"
	}
	if s.elevated {
		adminIcon = "◆"
	}
	rightIconColumn := IconBlockStyle.Render(blockIcon) + IconAdminStyle.Render(adminIcon)

	spaceStyle := lipgloss.NewStyle().Background(styles.ColorBg)
	leftIconsPart := spaceStyle.Render(" ") + leftIconColumn + spaceStyle.Render(" ") // 14 chars (1 + 12 + 1)
	rightIconsPart := spaceStyle.Render(" ") + rightIconColumn                        // 7 chars (1 + 6)

	statusTextPlain, statusTextStyle := s.renderStatusText()

	// Total width - left icons (14) - right icons (7) = available
	availableWidth := s.width - 14 - 7
	if availableWidth < 0 {
		availableWidth = 0
	}

	if availableWidth < 3 {
		statusTextPlain = ""
	} else if len(statusTextPlain) > availableWidth {
		statusTextPlain = statusTextPlain[:availableWidth-3] + "..."
	}

	textPart := statusTextStyle.
		Background(styles.ColorBg).
		Width(availableWidth).
		Render(statusTextPlain)

	return StatusBarStyle.Render(leftIconsPart + textPart + rightIconsPart)
}

// renderIcon renders an icon based on animation state.
// When idle (frames=0), shows the baseline/thinnest frame (last in sequence).
func (s StatusBar) renderIcon(frames int, icons []string) string {
	if frames <= 0 {
		return icons[len(icons)-1]
	}
	return icons[s.currentFrame%len(icons)]
}

// renderStatusText returns the status text and its style.
// Priority: Error > Warning > Active > Default
func (s StatusBar) renderStatusText() (string, lipgloss.Style) {
	if s.errorText != "" {
		return s.errorText, StatusTextErrorStyle
	}
	if s.warningText != "" {
		return s.warningText, StatusTextStyle
	}
	if s.activeText != "" {
		return "⟳ " + s.activeText, StatusTextStyle
	}
	return "Ready", StatusTextOKStyle
}

// Icon animation sequences
// Each sequence progresses from full/thick to thin/empty, ending at the baseline frame
var (
	// Anti AFK: rotating circle, ends at ◔ (quarter circle)
	antiAFKIcons = []string{"●", "◕", "◑", "◔", "○", "◌", "○", "◔", "◑", "◕", "●", "◔"}

	// Info: pulsing dot, ends at ◌ (empty circle)
	infoIcons = []string{"●", "●", "◉", "◉", "◎", "◎", "○", "○", "◌", "◌", "○", "◌"}

	// Warning: pulsing diamond, ends at ◇ (hollow diamond)
	warningIcons = []string{"◆", "◆", "◈", "◈", "◇", "◇", "◈", "◈", "◆", "◆", "◈", "◇"}

	// Error: flashing X, ends at space (empty)
	errorIcons = []string{"✖", "✖", "✖", "✕", "✕", "✕", "✖", "✕", "✕", " ", "✕", " "}
)
