// Package tui provides the terminal user interface for gtatools.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/app"
	"github.com/xonecas/gtatools/internal/config"
	"github.com/xonecas/gtatools/internal/constants"
	"github.com/xonecas/gtatools/internal/launch"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
	"github.com/xonecas/gtatools/internal/styles"
	"github.com/xonecas/gtatools/internal/timing"
	"github.com/xonecas/gtatools/internal/update"
)

// historyLimit is how many journal actions the history stage loads.
const historyLimit = 200

// Stage is one screen of the interface.
type Stage int

const (
	StageMain Stage = iota
	StageSettings
	StageHistory
	StageAbout
)

var stageNames = []string{"Main", "Settings", "History", "About"}

func (s Stage) String() string {
	return stageNames[s]
}

// UpdateChecker looks up the latest release.
type UpdateChecker interface {
	Check(ctx context.Context) (*update.Release, bool, error)
}

// Options configures a Model. Only Version is required.
type Options struct {
	Version string
	DataDir string
	Clock   timing.Clock

	// Updates is queried once at startup when set.
	Updates UpdateChecker

	// History loads the compacted journal.
	History func(limit int) ([]store.Entry, error)
	Journal session.Journal

	// LightSystem is the system preference used by the automatic theme.
	LightSystem bool

	CopyText func(string) error
	OpenPath func(string) error
}

// Model is the main TUI model.
type Model struct {
	app  *app.App
	ctx  context.Context
	opts Options

	// Input collected since the last frame
	pending app.Input
	last    app.Status

	stage     Stage
	cursor    int
	statusBar StatusBar
	input     Input
	history   History

	width  int
	height int
	ready  bool

	theme      styles.Palette
	updateText string
	note       string
}

// NewModel creates a new TUI model around a.
func NewModel(ctx context.Context, a *app.App, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = timing.SystemClock{}
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}
	if opts.OpenPath == nil {
		opts.OpenPath = browser.OpenFile
	}

	m := Model{
		app:       a,
		ctx:       ctx,
		opts:      opts,
		statusBar: NewStatusBar(80),
		input:     NewInput(80),
		history:   NewHistory(80, 20),
	}
	m.last = a.Status(opts.Clock.Now())
	m.applyTheme(m.last.Settings.Theme)
	m.statusBar.SetElevated(m.last.Elevated)
	m.statusBar.SetBlocked(m.last.Blocked)
	return m
}

// Init starts the frame loop and the update check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frame(),
		m.statusBar.Init(),
		m.checkUpdates(),
	)
}

// FrameMsg drives every gate. One arrives each constants.FrameInterval.
type FrameMsg time.Time

// UpdateMsg carries the result of the startup release check.
type UpdateMsg struct {
	Release  *update.Release
	Outdated bool
	Err      error
}

func frame() tea.Cmd {
	return tea.Tick(constants.FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func (m Model) checkUpdates() tea.Cmd {
	checker := m.opts.Updates
	if checker == nil {
		return nil
	}
	parent := m.ctx
	return func() (msg tea.Msg) {
		// Commands run on their own goroutine, out of reach of the runner.
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("Panic in update check")
				msg = UpdateMsg{Err: fmt.Errorf("update check panicked: %v", rec)}
			}
		}()

		ctx, cancel := context.WithTimeout(parent, constants.UpdateCheckTimeout)
		defer cancel()
		rel, outdated, err := checker.Check(ctx)
		return UpdateMsg{Release: rel, Outdated: outdated, Err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Layout: header (2) + tabs (1) + body (fills) + help (1) + status (2)
		bodyHeight := m.height - 6
		if bodyHeight < 3 {
			bodyHeight = 3
		}
		m.history.SetSize(m.width, bodyHeight)
		m.input.SetWidth(m.width)
		m.statusBar.SetWidth(m.width)
		m.ready = true

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		if m.stage == StageHistory {
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			cmds = append(cmds, cmd)
		}

	case FrameMsg:
		cmds = append(cmds, m.poll()...)
		if m.app.Closing() {
			return m, tea.Quit
		}
		cmds = append(cmds, frame())

	case StatusBarTickMsg:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		cmds = append(cmds, cmd)

	case UpdateMsg:
		cmds = append(cmds, m.handleUpdate(msg))
	}

	return m, tea.Batch(cmds...)
}

// poll runs one frame of the app with the input gathered since the last one.
func (m *Model) poll() []tea.Cmd {
	now := m.opts.Clock.Now()
	in := m.pending
	m.pending = app.Input{}

	m.app.Poll(m.ctx, now, in)
	st := m.app.Status(now)
	cmds := m.syncStatus(m.last, st)
	m.last = st
	return cmds
}

// syncStatus turns state changes into status bar events.
func (m *Model) syncStatus(prev, st app.Status) []tea.Cmd {
	var cmds []tea.Cmd

	if st.Settings.Theme != prev.Settings.Theme {
		m.applyTheme(st.Settings.Theme)
	}

	if st.AntiAFKSent > prev.AntiAFKSent {
		m.statusBar.ClearWarning()
		cmds = append(cmds, m.statusBar.AnimateAntiAFK())
	}
	if st.AntiAFKSkipped > prev.AntiAFKSkipped {
		cmds = append(cmds, m.statusBar.SetWarning("Anti AFK skipped: game not focused or a menu is open"))
	}

	if st.Indicator != prev.Indicator {
		switch st.Indicator {
		case timing.Succeeded:
			m.statusBar.ClearError()
			cmds = append(cmds, m.statusBar.AnimateInfo())
		case timing.Failed:
			cmds = append(cmds, m.statusBar.SetError(truncate(st.LastError, 100)))
		default:
			m.statusBar.ClearError()
		}
	}

	m.statusBar.SetBlocked(st.Blocked)
	m.statusBar.SetElevated(st.Elevated)

	switch {
	case st.EmptySessionActive:
		m.statusBar.SetActiveText("Empty session, resuming in " + st.EmptySessionCountdown + "s")
	case st.ForceCloseArmed:
		m.statusBar.SetActiveText("Press f again to force close")
	case st.AntiAFK.Enabled:
		m.statusBar.SetActiveText(fmt.Sprintf("Anti AFK on, next in %ds", int(st.AntiAFK.Remaining.Seconds())))
	default:
		m.statusBar.SetActiveText("")
	}

	return cmds
}

func (m *Model) applyTheme(theme config.Theme) {
	m.theme = styles.ForTheme(theme, m.opts.LightSystem)
	styles.Use(m.theme)
	applyStyles()
}

func (m *Model) handleUpdate(msg UpdateMsg) tea.Cmd {
	if m.opts.Journal != nil {
		target := ""
		if msg.Release != nil {
			target = msg.Release.Version
		}
		m.opts.Journal.Record(store.ActionUpdateCheck, target, msg.Err)
	}

	switch {
	case msg.Err != nil:
		log.Warn().Err(msg.Err).Msg("Update check failed")
		m.updateText = "Could not check for updates"
		return nil
	case msg.Outdated:
		m.updateText = fmt.Sprintf("Version %s is available at %s", msg.Release.Version, msg.Release.URL)
		return m.statusBar.SetWarning(fmt.Sprintf("Update available: %s (see About)", msg.Release.Version))
	default:
		m.updateText = "You are running the latest version"
		return nil
	}
}

// Key bindings
var keys = struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Main     key.Binding
	Settings key.Binding
	History  key.Binding
	About    key.Binding

	ForceClose   key.Binding
	EmptySession key.Binding
	Launch       key.Binding
	Block        key.Binding
	Unblock      key.Binding
	AntiAFK      key.Binding
	Elevate      key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Copy  key.Binding
	Open  key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	NextTab:  key.NewBinding(key.WithKeys("tab")),
	PrevTab:  key.NewBinding(key.WithKeys("shift+tab")),
	Main:     key.NewBinding(key.WithKeys("1")),
	Settings: key.NewBinding(key.WithKeys("2")),
	History:  key.NewBinding(key.WithKeys("3")),
	About:    key.NewBinding(key.WithKeys("4")),

	ForceClose:   key.NewBinding(key.WithKeys("f")),
	EmptySession: key.NewBinding(key.WithKeys("e")),
	Launch:       key.NewBinding(key.WithKeys("l")),
	Block:        key.NewBinding(key.WithKeys("b")),
	Unblock:      key.NewBinding(key.WithKeys("u")),
	AntiAFK:      key.NewBinding(key.WithKeys("a")),
	Elevate:      key.NewBinding(key.WithKeys("r")),

	Up:    key.NewBinding(key.WithKeys("up", "k")),
	Down:  key.NewBinding(key.WithKeys("down", "j")),
	Left:  key.NewBinding(key.WithKeys("left", "h")),
	Right: key.NewBinding(key.WithKeys("right", "l", " ")),
	Enter: key.NewBinding(key.WithKeys("enter")),
	Copy:  key.NewBinding(key.WithKeys("y")),
	Open:  key.NewBinding(key.WithKeys("o")),
}

// handleKey records a key press. Actions are not run here: they are queued
// and the next frame runs them.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}

	if m.input.Editing() {
		return m.handleInputKey(msg), false
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return nil, true
	case key.Matches(msg, keys.NextTab):
		m.setStage((m.stage + 1) % Stage(len(stageNames)))
		return nil, false
	case key.Matches(msg, keys.PrevTab):
		m.setStage((m.stage + Stage(len(stageNames)) - 1) % Stage(len(stageNames)))
		return nil, false
	case key.Matches(msg, keys.Main):
		m.setStage(StageMain)
		return nil, false
	case key.Matches(msg, keys.Settings):
		m.setStage(StageSettings)
		return nil, false
	case key.Matches(msg, keys.History):
		m.setStage(StageHistory)
		return nil, false
	case key.Matches(msg, keys.About):
		m.setStage(StageAbout)
		return nil, false
	}

	switch m.stage {
	case StageMain:
		m.handleMainKey(msg)
	case StageSettings:
		return m.handleSettingsKey(msg), false
	case StageHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return cmd, false
	case StageAbout:
		m.handleAboutKey(msg)
	}
	return nil, false
}

func (m *Model) setStage(s Stage) {
	m.stage = s
	m.note = ""
	if s == StageHistory && m.opts.History != nil {
		entries, err := m.opts.History(historyLimit)
		m.history.SetEntries(entries, err, m.opts.Clock.Now())
	}
}

func (m *Model) handleMainKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.ForceClose):
		m.pending.ForceClose++
	case key.Matches(msg, keys.EmptySession):
		m.pending.EmptySession = true
	case key.Matches(msg, keys.Launch):
		m.pending.Launch = true
	case key.Matches(msg, keys.Block):
		m.pending.Block = true
	case key.Matches(msg, keys.Unblock):
		m.pending.Unblock = true
	case key.Matches(msg, keys.AntiAFK):
		m.pending.ToggleAntiAFK = !m.pending.ToggleAntiAFK
	case key.Matches(msg, keys.Elevate):
		m.pending.Elevate = true
	}
}

func (m *Model) handleAboutKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Copy):
		m.copyText(m.opts.DataDir, "Storage path copied")
	case key.Matches(msg, keys.Open):
		if err := m.opts.OpenPath(m.opts.DataDir); err != nil {
			log.Warn().Err(err).Str("path", m.opts.DataDir).Msg("Failed to open storage folder")
			m.note = "Could not open the folder"
			return
		}
		m.note = "Opened storage folder"
	}
}

func (m *Model) copyText(text, done string) {
	if err := m.opts.CopyText(text); err != nil {
		log.Warn().Err(err).Msg("Failed to copy to clipboard")
		m.note = "Clipboard unavailable"
		return
	}
	m.note = done
}

// Settings rows
const (
	rowLauncher = iota
	rowVersion
	rowTheme
	rowBlockMethod
	rowSaveServer
	rowEmptySession
	rowStartElevated
	rowAntiAFK
	rowCount
)

var rowLabels = [rowCount]string{
	"Launcher",
	"Game version",
	"Theme",
	"Block method",
	"Save server IP",
	"Empty session method",
	"Start as administrator",
	"Anti AFK",
}

// settings returns the settings as they will be after the next frame.
func (m *Model) settings() config.Settings {
	if m.pending.Settings != nil {
		return *m.pending.Settings
	}
	return m.app.Settings()
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = (m.cursor + rowCount - 1) % rowCount
	case key.Matches(msg, keys.Down):
		m.cursor = (m.cursor + 1) % rowCount
	case key.Matches(msg, keys.Copy) && m.cursor == rowSaveServer:
		m.copyText(m.settings().SaveServerIP, "Save server IP copied")
	case key.Matches(msg, keys.Enter) && m.cursor == rowSaveServer:
		return m.input.Begin(m.settings().SaveServerIP)
	case key.Matches(msg, keys.Left):
		m.changeSetting(-1)
	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Enter):
		m.changeSetting(1)
	}
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, inputKeys.Cancel):
		m.input.Cancel()
		return nil
	case key.Matches(msg, inputKeys.Commit):
		ip, ok := m.input.Commit()
		if !ok {
			return nil
		}
		next := m.settings()
		next.SaveServerIP = ip
		m.pending.Settings = &next
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) changeSetting(dir int) {
	next := m.settings()
	switch m.cursor {
	case rowLauncher:
		next.Launcher = cycle(launch.Platforms, next.Launcher, dir)
	case rowVersion:
		next.LaunchVersion = cycle(launch.Versions, next.LaunchVersion, dir)
	case rowTheme:
		next.Theme = cycle(config.Themes, next.Theme, dir)
	case rowBlockMethod:
		next.BlockMethod = cycle(config.BlockMethods, next.BlockMethod, dir)
	case rowEmptySession:
		next.EmptySessionMethod = cycle(config.EmptySessionMethods, next.EmptySessionMethod, dir)
	case rowStartElevated:
		next.StartElevated = !next.StartElevated
	case rowAntiAFK:
		next.AntiAFKEnabled = !next.AntiAFKEnabled
	default:
		return
	}
	m.pending.Settings = &next
}

// cycle returns the value dir steps away from cur in list, wrapping around.
func cycle[T comparable](list []T, cur T, dir int) T {
	for i, v := range list {
		if v == cur {
			return list[((i+dir)%len(list)+len(list))%len(list)]
		}
	}
	return list[0]
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	const minWidth = 60
	const minHeight = 16
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf(
			"Terminal too small!\n\nMinimum: %dx%d\nCurrent: %dx%d\n\nPlease resize.",
			minWidth, minHeight, m.width, m.height,
		)
	}

	var body string
	switch m.stage {
	case StageSettings:
		body = m.viewSettings()
	case StageHistory:
		body = m.history.View()
	case StageAbout:
		body = m.viewAbout()
	default:
		body = m.viewMain()
	}

	bodyHeight := m.height - 6
	body = lipgloss.NewStyle().
		Background(styles.ColorBg).
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	content := strings.Join([]string{
		m.viewHeader(),
		m.viewTabs(),
		body,
		DimmedStyle.Width(m.width).Render(" " + m.helpText()),
		m.statusBar.View(),
	}, "\n")

	return lipgloss.NewStyle().
		Background(styles.ColorBg).
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m Model) viewHeader() string {
	badge := BadgeUserStyle.Render("standard user")
	if m.last.Elevated {
		badge = BadgeAdminStyle.Render("administrator")
	}

	dot := DimmedStyle.Render("●")
	switch m.last.Indicator {
	case timing.Succeeded:
		dot = StatusTextOKStyle.Render("●")
	case timing.Failed:
		dot = StatusTextErrorStyle.Render("●")
	}

	left := TitleStyle.Render("GTA Tools") + DimmedStyle.Render(" "+m.opts.Version)
	right := dot + DimmedStyle.Render(" ") + badge
	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return HeaderStyle.Width(m.width).Render(left + DimmedStyle.Render(strings.Repeat(" ", gap)) + right)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, name := range stageNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Stage(i) == m.stage {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Background(styles.ColorBg).Width(m.width).Render(strings.Join(tabs, ""))
}

func button(k, label string, style lipgloss.Style, detail string) string {
	line := KeyStyle.Render(" ["+k+"] ") + style.Width(28).Render(label)
	if detail != "" {
		line += ValueStyle.Render(detail)
	}
	return line
}

func (m Model) viewMain() string {
	st := m.last
	var lines []string

	fcStyle, fcDetail := ButtonStyle, ""
	if st.ForceCloseArmed {
		fcStyle = ButtonArmedStyle
		fcDetail = fmt.Sprintf("press f again within %.0fs", st.ForceCloseLeft.Seconds())
	}
	lines = append(lines, button("f", st.ForceCloseLabel, fcStyle, fcDetail))

	if st.EmptySessionActive {
		lines = append(lines, button("e", "Empty session", ButtonDisableStyle, "resuming in "+st.EmptySessionCountdown+"s"))
	} else {
		lines = append(lines, button("e", "Empty session", ButtonStyle, st.Settings.EmptySessionMethod.String()))
	}

	lines = append(lines, button("l", "Launch game", ButtonStyle,
		st.Settings.Launcher.String()+" · "+st.Settings.LaunchVersion.String()))

	netStyle := ButtonStyle
	netDetail := st.Settings.BlockMethod.String() + " · "
	if st.Blocked {
		netDetail += "blocked"
	} else {
		netDetail += "not blocked"
	}
	if !st.Elevated {
		netStyle = ButtonDisableStyle
		netDetail = "needs administrator"
	}
	lines = append(lines,
		button("b", "Block network", netStyle, netDetail),
		button("u", "Unblock network", netStyle, ""),
	)

	afkDetail := "off"
	if st.AntiAFK.Enabled {
		afkDetail = fmt.Sprintf("on · next in %ds", int(st.AntiAFK.Remaining.Seconds()))
		if !st.AntiAFK.Focused {
			afkDetail += " · waiting for game focus"
		}
	}
	lines = append(lines, button("a", "Anti AFK", ButtonStyle, afkDetail))

	if !st.Elevated {
		lines = append(lines, "", button("r", "Restart as administrator", ButtonStyle, ""))
	}

	return "\n" + strings.Join(lines, "\n")
}

func (m Model) viewSettings() string {
	s := m.settings()
	values := [rowCount]string{
		s.Launcher.String(),
		s.LaunchVersion.String(),
		s.Theme.String(),
		s.BlockMethod.String(),
		s.SaveServerIP,
		s.EmptySessionMethod.String(),
		onOff(s.StartElevated),
		onOff(s.AntiAFKEnabled),
	}

	lines := []string{""}
	for i := 0; i < rowCount; i++ {
		row := fmt.Sprintf("%-24s %s", rowLabels[i], values[i])
		if i == m.cursor {
			lines = append(lines, RowSelectedStyle.Render(row))
		} else {
			lines = append(lines, RowStyle.Render(row))
		}
	}

	if m.input.Editing() {
		lines = append(lines, "", m.input.View())
	}
	if m.note != "" {
		lines = append(lines, "", DimmedStyle.Render("  "+m.note))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewAbout() string {
	lines := []string{
		"",
		"  " + TitleStyle.Render("GTA Tools") + DimmedStyle.Render(" "+m.opts.Version),
		"  " + DimmedStyle.Render("Convenience tools for Grand Theft Auto V"),
		"",
		"  " + ButtonStyle.Render("Source:   ") + ValueStyle.Render(constants.CodebergURL+constants.CodebergRepo),
		"  " + ButtonStyle.Render("Storage:  ") + ValueStyle.Render(m.opts.DataDir),
		"  " + ButtonStyle.Render("Theme:    ") + ValueStyle.Render("Catppuccin "+m.theme.Name),
	}
	if m.updateText != "" {
		lines = append(lines, "  "+ButtonStyle.Render("Updates:  ")+ValueStyle.Render(m.updateText))
	}
	if m.note != "" {
		lines = append(lines, "", "  "+DimmedStyle.Render(m.note))
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpText() string {
	switch {
	case m.input.Editing():
		return "enter save · esc cancel"
	case m.stage == StageSettings:
		return "↑/↓ select · ←/→ change · enter edit · y copy IP · tab next · q quit"
	case m.stage == StageHistory:
		return "↑/↓ scroll · tab next · q quit"
	case m.stage == StageAbout:
		return "y copy storage path · o open storage folder · tab next · q quit"
	default:
		return "tab next · q quit"
	}
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

// truncate shortens s to maxWidth terminal cells without splitting a
// character.
func truncate(s string, maxWidth int) string {
	return ansi.Truncate(s, maxWidth, "...")
}
