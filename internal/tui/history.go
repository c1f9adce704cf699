package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xonecas/gtatools/internal/session"
	"github.com/xonecas/gtatools/internal/store"
)

// History shows the action journal in a scrollable viewport.
type History struct {
	viewport viewport.Model
	entries  []store.Entry
	loadErr  error
	width    int
	height   int
}

// NewHistory creates a new journal viewport.
func NewHistory(width, height int) History {
	vp := viewport.New(width, height)
	vp.Style = LogStyle
	vp.SetContent("")

	return History{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// SetSize updates the viewport size.
func (h *History) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.viewport.Width = width
	h.viewport.Height = height
}

// SetEntries replaces the shown entries. now anchors the relative times.
func (h *History) SetEntries(entries []store.Entry, err error, now time.Time) {
	h.entries = entries
	h.loadErr = err
	h.render(now)
	h.viewport.GotoTop()
}

func (h *History) render(now time.Time) {
	h.viewport.Style = LogStyle

	if h.loadErr != nil {
		h.viewport.SetContent(EntryErrorStyle.Render("Journal unavailable: " + h.loadErr.Error()))
		return
	}
	if len(h.entries) == 0 {
		h.viewport.SetContent(DimmedStyle.Render("Nothing recorded yet."))
		return
	}

	lines := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		stamp := DimmedStyle.Render("[" + e.CreatedAt.Local().Format("Jan 02 15:04:05") + "] ")
		style := EntryOKStyle
		if !e.OK {
			style = EntryErrorStyle
		}
		lines = append(lines, stamp+style.Width(max(h.width-19, 0)).Render(session.FormatEntry(e, now)))
	}
	h.viewport.SetContent(strings.Join(lines, "\n"))
}

// Len returns the number of entries shown.
func (h History) Len() int {
	return len(h.entries)
}

// Update handles viewport updates (scrolling, etc).
func (h History) Update(msg tea.Msg) (History, tea.Cmd) {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

// View renders the journal viewport.
func (h History) View() string {
	return h.viewport.View()
}
