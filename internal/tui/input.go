package tui

import (
	"net"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xonecas/gtatools/internal/styles"
)

// Input edits the save server address in the settings stage.
type Input struct {
	textInput textinput.Model
	original  string
	width     int
	editing   bool
	invalid   bool
}

// NewInput creates a new input component.
func NewInput(width int) Input {
	ti := textinput.New()
	ti.Placeholder = "Save server IP address"
	ti.Prompt = "> "
	ti.CharLimit = 45    // longest textual IPv6 address
	ti.Width = width - 6 // Account for: border (2) + padding (2) + prompt (2)

	ti.PromptStyle = InputPromptStyle
	ti.TextStyle = InputTextStyle
	ti.PlaceholderStyle = InputPlaceholderStyle

	return Input{
		textInput: ti,
		width:     width,
	}
}

// SetWidth updates the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.Width = width - 6
}

// Begin starts editing value.
func (i *Input) Begin(value string) tea.Cmd {
	i.original = value
	i.editing = true
	i.invalid = false
	i.textInput.SetValue(value)
	i.textInput.CursorEnd()

	// Styles may have changed with the theme.
	i.textInput.PromptStyle = InputPromptStyle
	i.textInput.TextStyle = InputTextStyle
	i.textInput.PlaceholderStyle = InputPlaceholderStyle
	return i.textInput.Focus()
}

// Editing reports whether the input has focus.
func (i Input) Editing() bool {
	return i.editing
}

// Value returns the current input value.
func (i Input) Value() string {
	return strings.TrimSpace(i.textInput.Value())
}

// Valid reports whether the value is an IP address.
func (i Input) Valid() bool {
	return net.ParseIP(i.Value()) != nil
}

// Invalid reports whether the last commit was rejected.
func (i Input) Invalid() bool {
	return i.invalid
}

// Cancel stops editing and discards the change.
func (i *Input) Cancel() {
	i.editing = false
	i.invalid = false
	i.textInput.SetValue(i.original)
	i.textInput.Blur()
}

// Commit stops editing when the value is valid. ok is false when the value
// was rejected; the input stays open in that case.
func (i *Input) Commit() (value string, ok bool) {
	if !i.Valid() {
		i.invalid = true
		return "", false
	}
	i.editing = false
	i.invalid = false
	i.textInput.Blur()
	return i.Value(), true
}

var inputKeys = struct {
	Commit key.Binding
	Cancel key.Binding
}{
	Commit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

// Update passes editing keys to the text field. Enter and Esc are handled by
// the caller through Commit and Cancel.
func (i Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	i.invalid = false
	return i, cmd
}

// View renders the input.
func (i Input) View() string {
	content := i.textInput.View()
	if i.invalid {
		content += " " + StatusTextErrorStyle.Render("not an IP address")
	}

	bgStyle := lipgloss.NewStyle().
		Background(styles.ColorBg).
		Width(i.width - 2)

	return InputBorderStyle.Width(i.width).Render(bgStyle.Render(content))
}
