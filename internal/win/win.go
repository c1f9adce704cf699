// Package win reads and drives the interactive desktop: the focused window,
// the cursor, the keyboard and the elevation of the current process.
package win

import "errors"

// ErrUnsupported is returned on platforms without a Win32 desktop.
var ErrUnsupported = errors.New("win: not supported on this platform")

// Virtual-key codes of the keys sent to keep the character moving.
const (
	VKNumpad4 uint8 = 0x64
	VKNumpad6 uint8 = 0x66
)

// PressKeys are sent, down then up, on every anti-idle fire.
var PressKeys = []uint8{VKNumpad4, VKNumpad6}

// Desktop is the part of the interactive session the features look at.
type Desktop interface {
	// IsWindowFocused reports whether the foreground window has exactly this title.
	IsWindowFocused(title string) bool

	// IsCursorVisible reports whether the mouse cursor is showing. Games
	// hide it while the player is in control.
	IsCursorVisible() bool

	// IsAnyKeyPressed reports whether the user is holding one of keys.
	IsAnyKeyPressed(keys ...uint8) bool

	// SendKeys injects a press and release of each key, in order.
	SendKeys(keys ...uint8) error
}

// Session is the Desktop of the current user.
type Session struct{}

// NewSession returns the desktop of the current user.
func NewSession() *Session {
	return &Session{}
}
