//go:build !windows

package win

// IsWindowFocused implements Desktop. The game never runs here.
func (s *Session) IsWindowFocused(string) bool {
	return false
}

// IsCursorVisible implements Desktop.
func (s *Session) IsCursorVisible() bool {
	return true
}

// IsAnyKeyPressed implements Desktop.
func (s *Session) IsAnyKeyPressed(...uint8) bool {
	return false
}

// SendKeys implements Desktop.
func (s *Session) SendKeys(...uint8) error {
	return ErrUnsupported
}

// IsElevated reports whether the process runs with an administrator token.
func IsElevated() bool {
	return false
}

// Elevate is not available outside Windows.
func Elevate() error {
	return ErrUnsupported
}

// IsLightTheme is not available outside Windows.
func IsLightTheme() (bool, error) {
	return false, ErrUnsupported
}
