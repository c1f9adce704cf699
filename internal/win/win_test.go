package win

import "testing"

func TestPressKeys(t *testing.T) {
	if len(PressKeys) != 2 {
		t.Fatalf("got %d press keys, want 2", len(PressKeys))
	}
	if PressKeys[0] != 0x64 || PressKeys[1] != 0x66 {
		t.Errorf("got %#x %#x, want numpad 4 and numpad 6", PressKeys[0], PressKeys[1])
	}
}

func TestSessionImplementsDesktop(t *testing.T) {
	var _ Desktop = NewSession()
}
