//go:build windows

package win

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetWindowTextW   = user32.NewProc("GetWindowTextW")
	procGetCursorInfo    = user32.NewProc("GetCursorInfo")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procKeybdEvent       = user32.NewProc("keybd_event")
	procMapVirtualKeyW   = user32.NewProc("MapVirtualKeyW")
)

const (
	cursorShowing   = 0x1
	keyEventFKeyUp  = 0x2
	mapVKToVSC      = 0
	keyDownMask     = 0x8000
	maxWindowTitle  = 512
	personalizeKey  = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	lightThemeValue = "AppsUseLightTheme"
)

type point struct {
	x, y int32
}

// cursorInfo mirrors CURSORINFO.
type cursorInfo struct {
	size   uint32
	flags  uint32
	cursor uintptr
	pos    point
}

// IsWindowFocused implements Desktop.
func (s *Session) IsWindowFocused(title string) bool {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return false
	}

	buf := make([]uint16, maxWindowTitle)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n]) == title
}

// IsCursorVisible implements Desktop.
func (s *Session) IsCursorVisible() bool {
	info := cursorInfo{}
	info.size = uint32(unsafe.Sizeof(info))
	ok, _, err := procGetCursorInfo.Call(uintptr(unsafe.Pointer(&info)))
	if ok == 0 {
		log.Debug().Err(err).Msg("GetCursorInfo failed")
		// Assume the player is in a menu; never send keys blind.
		return true
	}
	return info.flags&cursorShowing != 0
}

// IsAnyKeyPressed implements Desktop.
func (s *Session) IsAnyKeyPressed(keys ...uint8) bool {
	for _, k := range keys {
		state, _, _ := procGetAsyncKeyState.Call(uintptr(k))
		if uint16(state)&keyDownMask != 0 {
			return true
		}
	}
	return false
}

// SendKeys implements Desktop.
func (s *Session) SendKeys(keys ...uint8) error {
	for _, k := range keys {
		scan, _, _ := procMapVirtualKeyW.Call(uintptr(k), mapVKToVSC)
		if err := keybdEvent(k, uint8(scan), 0); err != nil {
			return err
		}
		if err := keybdEvent(k, uint8(scan), keyEventFKeyUp); err != nil {
			return err
		}
	}
	return nil
}

func keybdEvent(vk, scan uint8, flags uintptr) error {
	// keybd_event returns nothing; only a failed load surfaces here.
	if err := procKeybdEvent.Find(); err != nil {
		return fmt.Errorf("keybd_event: %w", err)
	}
	procKeybdEvent.Call(uintptr(vk), uintptr(scan), flags, 0)
	return nil
}

// IsElevated reports whether the process runs with an administrator token.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// Elevate starts a new, elevated copy of this executable with the same
// arguments. The caller is expected to exit afterwards.
func Elevate() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return fmt.Errorf("encode executable path: %w", err)
	}
	cwd, _ := os.Getwd()
	dir, _ := windows.UTF16PtrFromString(cwd)

	var args *uint16
	if len(os.Args) > 1 {
		quoted := make([]string, 0, len(os.Args)-1)
		for _, a := range os.Args[1:] {
			quoted = append(quoted, syscall.EscapeArg(a))
		}
		args, _ = windows.UTF16PtrFromString(strings.Join(quoted, " "))
	}

	if err := windows.ShellExecute(0, verb, file, args, dir, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("relaunch elevated: %w", err)
	}
	log.Info().Str("exe", exe).Msg("Relaunched elevated")
	return nil
}

// IsLightTheme reports whether apps are set to the light theme.
func IsLightTheme() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("open personalize key: %w", err)
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue(lightThemeValue)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", lightThemeValue, err)
	}
	return v == 1, nil
}
