package tui

import (
	"runtime"
	"strings"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

// goos is replaced in tests
var goos = runtime.GOOS

// GetOS returns the current operating system type
func GetOS() OSType {
	switch goos {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// ShortcutKey is a key binding with OS-specific variations
type ShortcutKey struct {
	Mac     string
	Linux   string
	Windows string
	Default string // used when the OS has no variant
}

// Get returns the shortcut for the current OS
func (s ShortcutKey) Get() string {
	switch GetOS() {
	case OSMac:
		if s.Mac != "" {
			return s.Mac
		}
	case OSLinux:
		if s.Linux != "" {
			return s.Linux
		}
	case OSWindows:
		if s.Windows != "" {
			return s.Windows
		}
	}
	return s.Default
}

// Matches reports whether key triggers the shortcut. The default binding
// keeps working where an OS variant is advertised instead.
func (s ShortcutKey) Matches(key string) bool {
	return key == s.Get() || key == s.Default
}

// Shortcuts are the keys shown in help lines
var Shortcuts = struct {
	Save      ShortcutKey
	NextField ShortcutKey
	PrevField ShortcutKey
	Cancel    ShortcutKey
	New       ShortcutKey
	Edit      ShortcutKey
	Show      ShortcutKey
	Copy      ShortcutKey
	Reload    ShortcutKey
	Quit      ShortcutKey
}{
	Save: ShortcutKey{
		Mac:     "ctrl+s",
		Linux:   "alt+s", // ctrl+s is XOFF unless stty -ixon
		Windows: "alt+s",
		Default: "ctrl+s",
	},
	NextField: ShortcutKey{Default: "tab"},
	PrevField: ShortcutKey{
		Windows: "backtab",
		Default: "shift+tab",
	},
	Cancel: ShortcutKey{Default: "esc"},
	New:    ShortcutKey{Default: "n"},
	Edit:   ShortcutKey{Default: "enter"},
	Show:   ShortcutKey{Default: "space"},
	Copy:   ShortcutKey{Default: "y"},
	Reload: ShortcutKey{Default: "r"},
	Quit:   ShortcutKey{Default: "q"},
}

// FormatShortcutForHelp formats a shortcut key for display in help text
func FormatShortcutForHelp(key ShortcutKey) string {
	shortcut := key.Get()
	if GetOS() == OSMac {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")
	return shortcut
}

// helpLine renders "key action" pairs separated by bullets
func helpLine(pairs ...any) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(ShortcutKey)
		action, _ := pairs[i+1].(string)
		parts = append(parts, FormatShortcutForHelp(key)+" "+action)
	}
	return strings.Join(parts, " • ")
}
