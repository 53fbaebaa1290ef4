package platform

import (
	"errors"
	"strconv"
	"strings"

	"markestedt/devpanel/shortcut"
)

var ErrUnsupported = errors.New("global shortcuts are not supported on this platform")

// Event is a trigger of a registered global shortcut
type Event struct {
	Shortcut shortcut.Descriptor
}

// Hotkeys registers global shortcuts with the OS. Registering a shortcut
// that is already registered succeeds without a second registration.
type Hotkeys interface {
	Register(d shortcut.Descriptor) error
	Unregister(d shortcut.Descriptor) error
	Events() <-chan Event
	Close() error
}

// Clipboard provides clipboard access
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Window is the panel window shown and hidden by the toggle shortcut
type Window interface {
	Visible() bool
	Show() error
	Hide() error
}

// KeyName maps a descriptor key token to the name used in the per-OS key
// tables: letters, digits and F-keys pass through, the rest are aliased.
func KeyName(token string) string {
	switch token {
	case "ARROWUP":
		return "UP"
	case "ARROWDOWN":
		return "DOWN"
	case "ARROWLEFT":
		return "LEFT"
	case "ARROWRIGHT":
		return "RIGHT"
	case "Space":
		return "SPACE"
	case "RETURN":
		return "ENTER"
	case "ESC":
		return "ESCAPE"
	}
	return token
}

// FunctionKey parses "F1".."F24" into its number
func FunctionKey(name string) (int, bool) {
	if !strings.HasPrefix(name, "F") {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
