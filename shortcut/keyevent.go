package shortcut

import "strings"

// KeyEvent is a key-down event as delivered by the UI shell. Key is the
// logical key value ("d", "D", " ", "F5"), Code the physical key code
// ("KeyD", "Digit1", "Space").
type KeyEvent struct {
	Key   string
	Code  string
	Meta  bool
	Ctrl  bool
	Alt   bool
	Shift bool
}

var bareModifierKeys = map[string]struct{}{
	"Control": {},
	"Alt":     {},
	"Shift":   {},
	"Meta":    {},
}

// FromKeyEvent converts a captured key press into a descriptor. It returns
// false for presses of a bare modifier and for presses with no modifier held.
func FromKeyEvent(ev KeyEvent) (Descriptor, bool) {
	if _, bare := bareModifierKeys[ev.Key]; bare {
		return Descriptor{}, false
	}

	var mods Modifier
	if ev.Meta || ev.Ctrl {
		mods |= Primary
	}
	if ev.Alt {
		mods |= Alt
	}
	if ev.Shift {
		mods |= Shift
	}
	if mods == 0 {
		return Descriptor{}, false
	}

	// letter and digit rows come from the physical code so the binding does
	// not depend on layout or on shift changing the produced character
	key := ev.Key
	switch {
	case strings.HasPrefix(ev.Code, "Digit"):
		key = strings.TrimPrefix(ev.Code, "Digit")
	case strings.HasPrefix(ev.Code, "Key"):
		key = strings.TrimPrefix(ev.Code, "Key")
	}

	d, err := New(mods, key)
	if err != nil {
		return Descriptor{}, false
	}
	return d, true
}
