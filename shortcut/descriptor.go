package shortcut

import (
	"errors"
	"fmt"
	"strings"
)

// Modifier is a bit set of platform-neutral modifier keys
type Modifier uint8

const (
	// Primary is Command on macOS and Control elsewhere
	Primary Modifier = 1 << iota
	Alt
	Shift
)

// canonical serialization order
var modifierOrder = []struct {
	mod   Modifier
	token string
	glyph string
}{
	{Primary, "CommandOrControl", "⌘"},
	{Alt, "Alt", "⌥"},
	{Shift, "Shift", "⇧"},
}

var modifierAliases = map[string]Modifier{
	"COMMANDORCONTROL": Primary,
	"CMDORCTRL":        Primary,
	"CTRL":             Primary,
	"CONTROL":          Primary,
	"CMD":              Primary,
	"COMMAND":          Primary,
	"META":             Primary,
	"SUPER":            Primary,
	"ALT":              Alt,
	"OPTION":           Alt,
	"SHIFT":            Shift,
}

var (
	ErrNoModifier = errors.New("shortcut needs at least one modifier")
	ErrInvalidKey = errors.New("invalid shortcut key")
)

// Descriptor is a canonical key combination: one or more modifiers plus
// exactly one non-modifier key. Equal combinations always serialize to the
// same string, so String() doubles as a registration lookup key.
// Construct only via New, Parse or FromKeyEvent.
type Descriptor struct {
	mods Modifier
	key  string
}

// New builds a descriptor from a modifier set and a key token.
func New(mods Modifier, key string) (Descriptor, error) {
	mods &= Primary | Alt | Shift
	if mods == 0 {
		return Descriptor{}, ErrNoModifier
	}

	token := canonicalKey(key)
	if token == "" {
		return Descriptor{}, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if _, isMod := modifierAliases[token]; isMod {
		return Descriptor{}, fmt.Errorf("%w: %q is a modifier", ErrInvalidKey, key)
	}

	return Descriptor{mods: mods, key: token}, nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(s string) Descriptor {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses an accelerator like "CommandOrControl+Alt+D" or "ctrl+shift+k".
// Modifier aliases are case-insensitive and may appear in any order.
func Parse(s string) (Descriptor, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Descriptor{}, fmt.Errorf("%w: empty shortcut", ErrInvalidKey)
	}

	parts := strings.Split(raw, "+")
	var mods Modifier
	for _, part := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(part))
		mod, ok := modifierAliases[name]
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKey, part, raw)
		}
		mods |= mod
	}

	d, err := New(mods, parts[len(parts)-1])
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse shortcut %q: %w", raw, err)
	}
	return d, nil
}

// Modifiers returns the modifier set.
func (d Descriptor) Modifiers() Modifier { return d.mods }

// Key returns the canonical key token.
func (d Descriptor) Key() string { return d.key }

// IsZero reports whether d is the empty descriptor.
func (d Descriptor) IsZero() bool { return d.mods == 0 && d.key == "" }

// Has reports whether mod is part of the combination.
func (d Descriptor) Has(mod Modifier) bool { return d.mods&mod != 0 }

// String returns the canonical accelerator form.
func (d Descriptor) String() string {
	if d.IsZero() {
		return ""
	}
	parts := make([]string, 0, len(modifierOrder)+1)
	for _, m := range modifierOrder {
		if d.Has(m.mod) {
			parts = append(parts, m.token)
		}
	}
	return strings.Join(append(parts, d.key), "+")
}

// Display returns the symbol form shown in the settings surface, e.g. "⌘ + ⇧ + D".
func (d Descriptor) Display() string {
	if d.IsZero() {
		return ""
	}
	parts := make([]string, 0, len(modifierOrder)+1)
	for _, m := range modifierOrder {
		if d.Has(m.mod) {
			parts = append(parts, m.glyph)
		}
	}
	return strings.Join(append(parts, d.key), " + ")
}

// MarshalText implements encoding.TextMarshaler.
func (d Descriptor) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Descriptor) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func canonicalKey(key string) string {
	if key == " " {
		return "Space"
	}
	token := strings.ToUpper(strings.TrimSpace(key))
	switch token {
	case "SPACE":
		return "Space"
	case "+", "PLUS":
		return "Plus"
	}
	return token
}
