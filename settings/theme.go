package settings

import "fmt"

// Theme is the user's appearance preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates a stored theme value.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeSystem:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme: %q", s)
	}
}

// Resolve maps the preference to a concrete light or dark theme.
func (t Theme) Resolve(systemDark bool) Theme {
	switch t {
	case ThemeLight, ThemeDark:
		return t
	default:
		if systemDark {
			return ThemeDark
		}
		return ThemeLight
	}
}

// Palette is the presentation configuration for a resolved theme. Shells
// restyle in place from a new Palette instead of rebuilding their views.
type Palette struct {
	Theme      Theme  `json:"theme"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Muted      string `json:"muted"`
	Border     string `json:"border"`
	Accent     string `json:"accent"`
	Primary    string `json:"primary"`
	EditorBase string `json:"editorBase"`
}

var (
	lightPalette = Palette{
		Theme:      ThemeLight,
		Background: "#ffffff",
		Foreground: "#0a0a0a",
		Muted:      "#f4f4f5",
		Border:     "#e4e4e7",
		Accent:     "#f4f4f5",
		Primary:    "#18181b",
		EditorBase: "light",
	}
	darkPalette = Palette{
		Theme:      ThemeDark,
		Background: "#0a0a0a",
		Foreground: "#fafafa",
		Muted:      "#27272a",
		Border:     "#27272a",
		Accent:     "#27272a",
		Primary:    "#fafafa",
		EditorBase: "oneDark",
	}
)

// PaletteFor returns the palette for a theme preference.
func PaletteFor(t Theme, systemDark bool) Palette {
	if t.Resolve(systemDark) == ThemeDark {
		return darkPalette
	}
	return lightPalette
}
