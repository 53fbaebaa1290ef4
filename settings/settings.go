package settings

import (
	"fmt"
	"log/slog"
	"sync"

	"markestedt/devpanel/shortcut"
)

// Preference keys
const (
	KeyTheme          = "theme"
	KeyToggleShortcut = "toggle_window_shortcut"
)

// Store is durable key/value preference storage. Last write wins.
type Store interface {
	Get(key, def string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Settings is the per-user settings context. It is created once, loaded
// explicitly, and handed to the components that read or change preferences.
type Settings struct {
	store           Store
	defaultShortcut shortcut.Descriptor

	mu             sync.RWMutex
	theme          Theme
	toggleShortcut shortcut.Descriptor
}

// New creates a settings context holding defaults until Load is called.
func New(store Store, defaultShortcut shortcut.Descriptor) *Settings {
	return &Settings{
		store:           store,
		defaultShortcut: defaultShortcut,
		theme:           ThemeSystem,
		toggleShortcut:  defaultShortcut,
	}
}

// Load reads all preferences from the store. Unreadable values fall back to
// their defaults.
func (s *Settings) Load() error {
	themeRaw, err := s.store.Get(KeyTheme, string(ThemeSystem))
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	shortcutRaw, err := s.store.Get(KeyToggleShortcut, s.defaultShortcut.String())
	if err != nil {
		return fmt.Errorf("failed to load toggle shortcut: %w", err)
	}

	theme, err := ParseTheme(themeRaw)
	if err != nil {
		slog.Warn("Ignoring stored theme", "value", themeRaw, "error", err)
		theme = ThemeSystem
	}

	toggle, err := shortcut.Parse(shortcutRaw)
	if err != nil {
		slog.Warn("Ignoring stored toggle shortcut", "value", shortcutRaw, "error", err)
		toggle = s.defaultShortcut
	}

	s.mu.Lock()
	s.theme = theme
	s.toggleShortcut = toggle
	s.mu.Unlock()
	return nil
}

// Theme returns the selected theme.
func (s *Settings) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme selects and persists a theme.
func (s *Settings) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()

	if err := s.store.Set(KeyTheme, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// DefaultShortcut returns the built-in toggle shortcut.
func (s *Settings) DefaultShortcut() shortcut.Descriptor {
	return s.defaultShortcut
}

// ToggleShortcut returns the logical toggle-window binding.
func (s *Settings) ToggleShortcut() shortcut.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toggleShortcut
}

// SetToggleShortcut updates and persists the toggle-window binding. The
// in-memory value is updated even when persisting fails.
func (s *Settings) SetToggleShortcut(d shortcut.Descriptor) error {
	if d.IsZero() {
		return fmt.Errorf("%w: empty shortcut", shortcut.ErrInvalidKey)
	}
	s.mu.Lock()
	s.toggleShortcut = d
	s.mu.Unlock()

	// the default is not stored, so a changed default in the config applies
	if d == s.defaultShortcut {
		if err := s.store.Delete(KeyToggleShortcut); err != nil {
			return fmt.Errorf("failed to clear toggle shortcut: %w", err)
		}
		return nil
	}
	if err := s.store.Set(KeyToggleShortcut, d.String()); err != nil {
		return fmt.Errorf("failed to save toggle shortcut: %w", err)
	}
	return nil
}
