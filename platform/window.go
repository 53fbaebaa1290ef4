package platform

import (
	"log/slog"
	"sync"
)

// PanelWindow tracks the visibility of the panel and forwards changes to an
// attached shell. Without a shell it only records state.
type PanelWindow struct {
	mu       sync.Mutex
	visible  bool
	onChange func(visible bool)
}

// NewPanelWindow creates a hidden panel window. onChange may be nil.
func NewPanelWindow(onChange func(visible bool)) *PanelWindow {
	return &PanelWindow{onChange: onChange}
}

// Visible reports whether the panel is shown
func (w *PanelWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Show shows and focuses the panel
func (w *PanelWindow) Show() error {
	w.set(true)
	return nil
}

// Hide hides the panel
func (w *PanelWindow) Hide() error {
	w.set(false)
	return nil
}

func (w *PanelWindow) set(visible bool) {
	w.mu.Lock()
	changed := w.visible != visible
	w.visible = visible
	onChange := w.onChange
	w.mu.Unlock()

	if !changed {
		return
	}
	slog.Debug("Panel visibility changed", "visible", visible)
	if onChange != nil {
		onChange(visible)
	}
}
