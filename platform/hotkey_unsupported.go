//go:build !windows

package platform

import (
	"markestedt/devpanel/shortcut"
)

// unsupportedHotkeys rejects every registration; the panel still runs and
// can be toggled from the tray
type unsupportedHotkeys struct {
	events chan Event
}

// NewHotkeys returns a registrar that reports ErrUnsupported
func NewHotkeys() Hotkeys {
	return &unsupportedHotkeys{events: make(chan Event)}
}

func (h *unsupportedHotkeys) Register(shortcut.Descriptor) error   { return ErrUnsupported }
func (h *unsupportedHotkeys) Unregister(shortcut.Descriptor) error { return ErrUnsupported }
func (h *unsupportedHotkeys) Events() <-chan Event                 { return h.events }
func (h *unsupportedHotkeys) Close() error                         { return nil }
