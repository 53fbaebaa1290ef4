//go:build linux && x11

// Package x11hotkey grabs global shortcuts on X11. The underlying library
// opens the display when the package is initialised and aborts the process
// if there is none, so it is only compiled in with the x11 build tag.
package x11hotkey

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.design/x/hotkey"

	"markestedt/devpanel/platform"
	"markestedt/devpanel/shortcut"
)

// X11 modifier masks; Alt is Mod1 on a standard keymap
var x11Modifiers = map[shortcut.Modifier]hotkey.Modifier{
	shortcut.Primary: hotkey.ModCtrl,
	shortcut.Alt:     hotkey.Mod1,
	shortcut.Shift:   hotkey.ModShift,
}

var x11Keys = map[string]hotkey.Key{
	"SPACE": hotkey.KeySpace, "ENTER": hotkey.KeyReturn, "ESCAPE": hotkey.KeyEscape,
	"TAB": hotkey.KeyTab, "DELETE": hotkey.KeyDelete,
	"LEFT": hotkey.KeyLeft, "UP": hotkey.KeyUp, "RIGHT": hotkey.KeyRight, "DOWN": hotkey.KeyDown,
	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3, "F4": hotkey.KeyF4,
	"F5": hotkey.KeyF5, "F6": hotkey.KeyF6, "F7": hotkey.KeyF7, "F8": hotkey.KeyF8,
	"F9": hotkey.KeyF9, "F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,
}

type x11Registration struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
}

// Hotkeys implements platform.Hotkeys with XGrabKey through golang.design/x/hotkey
type Hotkeys struct {
	mu     sync.Mutex
	regs   map[string]*x11Registration
	events chan platform.Event
}

// New creates an X11 global shortcut registrar
func New() *Hotkeys {
	return &Hotkeys{
		regs:   make(map[string]*x11Registration),
		events: make(chan platform.Event, 10),
	}
}

// Register grabs d on the root window
func (h *Hotkeys) Register(d shortcut.Descriptor) error {
	mods, key, err := x11Combo(d)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.regs[d.String()]; ok {
		return nil
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to grab %s: %w", d, err)
	}

	reg := &x11Registration{hk: hk, stop: make(chan struct{})}
	h.regs[d.String()] = reg
	go h.forward(d, reg)
	return nil
}

// Unregister releases d
func (h *Hotkeys) Unregister(d shortcut.Descriptor) error {
	h.mu.Lock()
	reg, ok := h.regs[d.String()]
	delete(h.regs, d.String())
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("shortcut %s is not registered", d)
	}
	close(reg.stop)
	return reg.hk.Unregister()
}

// Events returns the channel of shortcut triggers
func (h *Hotkeys) Events() <-chan platform.Event {
	return h.events
}

// Close releases every registration
func (h *Hotkeys) Close() error {
	h.mu.Lock()
	regs := h.regs
	h.regs = make(map[string]*x11Registration)
	h.mu.Unlock()

	var firstErr error
	for _, reg := range regs {
		close(reg.stop)
		if err := reg.hk.Unregister(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *Hotkeys) forward(d shortcut.Descriptor, reg *x11Registration) {
	for {
		select {
		case <-reg.stop:
			return
		case <-reg.hk.Keydown():
			select {
			case h.events <- platform.Event{Shortcut: d}:
			default:
				slog.Warn("Dropping shortcut trigger, event queue full", "shortcut", d)
			}
		}
	}
}

func x11Combo(d shortcut.Descriptor) ([]hotkey.Modifier, hotkey.Key, error) {
	var mods []hotkey.Modifier
	for _, m := range []shortcut.Modifier{shortcut.Primary, shortcut.Alt, shortcut.Shift} {
		if d.Has(m) {
			mods = append(mods, x11Modifiers[m])
		}
	}

	name := platform.KeyName(d.Key())
	if key, ok := x11Keys[name]; ok {
		return mods, key, nil
	}
	// X keysyms for ASCII letters and digits are the lowercase code points
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return mods, hotkey.Key(c - 'A' + 'a'), nil
		case c >= '0' && c <= '9':
			return mods, hotkey.Key(c), nil
		}
	}
	return nil, 0, fmt.Errorf("unsupported key %q in shortcut %s", d.Key(), d)
}
