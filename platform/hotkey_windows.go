//go:build windows

package platform

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"markestedt/devpanel/shortcut"
)

var (
	registerHotKey    = user32.NewProc("RegisterHotKey")
	unregisterHotKey  = user32.NewProc("UnregisterHotKey")
	getMessage        = user32.NewProc("GetMessageW")
	peekMessage       = user32.NewProc("PeekMessageW")
	postThreadMessage = user32.NewProc("PostThreadMessageW")
)

const (
	wmHotkey   = 0x0312
	wmQuit     = 0x0012
	pmNoRemove = 0x0000

	modAlt      = 0x0001
	modControl  = 0x0002
	modShift    = 0x0004
	modNoRepeat = 0x4000

	stopTimeout = 2 * time.Second
)

type msg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       struct{ x, y int32 }
	lPrivate uint32
}

// registration is one RegisterHotKey call owned by a locked OS thread;
// WM_HOTKEY is only delivered to the registering thread's queue
type registration struct {
	id       int32
	threadID uint32
	done     chan struct{}
}

type loopReady struct {
	threadID uint32
	err      error
}

// WindowsHotkeys implements Hotkeys with RegisterHotKey
type WindowsHotkeys struct {
	mu     sync.Mutex
	regs   map[string]*registration
	nextID int32
	events chan Event
}

// NewHotkeys creates a Windows global shortcut registrar
func NewHotkeys() Hotkeys {
	return &WindowsHotkeys{
		regs:   make(map[string]*registration),
		nextID: 0x4000,
		events: make(chan Event, 10),
	}
}

// Register registers d system-wide
func (h *WindowsHotkeys) Register(d shortcut.Descriptor) error {
	mods, vk, err := winCombo(d)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.regs[d.String()]; ok {
		return nil
	}

	h.nextID++
	id := h.nextID
	readyCh := make(chan loopReady, 1)
	done := make(chan struct{})
	go h.runLoop(id, d, mods, vk, readyCh, done)

	ready := <-readyCh
	if ready.err != nil {
		return fmt.Errorf("RegisterHotKey failed for %s: %w", d, ready.err)
	}

	h.regs[d.String()] = &registration{id: id, threadID: ready.threadID, done: done}
	return nil
}

// Unregister releases d
func (h *WindowsHotkeys) Unregister(d shortcut.Descriptor) error {
	h.mu.Lock()
	reg, ok := h.regs[d.String()]
	delete(h.regs, d.String())
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("shortcut %s is not registered", d)
	}
	return stopLoop(reg)
}

// Events returns the channel of shortcut triggers
func (h *WindowsHotkeys) Events() <-chan Event {
	return h.events
}

// Close releases every registration
func (h *WindowsHotkeys) Close() error {
	h.mu.Lock()
	regs := h.regs
	h.regs = make(map[string]*registration)
	h.mu.Unlock()

	var firstErr error
	for _, reg := range regs {
		if err := stopLoop(reg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *WindowsHotkeys) runLoop(id int32, d shortcut.Descriptor, mods, vk uint32, readyCh chan<- loopReady, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	// force creation of the thread message queue before anyone posts to it
	var m msg
	peekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)

	r, _, err := registerHotKey.Call(0, uintptr(id), uintptr(mods|modNoRepeat), uintptr(vk))
	if r == 0 {
		readyCh <- loopReady{err: err}
		return
	}
	defer unregisterHotKey.Call(0, uintptr(id))

	readyCh <- loopReady{threadID: windows.GetCurrentThreadId()}

	for {
		r, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return
		}
		if m.message == wmHotkey && int32(m.wParam) == id {
			select {
			case h.events <- Event{Shortcut: d}:
			default:
				slog.Warn("Dropping shortcut trigger, event queue full", "shortcut", d)
			}
		}
	}
}

func stopLoop(reg *registration) error {
	if r, _, err := postThreadMessage.Call(uintptr(reg.threadID), wmQuit, 0, 0); r == 0 {
		return fmt.Errorf("failed to stop hotkey thread: %w", err)
	}

	select {
	case <-reg.done:
		return nil
	case <-time.After(stopTimeout):
		return fmt.Errorf("hotkey thread did not stop (id=%d)", reg.id)
	}
}

var vkCodes = map[string]uint32{
	"SPACE": 0x20, "ENTER": 0x0D, "ESCAPE": 0x1B,
	"TAB": 0x09, "BACKSPACE": 0x08, "DELETE": 0x2E,
	"LEFT": 0x25, "UP": 0x26, "RIGHT": 0x27, "DOWN": 0x28,
	"HOME": 0x24, "END": 0x23, "PAGEUP": 0x21, "PAGEDOWN": 0x22,
	"INSERT": 0x2D, "Plus": 0xBB, "`": 0xC0,
}

func winCombo(d shortcut.Descriptor) (mods, vk uint32, err error) {
	if d.Has(shortcut.Primary) {
		mods |= modControl
	}
	if d.Has(shortcut.Alt) {
		mods |= modAlt
	}
	if d.Has(shortcut.Shift) {
		mods |= modShift
	}

	name := KeyName(d.Key())
	if code, ok := vkCodes[name]; ok {
		return mods, code, nil
	}
	if len(name) == 1 && (name[0] >= 'A' && name[0] <= 'Z' || name[0] >= '0' && name[0] <= '9') {
		return mods, uint32(name[0]), nil
	}
	if n, ok := FunctionKey(name); ok && n <= 24 {
		return mods, 0x70 + uint32(n-1), nil
	}
	return 0, 0, fmt.Errorf("unsupported key %q in shortcut %s", d.Key(), d)
}
