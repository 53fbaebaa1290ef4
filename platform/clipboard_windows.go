//go:build windows

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procEmptyClipboard             = user32.NewProc("EmptyClipboard")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procSetClipboardData           = user32.NewProc("SetClipboardData")
	procGlobalAlloc                = kernel32.NewProc("GlobalAlloc")
	procGlobalFree                 = kernel32.NewProc("GlobalFree")
	procGlobalLock                 = kernel32.NewProc("GlobalLock")
	procGlobalUnlock               = kernel32.NewProc("GlobalUnlock")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002

	openRetries = 10
	openBackoff = 10 * time.Millisecond
)

var errClipboardBusy = errors.New("clipboard is held by another application")

// WindowsClipboard reads and writes CF_UNICODETEXT
type WindowsClipboard struct{}

// NewClipboard creates a new Windows clipboard instance
func NewClipboard() Clipboard {
	return &WindowsClipboard{}
}

// ReadText retrieves text from the clipboard; empty when it holds no text
func (c *WindowsClipboard) ReadText() (string, error) {
	if r, _, _ := procIsClipboardFormatAvailable.Call(cfUnicodeText); r == 0 {
		return "", nil
	}

	var text string
	err := withClipboard(func() error {
		h, _, err := procGetClipboardData.Call(cfUnicodeText)
		if h == 0 {
			if errors.Is(err, syscall.Errno(0)) {
				return nil
			}
			return fmt.Errorf("GetClipboardData failed: %w", err)
		}

		p, _, err := procGlobalLock.Call(h)
		if p == 0 {
			return fmt.Errorf("GlobalLock failed: %w", err)
		}
		defer procGlobalUnlock.Call(h)

		text = windows.UTF16PtrToString((*uint16)(unsafe.Pointer(p)))
		return nil
	})
	return text, err
}

// WriteText replaces the clipboard contents with text
func (c *WindowsClipboard) WriteText(text string) error {
	h, err := globalText(text)
	if err != nil {
		return err
	}

	err = withClipboard(func() error {
		if r, _, err := procEmptyClipboard.Call(); r == 0 {
			return fmt.Errorf("EmptyClipboard failed: %w", err)
		}
		if r, _, err := procSetClipboardData.Call(cfUnicodeText, h); r == 0 {
			return fmt.Errorf("SetClipboardData failed: %w", err)
		}
		return nil
	})
	if err != nil {
		// the system owns h only after SetClipboardData succeeds
		procGlobalFree.Call(h)
	}
	return err
}

// globalText copies text, NUL-terminated, into a movable global block
func globalText(text string) (uintptr, error) {
	units, err := windows.UTF16FromString(text)
	if err != nil {
		return 0, fmt.Errorf("text contains a NUL character: %w", err)
	}

	h, _, err := procGlobalAlloc.Call(gmemMoveable, uintptr(len(units))*unsafe.Sizeof(units[0]))
	if h == 0 {
		return 0, fmt.Errorf("GlobalAlloc failed: %w", err)
	}

	p, _, err := procGlobalLock.Call(h)
	if p == 0 {
		procGlobalFree.Call(h)
		return 0, fmt.Errorf("GlobalLock failed: %w", err)
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(p)), len(units)), units)
	procGlobalUnlock.Call(h)

	return h, nil
}

// withClipboard runs fn while this thread holds the clipboard open
func withClipboard(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	opened := false
	for i := 0; i < openRetries; i++ {
		if r, _, _ := procOpenClipboard.Call(0); r != 0 {
			opened = true
			break
		}
		time.Sleep(openBackoff)
	}
	if !opened {
		return fmt.Errorf("failed to open clipboard after %d attempts: %w", openRetries, errClipboardBusy)
	}
	defer procCloseClipboard.Call()

	return fn()
}
