//go:build !windows

package platform

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard uses the desktop's clipboard tools (pbpaste, xclip,
// xsel or wl-clipboard)
type SystemClipboard struct{}

// NewClipboard creates a clipboard backed by the system tools
func NewClipboard() Clipboard {
	return &SystemClipboard{}
}

// ReadText retrieves text from the clipboard
func (c *SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("no clipboard utility available")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard contents with text
func (c *SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
