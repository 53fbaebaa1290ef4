//go:build linux && x11

package main

import (
	"markestedt/devpanel/platform"
	"markestedt/devpanel/platform/x11hotkey"
)

func newHotkeys() platform.Hotkeys {
	return x11hotkey.New()
}
