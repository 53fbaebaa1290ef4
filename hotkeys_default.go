//go:build !(linux && x11)

package main

import "markestedt/devpanel/platform"

// Without the x11 tag Linux builds fall back to the unsupported registrar
func newHotkeys() platform.Hotkeys {
	return platform.NewHotkeys()
}
