package systray

import (
	"log/slog"

	"github.com/getlantern/systray"
)

// Controller is the part of the application the tray menu drives
type Controller interface {
	ToggleWindow()
	CheckClipboard()
	ShortcutDisplay() string
}

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	ctrl     Controller
	iconData []byte
	quit     chan struct{}
}

// NewSystrayManager creates a new systray manager
func NewSystrayManager(ctrl Controller, iconData []byte) *SystrayManager {
	return &SystrayManager{
		ctrl:     ctrl,
		iconData: iconData,
		quit:     make(chan struct{}),
	}
}

// Run starts the system tray (blocking call, must own the main thread)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// RefreshTooltip shows the current toggle shortcut in the tooltip
func (m *SystrayManager) RefreshTooltip() {
	systray.SetTooltip(tooltip(m.ctrl.ShortcutDisplay()))
}

func tooltip(shortcut string) string {
	if shortcut == "" {
		return "DevPanel"
	}
	return "DevPanel (" + shortcut + ")"
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	systray.SetTitle("DevPanel")
	m.RefreshTooltip()

	mToggle := systray.AddMenuItem("Show/Hide Panel", "Toggle the DevPanel window")
	mCheck := systray.AddMenuItem("Check Clipboard", "Detect the clipboard content type")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit DevPanel")

	go func() {
		for {
			select {
			case <-mToggle.ClickedCh:
				m.ctrl.ToggleWindow()
			case <-mCheck.ClickedCh:
				m.ctrl.CheckClipboard()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}
