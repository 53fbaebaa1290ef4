package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"markestedt/devpanel/autodetect"
	"markestedt/devpanel/config"
	"markestedt/devpanel/platform"
	"markestedt/devpanel/settings"
	"markestedt/devpanel/shortcut"
	"markestedt/devpanel/tools"
)

const defaultDetectTTL = 30 * time.Second

// Agent coordinates the toggle shortcut, the panel window and clipboard
// detection. UI shells call its exported methods from their event handlers.
type Agent struct {
	cfg        *config.Config
	settings   *settings.Settings
	reconciler *shortcut.Reconciler
	hotkeys    platform.Hotkeys
	clipboard  platform.Clipboard
	detector   *autodetect.Detector
	window     platform.Window

	mu               sync.Mutex
	autoFill         map[string]string
	unsubscribe      []func()
	onShortcutChange func()
}

// NewAgent creates a new agent instance and loads the user's settings
func NewAgent(cfg *config.Config, prefs settings.Store, hotkeys platform.Hotkeys, clipboard platform.Clipboard, window platform.Window) (*Agent, error) {
	s := settings.New(prefs, cfg.DefaultShortcut())
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	ttl := time.Duration(cfg.Clipboard.CacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultDetectTTL
	}

	a := &Agent{
		cfg:        cfg,
		settings:   s,
		reconciler: shortcut.NewReconciler(hotkeys, s, s.DefaultShortcut()),
		hotkeys:    hotkeys,
		clipboard:  clipboard,
		detector:   autodetect.NewDetector(clipboard, ttl),
		window:     window,
		autoFill:   make(map[string]string),
	}

	for _, tool := range tools.All() {
		id := tool.ID
		a.unsubscribe = append(a.unsubscribe, a.detector.Subscribe(tool.AutoFill, func(det autodetect.Detection) {
			a.mu.Lock()
			a.autoFill[id] = det.Text
			a.mu.Unlock()
			slog.Debug("Clipboard matches tool", "tool", id, "category", det.Category)
		}))
	}

	return a, nil
}

// Run registers the toggle shortcut and handles triggers until ctx is done
func (a *Agent) Run(ctx context.Context) error {
	// a failed registration must not keep the panel from starting
	if err := a.reconciler.Start(); err != nil {
		slog.Warn("Running without a toggle shortcut", "error", err)
	}

	slog.Info("DevPanel started",
		"shortcut", a.reconciler.Binding(),
		"active", a.reconciler.Active(),
		"theme", a.settings.Theme())

	events := a.hotkeys.Events()
	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return nil

		case evt, ok := <-events:
			if !ok {
				a.shutdown()
				return fmt.Errorf("hotkey event channel closed")
			}
			if evt.Shortcut != a.reconciler.Binding() {
				slog.Debug("Ignoring trigger for released shortcut", "shortcut", evt.Shortcut)
				continue
			}
			a.ToggleWindow()
		}
	}
}

func (a *Agent) shutdown() {
	if err := a.reconciler.Stop(); err != nil {
		slog.Warn("Failed to release toggle shortcut", "error", err)
	}
	if err := a.hotkeys.Close(); err != nil {
		slog.Warn("Failed to close hotkeys", "error", err)
	}

	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()
	for _, fn := range unsubscribe {
		fn()
	}
}

// ToggleWindow hides the panel if it is shown, otherwise shows it
func (a *Agent) ToggleWindow() {
	if a.window.Visible() {
		if err := a.window.Hide(); err != nil {
			slog.Error("Failed to hide panel", "error", err)
		}
		return
	}

	if err := a.window.Show(); err != nil {
		slog.Error("Failed to show panel", "error", err)
		return
	}
	a.FocusGained()
}

// FocusGained runs clipboard detection when auto-detect is enabled
func (a *Agent) FocusGained() {
	if !a.cfg.Clipboard.AutoDetect {
		return
	}
	a.CheckClipboard()
}

// CheckClipboard runs clipboard detection on demand
func (a *Agent) CheckClipboard() {
	if _, err := a.DetectClipboard(); err != nil {
		slog.Error("Failed to check clipboard", "error", err)
	}
}

// DetectClipboard classifies the clipboard and returns the detection
func (a *Agent) DetectClipboard() (autodetect.Detection, error) {
	det, err := a.detector.Check()
	if err != nil {
		return autodetect.Detection{}, err
	}
	slog.Info("Clipboard checked", "category", det.Category)
	return det, nil
}

// CopyToClipboard places a tool's output on the clipboard
func (a *Agent) CopyToClipboard(text string) error {
	if err := a.clipboard.WriteText(text); err != nil {
		slog.Error("Failed to copy to clipboard", "error", err)
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	slog.Debug("Copied to clipboard", "length", len(text))
	return nil
}

// TakeAutoFill returns and clears the clipboard text waiting for a tool
func (a *Agent) TakeAutoFill(toolID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	text, ok := a.autoFill[toolID]
	delete(a.autoFill, toolID)
	return text, ok
}

// Tools lists the tools matching a search query
func (a *Agent) Tools(query string) []tools.Tool {
	return tools.Filter(query)
}

// BeginShortcutCapture starts recording a new toggle shortcut
func (a *Agent) BeginShortcutCapture() error {
	return a.reconciler.BeginCapture()
}

// CancelShortcutCapture abandons recording, e.g. when settings are closed
func (a *Agent) CancelShortcutCapture() {
	a.reconciler.Cancel()
}

// KeyDown forwards a key press to the shortcut capture
func (a *Agent) KeyDown(ev shortcut.KeyEvent) (shortcut.Outcome, bool) {
	out, handled := a.reconciler.HandleKey(ev)
	if handled {
		a.afterCommit(out)
	}
	return out, handled
}

// SetShortcut changes the toggle shortcut from its text form
func (a *Agent) SetShortcut(spec string) (shortcut.Outcome, error) {
	d, err := shortcut.Parse(spec)
	if err != nil {
		return shortcut.Outcome{}, err
	}
	out := a.reconciler.Commit(d)
	a.afterCommit(out)
	return out, nil
}

// ResetShortcut restores the built-in toggle shortcut
func (a *Agent) ResetShortcut() shortcut.Outcome {
	out := a.reconciler.Commit(a.settings.DefaultShortcut())
	a.afterCommit(out)
	return out
}

// Shortcut returns the logical toggle shortcut
func (a *Agent) Shortcut() shortcut.Descriptor {
	return a.reconciler.Binding()
}

// ShortcutDisplay returns the toggle shortcut in symbol form
func (a *Agent) ShortcutDisplay() string {
	return a.reconciler.Binding().Display()
}

// CaptureState reports whether a shortcut capture is running
func (a *Agent) CaptureState() shortcut.State {
	return a.reconciler.State()
}

// OnShortcutChange sets a callback run after the toggle shortcut changed
func (a *Agent) OnShortcutChange(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onShortcutChange = fn
}

func (a *Agent) afterCommit(out shortcut.Outcome) {
	if !out.Committed || out.Binding == out.Previous {
		return
	}
	a.mu.Lock()
	fn := a.onShortcutChange
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetTheme selects light, dark or system appearance
func (a *Agent) SetTheme(name string) error {
	theme, err := settings.ParseTheme(name)
	if err != nil {
		return err
	}
	return a.settings.SetTheme(theme)
}

// Palette returns the presentation configuration for the current theme
func (a *Agent) Palette(systemDark bool) settings.Palette {
	return settings.PaletteFor(a.settings.Theme(), systemDark)
}
