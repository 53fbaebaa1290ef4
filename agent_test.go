package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/devpanel/classify"
	"markestedt/devpanel/config"
	"markestedt/devpanel/platform"
	"markestedt/devpanel/settings"
	"markestedt/devpanel/shortcut"
)

type memPrefs struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemPrefs() *memPrefs { return &memPrefs{values: map[string]string{}} }

func (m *memPrefs) Get(key, def string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *memPrefs) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memPrefs) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type fakeHotkeys struct {
	mu         sync.Mutex
	registered map[shortcut.Descriptor]bool
	reject     map[shortcut.Descriptor]bool
	events     chan platform.Event
	closed     bool
}

func newFakeHotkeys() *fakeHotkeys {
	return &fakeHotkeys{
		registered: map[shortcut.Descriptor]bool{},
		reject:     map[shortcut.Descriptor]bool{},
		events:     make(chan platform.Event, 4),
	}
}

func (f *fakeHotkeys) Register(d shortcut.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject[d] {
		return errors.New("already registered by another application")
	}
	f.registered[d] = true
	return nil
}

func (f *fakeHotkeys) Unregister(d shortcut.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.registered, d)
	return nil
}

func (f *fakeHotkeys) Events() <-chan platform.Event { return f.events }

func (f *fakeHotkeys) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeHotkeys) isRegistered(d shortcut.Descriptor) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered[d]
}

type fakeClipboard struct {
	mu       sync.Mutex
	text     string
	writeErr error
}

func (c *fakeClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *fakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.text = text
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Shortcut:  config.ShortcutConfig{Default: "CommandOrControl+Alt+D"},
		Clipboard: config.ClipboardConfig{AutoDetect: true, CacheSeconds: 30},
		Log:       config.LogConfig{Level: "info"},
	}
}

type harness struct {
	agent  *Agent
	prefs  *memPrefs
	keys   *fakeHotkeys
	clip   *fakeClipboard
	window *platform.PanelWindow
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		prefs:  newMemPrefs(),
		keys:   newFakeHotkeys(),
		clip:   &fakeClipboard{},
		window: platform.NewPanelWindow(nil),
	}
	agent, err := NewAgent(cfg, h.prefs, h.keys, h.clip, h.window)
	require.NoError(t, err)
	h.agent = agent
	return h
}

func (h *harness) run(t *testing.T) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.agent.Run(ctx) }()

	def := shortcut.MustParse("CommandOrControl+Alt+D")
	require.Eventually(t, func() bool { return h.keys.isRegistered(def) }, time.Second, 5*time.Millisecond)
	return cancel, done
}

func TestAgentHotkeyTogglesWindow(t *testing.T) {
	h := newHarness(t, testConfig())
	cancel, done := h.run(t)

	def := shortcut.MustParse("CommandOrControl+Alt+D")
	h.keys.events <- platform.Event{Shortcut: def}
	require.Eventually(t, h.window.Visible, time.Second, 5*time.Millisecond)

	h.keys.events <- platform.Event{Shortcut: def}
	require.Eventually(t, func() bool { return !h.window.Visible() }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.False(t, h.keys.isRegistered(def))
	assert.True(t, h.keys.closed)
}

func TestAgentIgnoresStaleTrigger(t *testing.T) {
	h := newHarness(t, testConfig())
	cancel, done := h.run(t)

	h.keys.events <- platform.Event{Shortcut: shortcut.MustParse("Alt+Shift+Q")}
	h.keys.events <- platform.Event{Shortcut: shortcut.MustParse("CommandOrControl+Alt+D")}
	require.Eventually(t, h.window.Visible, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestAgentStartsWhenRegistrationFails(t *testing.T) {
	h := newHarness(t, testConfig())
	def := shortcut.MustParse("CommandOrControl+Alt+D")
	h.keys.reject[def] = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.agent.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
	assert.False(t, h.agent.reconciler.Active())
	assert.Equal(t, def, h.agent.Shortcut())
}

func TestAgentCaptureCommitsNewShortcut(t *testing.T) {
	h := newHarness(t, testConfig())
	cancel, done := h.run(t)
	defer func() {
		cancel()
		<-done
	}()

	refreshed := 0
	h.agent.OnShortcutChange(func() { refreshed++ })

	require.NoError(t, h.agent.BeginShortcutCapture())
	assert.Equal(t, shortcut.Capturing, h.agent.CaptureState())

	_, handled := h.agent.KeyDown(shortcut.KeyEvent{Key: "Shift", Code: "ShiftLeft", Shift: true})
	assert.False(t, handled)

	out, handled := h.agent.KeyDown(shortcut.KeyEvent{Key: "k", Code: "KeyK", Ctrl: true, Shift: true})
	require.True(t, handled)
	require.True(t, out.Committed)

	want := shortcut.MustParse("CommandOrControl+Shift+K")
	assert.Equal(t, want, h.agent.Shortcut())
	assert.True(t, h.keys.isRegistered(want))
	assert.False(t, h.keys.isRegistered(shortcut.MustParse("CommandOrControl+Alt+D")))
	assert.Equal(t, want.String(), h.prefs.values[settings.KeyToggleShortcut])
	assert.Equal(t, shortcut.Idle, h.agent.CaptureState())
	assert.Equal(t, 1, refreshed)
}

func TestAgentRejectedShortcutKeepsBinding(t *testing.T) {
	h := newHarness(t, testConfig())
	cancel, done := h.run(t)
	defer func() {
		cancel()
		<-done
	}()

	taken := shortcut.MustParse("CommandOrControl+Shift+P")
	h.keys.reject[taken] = true

	out, err := h.agent.SetShortcut("Ctrl+Shift+P")
	require.NoError(t, err)
	assert.False(t, out.Committed)
	assert.ErrorIs(t, out.Err, shortcut.ErrRegistrationRejected)

	def := shortcut.MustParse("CommandOrControl+Alt+D")
	assert.Equal(t, def, h.agent.Shortcut())
	assert.True(t, h.keys.isRegistered(def))
	_, stored := h.prefs.values[settings.KeyToggleShortcut]
	assert.False(t, stored)
}

func TestAgentSetShortcutRejectsBadText(t *testing.T) {
	h := newHarness(t, testConfig())
	_, err := h.agent.SetShortcut("K")
	assert.ErrorIs(t, err, shortcut.ErrNoModifier)
}

func TestAgentResetShortcut(t *testing.T) {
	h := newHarness(t, testConfig())
	cancel, done := h.run(t)
	defer func() {
		cancel()
		<-done
	}()

	_, err := h.agent.SetShortcut("Alt+Shift+J")
	require.NoError(t, err)

	out := h.agent.ResetShortcut()
	require.True(t, out.Committed)
	assert.Equal(t, shortcut.MustParse("CommandOrControl+Alt+D"), h.agent.Shortcut())
	assert.False(t, h.keys.isRegistered(shortcut.MustParse("Alt+Shift+J")))
	assert.NotContains(t, h.prefs.values, settings.KeyToggleShortcut)
}

func TestAgentShowingWindowFillsTool(t *testing.T) {
	h := newHarness(t, testConfig())
	h.clip.text = `{"name":"devpanel"}`

	h.agent.ToggleWindow()
	require.True(t, h.window.Visible())

	text, ok := h.agent.TakeAutoFill("json")
	require.True(t, ok)
	assert.Equal(t, `{"name":"devpanel"}`, text)

	_, ok = h.agent.TakeAutoFill("json")
	assert.False(t, ok, "auto-fill text is consumed once")

	_, ok = h.agent.TakeAutoFill("base64")
	assert.False(t, ok)
}

func TestAgentAutoDetectDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Clipboard.AutoDetect = false
	h := newHarness(t, cfg)
	h.clip.text = "https://example.com/a?b=c"

	h.agent.FocusGained()
	_, ok := h.agent.TakeAutoFill("url")
	assert.False(t, ok)

	det, err := h.agent.DetectClipboard()
	require.NoError(t, err)
	assert.Equal(t, classify.URL, det.Category)
	_, ok = h.agent.TakeAutoFill("url")
	assert.True(t, ok)
}

func TestAgentThemeAndPalette(t *testing.T) {
	h := newHarness(t, testConfig())

	assert.Equal(t, settings.PaletteFor(settings.ThemeSystem, true), h.agent.Palette(true))

	require.NoError(t, h.agent.SetTheme("light"))
	assert.Equal(t, settings.PaletteFor(settings.ThemeLight, true), h.agent.Palette(true))
	assert.Equal(t, "light", h.prefs.values[settings.KeyTheme])

	assert.Error(t, h.agent.SetTheme("sepia"))
}

func TestAgentLoadsPersistedShortcut(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[settings.KeyToggleShortcut] = "Alt+Shift+J"
	keys := newFakeHotkeys()

	agent, err := NewAgent(testConfig(), prefs, keys, &fakeClipboard{}, platform.NewPanelWindow(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- agent.Run(ctx) }()

	want := shortcut.MustParse("Alt+Shift+J")
	require.Eventually(t, func() bool { return keys.isRegistered(want) }, time.Second, 5*time.Millisecond)
	assert.False(t, keys.isRegistered(shortcut.MustParse("CommandOrControl+Alt+D")))
	assert.Equal(t, "⌥ + ⇧ + J", agent.ShortcutDisplay())

	cancel()
	require.NoError(t, <-done)
}

func TestAgentCopyToClipboard(t *testing.T) {
	h := newHarness(t, testConfig())

	encoded := "SGVsbG8="
	require.NoError(t, h.agent.CopyToClipboard(encoded))
	assert.Equal(t, encoded, h.clip.text)

	// the copied result is what the next focus event detects
	h.agent.FocusGained()
	text, ok := h.agent.TakeAutoFill("base64")
	require.True(t, ok)
	assert.Equal(t, encoded, text)

	h.clip.writeErr = errors.New("clipboard is held by another application")
	err := h.agent.CopyToClipboard("ignored")
	assert.ErrorContains(t, err, "failed to copy to clipboard")
	assert.Equal(t, encoded, h.clip.text)
}
