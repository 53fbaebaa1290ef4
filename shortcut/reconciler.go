package shortcut

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// State is the capture state of the reconciler
type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrCaptureInProgress    = errors.New("shortcut capture already in progress")
	ErrRegistrationRejected = errors.New("shortcut registration rejected")
)

// Registrar is the OS-level global shortcut service.
type Registrar interface {
	Register(d Descriptor) error
	Unregister(d Descriptor) error
}

// BindingStore holds the logical toggle-window binding.
type BindingStore interface {
	ToggleShortcut() Descriptor
	SetToggleShortcut(d Descriptor) error
}

// Outcome reports the result of a commit attempt.
type Outcome struct {
	Previous  Descriptor
	Candidate Descriptor
	Binding   Descriptor // logical binding after the attempt
	Committed bool

	// Err is set when the candidate could not be registered; it wraps
	// ErrRegistrationRejected.
	Err error
	// ReleaseErr and PersistErr are non-fatal: the commit went through.
	ReleaseErr error
	PersistErr error
}

// Message returns a human-readable summary for the settings surface.
func (o Outcome) Message() string {
	switch {
	case !o.Committed && o.Err != nil:
		return fmt.Sprintf("Could not use %s: %v", o.Candidate.Display(), o.Err)
	case o.ReleaseErr != nil:
		return fmt.Sprintf("Shortcut set to %s (previous shortcut could not be released)", o.Binding.Display())
	case o.PersistErr != nil:
		return fmt.Sprintf("Shortcut set to %s for this session only", o.Binding.Display())
	default:
		return fmt.Sprintf("Shortcut set to %s", o.Binding.Display())
	}
}

// Reconciler keeps the OS registration in line with the logical binding.
// The logical binding is only ever changed after the OS accepted the new
// registration.
type Reconciler struct {
	registrar Registrar
	store     BindingStore
	fallback  Descriptor

	mu     sync.Mutex
	state  State
	active bool // logical binding is registered with the OS
}

// NewReconciler creates a reconciler. fallback is the built-in default used
// when the store holds no binding.
func NewReconciler(registrar Registrar, store BindingStore, fallback Descriptor) *Reconciler {
	return &Reconciler{
		registrar: registrar,
		store:     store,
		fallback:  fallback,
	}
}

// Start registers the persisted binding. Registrations do not survive a
// restart, so this runs once at startup; a failure leaves the application
// without a toggle shortcut but is otherwise harmless.
func (r *Reconciler) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.bindingLocked()
	if err := r.registrar.Register(d); err != nil {
		r.active = false
		slog.Error("Failed to register toggle shortcut at startup", "shortcut", d, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrRegistrationRejected, d, err)
	}

	r.active = true
	slog.Info("Toggle shortcut registered", "shortcut", d, "default", d == r.fallback)
	return nil
}

// Stop releases the active registration.
func (r *Reconciler) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = Idle
	if !r.active {
		return nil
	}
	d := r.bindingLocked()
	r.active = false
	if err := r.registrar.Unregister(d); err != nil {
		return fmt.Errorf("failed to release shortcut %s: %w", d, err)
	}
	return nil
}

// BeginCapture enters the Capturing state.
func (r *Reconciler) BeginCapture() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Capturing {
		return ErrCaptureInProgress
	}
	r.state = Capturing
	return nil
}

// Cancel abandons an in-progress capture without touching any state.
func (r *Reconciler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Idle
}

// HandleKey feeds a key-down event to the capture session. handled is false
// when the event was ignored: no capture running, a bare modifier, or no
// modifier held. Otherwise the capture ends and the outcome of the commit
// is returned.
func (r *Reconciler) HandleKey(ev KeyEvent) (out Outcome, handled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Capturing {
		return Outcome{}, false
	}
	candidate, ok := FromKeyEvent(ev)
	if !ok {
		return Outcome{}, false
	}

	r.state = Idle
	return r.commitLocked(candidate), true
}

// Commit applies candidate outside of a capture session, e.g. when the
// binding is edited as text.
func (r *Reconciler) Commit(candidate Descriptor) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commitLocked(candidate)
}

// State returns the capture state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Binding returns the logical toggle binding.
func (r *Reconciler) Binding() Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindingLocked()
}

// Active reports whether the logical binding is registered with the OS.
func (r *Reconciler) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Reconciler) bindingLocked() Descriptor {
	d := r.store.ToggleShortcut()
	if d.IsZero() {
		return r.fallback
	}
	return d
}

// commitLocked registers the candidate first, then releases the previous
// registration, then persists. Nothing changes if registration fails.
func (r *Reconciler) commitLocked(candidate Descriptor) Outcome {
	previous := r.bindingLocked()
	out := Outcome{Previous: previous, Candidate: candidate, Binding: previous}

	if candidate.IsZero() {
		out.Err = fmt.Errorf("%w: empty shortcut", ErrRegistrationRejected)
		return out
	}

	if candidate == previous && r.active {
		out.Committed = true
		return out
	}

	if err := r.registrar.Register(candidate); err != nil {
		slog.Warn("Shortcut registration rejected", "shortcut", candidate, "error", err)
		out.Err = fmt.Errorf("%w: %v", ErrRegistrationRejected, err)
		return out
	}

	if r.active && candidate != previous {
		if err := r.registrar.Unregister(previous); err != nil {
			slog.Warn("Failed to release previous shortcut", "shortcut", previous, "error", err)
			out.ReleaseErr = err
		}
	}
	r.active = true

	if err := r.store.SetToggleShortcut(candidate); err != nil {
		slog.Error("Failed to persist shortcut", "shortcut", candidate, "error", err)
		out.PersistErr = err
	}

	out.Binding = candidate
	out.Committed = true
	slog.Info("Toggle shortcut updated", "from", previous, "to", candidate)
	return out
}
