// Package window owns the floating native window that hosts a running
// child application, and its Disabled/Attached/Floating lifecycle.
//
// A Wrapper is not safe for concurrent use. All calls are expected on the
// single control goroutine that owns it.
package window

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/constraint"
	"github.com/1broseidon/floatwin/internal/event"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

// State is the wrapper's lifecycle state.
type State int

const (
	StateDisabled State = iota
	StateAttached
	StateFloating
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateAttached:
		return "attached"
	case StateFloating:
		return "floating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Content is the hosted child application as seen by auto-size.
type Content interface {
	PreferredSize() platform.Size
}

// Options configure the floating window created by Enable.
type Options struct {
	Title       string
	X           int
	Y           int
	DefaultSize platform.Size
	// MinSize and MaxSize are applied on Enable when set (non-zero).
	MinSize  platform.Size
	MaxSize  platform.Size
	AutoSize bool
}

// DefaultOptions returns the options of a plain windowed play preview.
func DefaultOptions() Options {
	return Options{
		Title:       "floatwin",
		X:           64,
		Y:           64,
		DefaultSize: platform.Size{Width: 1152, Height: 648},
		AutoSize:    true,
	}
}

// SyncState compares the last committed geometry with the last geometry the
// display server confirmed.
type SyncState struct {
	Committed platform.Size `json:"committed"`
	Confirmed platform.Size `json:"confirmed"`
	// Settled is set once the server has answered the last commit.
	Settled bool `json:"settled"`
}

// Pending reports whether the last commit is still unanswered.
func (s SyncState) Pending() bool {
	return !s.Settled
}

// Adjusted reports whether the server settled on a size other than the one
// committed, e.g. a window manager override or a user drag.
func (s SyncState) Adjusted() bool {
	return s.Settled && s.Committed != s.Confirmed
}

// Handle is a live floating window.
type Handle struct {
	ID       platform.WindowID
	Instance uuid.UUID
	sync     SyncState
	// lastFit is the size last requested by a content refit, before the
	// display server clamped it.
	lastFit platform.Size
}

// Wrapper manages one floating window.
type Wrapper struct {
	display platform.DisplayServer
	resizer *resize.Controller
	bus     *event.Bus
	logger  zerolog.Logger
	opts    Options
	content Content

	state       State
	handle      *Handle
	constraints *constraint.Set
	geometry    platform.Size
}

// New creates a wrapper in the Disabled state. bus may be nil.
func New(display platform.DisplayServer, resizer *resize.Controller, bus *event.Bus, opts Options, logger zerolog.Logger) *Wrapper {
	return &Wrapper{
		display:  display,
		resizer:  resizer,
		bus:      bus,
		logger:   logger.With().Str("component", "window").Logger(),
		opts:     opts,
		state:    StateDisabled,
		geometry: opts.DefaultSize,
	}
}

// SetContent attaches the hosted application used for auto-size.
func (w *Wrapper) SetContent(c Content) {
	w.content = c
}

// State returns the current lifecycle state.
func (w *Wrapper) State() State {
	return w.state
}

// IsFloating reports whether a native floating window is live.
func (w *Wrapper) IsFloating() bool {
	return w != nil && w.state == StateFloating && w.handle != nil
}

// Geometry returns the last authoritative window size. It is kept after the
// window is disabled.
func (w *Wrapper) Geometry() platform.Size {
	return w.geometry
}

// Handle returns the live handle, or nil when not floating.
func (w *Wrapper) Handle() *Handle {
	if !w.IsFloating() {
		return nil
	}
	return w.handle
}

// Constraints returns the live constraint set, or nil when not floating.
func (w *Wrapper) Constraints() *constraint.Set {
	if !w.IsFloating() {
		return nil
	}
	return w.constraints
}

// Enable detaches the content into a new floating window. It is a no-op
// when already floating.
func (w *Wrapper) Enable() error {
	if w.state == StateFloating {
		return nil
	}

	cs := constraint.New()
	cs.SetAutoSize(w.opts.AutoSize)
	if w.opts.MinSize.Valid() {
		if err := cs.SetMin(w.opts.MinSize); err != nil {
			return fmt.Errorf("enable: %w", err)
		}
	}
	if w.opts.MaxSize.Valid() {
		if err := cs.SetMax(w.opts.MaxSize); err != nil {
			return fmt.Errorf("enable: %w", err)
		}
	}

	size := w.opts.DefaultSize
	fitted := false
	if cs.AutoSize() && w.content != nil {
		if preferred := w.content.PreferredSize(); preferred.Valid() {
			size = preferred
			fitted = true
		}
	}
	size = cs.Fit(size)
	if !size.Valid() {
		return fmt.Errorf("enable: %w: initial size %s", resize.ErrInvalidSize, size)
	}

	id, err := w.display.CreateWindow(platform.WindowSpec{
		Title: w.opts.Title,
		X:     w.opts.X,
		Y:     w.opts.Y,
		Size:  size,
	})
	if err != nil {
		return fmt.Errorf("enable: create window: %w", err)
	}
	if err := w.display.SetSizeHints(id, cs.Hints()); err != nil {
		w.logger.Warn().Err(err).Uint32("window", uint32(id)).Msg("failed to publish size hints")
	}

	confirmed, err := w.display.QuerySize(id)
	if err != nil || !confirmed.Valid() {
		confirmed = size
	}

	w.handle = &Handle{
		ID:       id,
		Instance: uuid.New(),
		sync:     SyncState{Committed: confirmed, Confirmed: confirmed, Settled: true},
	}
	if fitted {
		w.handle.lastFit = size
	}
	w.constraints = cs
	w.geometry = confirmed
	w.state = StateFloating

	w.logger.Info().
		Uint32("window", uint32(id)).
		Str("instance", w.handle.Instance.String()).
		Stringer("size", confirmed).
		Msg("floating window enabled")
	w.publish(event.NewWindowEnabled(id, confirmed))
	return nil
}

// Disable destroys the floating window and reattaches the content inline.
// It is a no-op when not floating.
func (w *Wrapper) Disable() error {
	if w.state != StateFloating {
		return nil
	}
	return w.teardown(StateAttached)
}

// Toggle enables the floating window when it is not floating and disables
// it otherwise.
func (w *Wrapper) Toggle() error {
	if w.IsFloating() {
		return w.Disable()
	}
	return w.Enable()
}

// Close destroys any floating window and moves to Disabled.
func (w *Wrapper) Close() error {
	if w.state == StateFloating {
		return w.teardown(StateDisabled)
	}
	w.state = StateDisabled
	return nil
}

func (w *Wrapper) teardown(next State) error {
	id := w.handle.ID
	w.handle = nil
	w.constraints = nil
	w.state = next

	err := w.display.DestroyWindow(id)
	if err != nil {
		w.logger.Warn().Err(err).Uint32("window", uint32(id)).Msg("failed to destroy window")
	} else {
		w.logger.Info().Uint32("window", uint32(id)).Stringer("state", next).Msg("floating window disabled")
	}
	w.publish(event.NewWindowDisabled(id))
	if err != nil {
		return fmt.Errorf("destroy window %d: %w", id, err)
	}
	return nil
}

// ForceResize commits size directly, overriding bounds and auto-size. It
// fails with resize.ErrWindowUnavailable unless floating.
func (w *Wrapper) ForceResize(size platform.Size) (resize.Result, error) {
	if !w.IsFloating() {
		return resize.Result{}, resize.ErrWindowUnavailable
	}
	return w.resizer.ForceResize(target{w}, size)
}

// Resize applies size through the window's constraints.
func (w *Wrapper) Resize(size platform.Size) (resize.Result, error) {
	if !w.IsFloating() {
		return resize.Result{}, resize.ErrWindowUnavailable
	}
	return w.resizer.Resize(target{w}, size)
}

// Refit sizes the window to the content's preferred size. It does nothing
// unless floating with auto-size on, and reports whether it committed.
func (w *Wrapper) Refit() (bool, error) {
	if !w.IsFloating() || w.content == nil || !w.constraints.AutoSize() {
		return false, nil
	}
	preferred := w.content.PreferredSize()
	if !preferred.Valid() {
		return false, nil
	}
	size := w.constraints.Fit(preferred)
	if size == w.geometry || size == w.handle.lastFit {
		return false, nil
	}

	actual, err := w.display.CommitSize(w.handle.ID, size)
	if err != nil {
		return false, fmt.Errorf("refit window %d: %w", w.handle.ID, err)
	}
	w.record(actual)
	w.handle.lastFit = size
	w.logger.Debug().Uint32("window", uint32(w.handle.ID)).Stringer("size", actual).Msg("refit to content")
	return true, nil
}

// Acknowledge records a size the display server confirmed for id. Reports
// for other or destroyed windows are ignored.
func (w *Wrapper) Acknowledge(id platform.WindowID, size platform.Size) {
	if !w.IsFloating() || w.handle.ID != id {
		return
	}
	sync := &w.handle.sync
	if sync.Settled && sync.Confirmed == size {
		return
	}
	sync.Confirmed = size
	sync.Settled = true
	w.publish(event.NewGeometrySynced(id, size, sync.Adjusted()))
}

// Sync polls the display server for the confirmed size.
func (w *Wrapper) Sync() (SyncState, error) {
	if !w.IsFloating() {
		return SyncState{}, resize.ErrWindowUnavailable
	}
	size, err := w.display.QuerySize(w.handle.ID)
	if err != nil {
		return w.handle.sync, fmt.Errorf("query window %d: %w", w.handle.ID, err)
	}
	// A window manager that keeps the old size still answers the commit.
	w.Acknowledge(w.handle.ID, size)
	return w.handle.sync, nil
}

// SyncState returns the committed/confirmed pair, false when not floating.
func (w *Wrapper) SyncState() (SyncState, bool) {
	if !w.IsFloating() {
		return SyncState{}, false
	}
	return w.handle.sync, true
}

// record caches a committed size. A commit of the size already confirmed has
// nothing left to answer.
func (w *Wrapper) record(size platform.Size) {
	w.geometry = size
	w.handle.sync.Committed = size
	w.handle.sync.Settled = size == w.handle.sync.Confirmed
	w.handle.lastFit = platform.Size{}
}

func (w *Wrapper) publish(e event.Event) {
	if w.bus != nil {
		w.bus.Publish(e)
	}
}

// target adapts a Wrapper to resize.Target.
type target struct{ w *Wrapper }

func (t target) NativeID() (platform.WindowID, bool) {
	if !t.w.IsFloating() {
		return 0, false
	}
	return t.w.handle.ID, true
}

func (t target) Constraints() *constraint.Set {
	return t.w.constraints
}

func (t target) CommitGeometry(size platform.Size) {
	t.w.record(size)
}
