// Package resize changes the geometry of a floating window, either through
// its constraints (Resize) or around them (ForceResize).
package resize

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/constraint"
	"github.com/1broseidon/floatwin/internal/event"
	"github.com/1broseidon/floatwin/internal/platform"
)

// Reasons a normal resize was suppressed.
const (
	ReasonAutoSize    = "auto_size"
	ReasonOutOfBounds = "out_of_bounds"
)

// Target is the window a resize operates on. The controller holds it only
// for the duration of one call.
type Target interface {
	// NativeID returns the live floating window, or false when there is none.
	NativeID() (platform.WindowID, bool)
	Constraints() *constraint.Set
	// CommitGeometry records the size the display server accepted.
	CommitGeometry(size platform.Size)
}

// Result describes the outcome of a resize that passed validation.
type Result struct {
	Requested platform.Size `json:"requested"`
	Actual    platform.Size `json:"actual"`
	Applied   bool          `json:"applied"`
	Forced    bool          `json:"forced"`
	Reason    string        `json:"reason,omitempty"`
}

// Clamped reports whether the display server applied a different size than
// requested. This is not an error: Actual is authoritative.
func (r Result) Clamped() bool {
	return r.Applied && r.Actual != r.Requested
}

// Controller commits window geometry to a display server.
type Controller struct {
	display platform.DisplayServer
	bus     *event.Bus
	logger  zerolog.Logger
}

// NewController creates a controller. bus may be nil.
func NewController(display platform.DisplayServer, bus *event.Bus, logger zerolog.Logger) *Controller {
	return &Controller{
		display: display,
		bus:     bus,
		logger:  logger.With().Str("component", "resize").Logger(),
	}
}

// Resize applies size through the window's constraints. It is suppressed,
// without any partial application, while auto-size is on or when size lies
// outside the bounds.
func (c *Controller) Resize(t Target, size platform.Size) (Result, error) {
	id, err := c.precheck(t, size)
	if err != nil {
		return Result{}, err
	}

	res := Result{Requested: size}
	cs := t.Constraints()
	switch {
	case cs.AutoSize():
		res.Reason = ReasonAutoSize
	case !cs.IsSatisfied(size):
		res.Reason = ReasonOutOfBounds
	}
	if res.Reason != "" {
		c.logger.Debug().
			Uint32("window", uint32(id)).
			Stringer("size", size).
			Str("reason", res.Reason).
			Msg("resize suppressed")
		return res, nil
	}

	return c.commit(t, id, res)
}

// ForceResize commits size directly, bypassing bounds and auto-size. On
// success the window has no bounds and auto-size is off. Calling it twice
// with the same size leaves the same state as calling it once.
func (c *Controller) ForceResize(t Target, size platform.Size) (Result, error) {
	id, err := c.precheck(t, size)
	if err != nil {
		return Result{}, err
	}

	// Order matters: a content re-fit between commit and cache update must
	// already see auto-size off.
	cs := t.Constraints()
	cs.Clear()
	if err := c.display.SetSizeHints(id, cs.Hints()); err != nil {
		c.logger.Warn().Err(err).Uint32("window", uint32(id)).Msg("failed to clear size hints")
	}
	cs.SetAutoSize(false)

	return c.commit(t, id, Result{Requested: size, Forced: true})
}

func (c *Controller) precheck(t Target, size platform.Size) (platform.WindowID, error) {
	if t == nil {
		return 0, ErrWindowUnavailable
	}
	id, ok := t.NativeID()
	if !ok {
		c.logger.Debug().Stringer("size", size).Msg("resize rejected: no floating window")
		return 0, ErrWindowUnavailable
	}
	if !size.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	return id, nil
}

func (c *Controller) commit(t Target, id platform.WindowID, res Result) (Result, error) {
	actual, err := c.display.CommitSize(id, res.Requested)
	if err != nil {
		return Result{}, fmt.Errorf("commit %s to window %d: %w", res.Requested, id, err)
	}
	t.CommitGeometry(actual)

	res.Actual = actual
	res.Applied = true

	ev := c.logger.Info()
	if res.Clamped() {
		ev = c.logger.Warn().Stringer("requested", res.Requested)
	}
	ev.Uint32("window", uint32(id)).
		Stringer("size", actual).
		Bool("forced", res.Forced).
		Msg("resize committed")

	if c.bus != nil {
		c.bus.Publish(event.NewResizeCompleted(id, res.Requested, actual, res.Forced))
	}
	return res, nil
}
