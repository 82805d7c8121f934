package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

// Flusher is a display server that delivers acknowledgements on demand
// rather than from its own event loop.
type Flusher interface {
	Flush() int
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   zerolog.Logger
}

// Reconciler is the per-frame tick. On each tick it collects the display
// server's acknowledgements (by flushing a Flusher, otherwise by polling)
// and refits the window to its content while auto-size is on.
type Reconciler struct {
	interval time.Duration
	loop     *Loop
	wrapper  *window.Wrapper
	flusher  Flusher
	logger   zerolog.Logger
}

// NewReconciler creates a reconciler. flusher may be nil.
func NewReconciler(cfg ReconcilerConfig, loop *Loop, w *window.Wrapper, flusher Flusher) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	return &Reconciler{
		interval: interval,
		loop:     loop,
		wrapper:  w,
		flusher:  flusher,
		logger:   cfg.Logger.With().Str("component", "reconciler").Logger(),
	}
}

// Run starts the tick. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("reconciler started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("reconciler stopped")
			return
		case <-ticker.C:
			_ = r.loop.Do(ctx, func() error {
				r.reconcile()
				return nil
			})
		}
	}
}

// ReconcileNow runs one pass. It must be called on the control loop.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}

func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Msg("reconciler panic recovered")
		}
	}()

	// A Flusher delivers its acknowledgements through OnConfigure, so
	// polling it as well would report every commit twice.
	if r.flusher != nil {
		r.flusher.Flush()
	} else if r.wrapper.IsFloating() {
		if _, err := r.wrapper.Sync(); err != nil && !errors.Is(err, resize.ErrWindowUnavailable) {
			r.logger.Warn().Err(err).Msg("failed to sync window geometry")
		}
	}
	if !r.wrapper.IsFloating() {
		return
	}

	if _, err := r.wrapper.Refit(); err != nil {
		r.logger.Warn().Err(err).Msg("failed to refit window to content")
	}
}
