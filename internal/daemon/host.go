// Package daemon hosts the floating window: it owns the control loop, the
// per-frame reconciler and the IPC request handler.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/event"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

// HostConfig configures NewHost.
type HostConfig struct {
	Display      platform.DisplayServer
	Backend      string
	Window       window.Options
	TickInterval time.Duration
	Logger       zerolog.Logger
}

// Host wires one floating window to its display server, event bus,
// capability registry and control loop.
type Host struct {
	loop       *Loop
	bus        *event.Bus
	registry   *capability.Registry
	wrapper    *window.Wrapper
	content    *window.ReportedContent
	display    platform.DisplayServer
	reconciler *Reconciler
	backend    string
	logger     zerolog.Logger
	startTime  time.Time
}

var _ ipc.Handler = (*Host)(nil)

// NewHost builds the host and seals its capability registry.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.Display == nil {
		return nil, fmt.Errorf("daemon: display server is required")
	}
	logger := cfg.Logger

	bus := event.NewBus(logger)
	ctrl := resize.NewController(cfg.Display, bus, logger)
	w := window.New(cfg.Display, ctrl, bus, cfg.Window, logger)
	content := &window.ReportedContent{}
	w.SetContent(content)

	reg := capability.NewRegistry()
	if err := window.RegisterCapabilities(reg); err != nil {
		return nil, fmt.Errorf("daemon: register capabilities: %w", err)
	}
	reg.Seal()

	loop := NewLoop()
	h := &Host{
		loop:      loop,
		bus:       bus,
		registry:  reg,
		wrapper:   w,
		content:   content,
		display:   cfg.Display,
		backend:   cfg.Backend,
		logger:    logger.With().Str("component", "daemon").Logger(),
		startTime: time.Now(),
	}

	var flusher Flusher
	if f, ok := cfg.Display.(Flusher); ok {
		flusher = f
	}
	h.reconciler = NewReconciler(ReconcilerConfig{Interval: cfg.TickInterval, Logger: logger}, loop, w, flusher)

	// Acknowledgements arrive on the display server's goroutine (or inside
	// Flush on the loop itself); either way they are applied on the loop.
	cfg.Display.OnConfigure(func(id platform.WindowID, size platform.Size) {
		loop.Post(func() { w.Acknowledge(id, size) })
	})
	bus.SubscribeAll(h.logEvent)
	return h, nil
}

// Run drives the control loop and the reconciler until ctx is cancelled.
// The floating window is closed before Run returns.
func (h *Host) Run(ctx context.Context) {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go h.loop.Run(loopCtx)

	h.reconciler.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.loop.Do(closeCtx, h.wrapper.Close); err != nil {
		h.logger.Warn().Err(err).Msg("failed to close floating window")
	}
	stopLoop()
	<-h.loop.Done()
}

// Do runs fn on the control loop with the wrapper.
func (h *Host) Do(ctx context.Context, fn func(w *window.Wrapper) error) error {
	return h.loop.Do(ctx, func() error { return fn(h.wrapper) })
}

// Bus returns the event bus.
func (h *Host) Bus() *event.Bus {
	return h.bus
}

// Registry returns the sealed capability registry.
func (h *Host) Registry() *capability.Registry {
	return h.registry
}

// HandleRequest implements ipc.Handler. Window operations are dispatched
// through the capability registry on the control loop.
func (h *Host) HandleRequest(ctx context.Context, req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return h.handleStatus(ctx)
	case ipc.CommandEnable:
		return h.invoke(ctx, window.MethodEnable, nil)
	case ipc.CommandDisable:
		return h.invoke(ctx, window.MethodDisable, nil)
	case ipc.CommandGeometry:
		return h.invoke(ctx, window.MethodGetGeometry, nil)
	case ipc.CommandResize:
		return h.handleResize(ctx, req.Payload)
	case ipc.CommandHasMethod:
		return h.handleHasMethod(req.Payload)
	case ipc.CommandCapabilities:
		return h.handleCapabilities()
	case ipc.CommandContentSize:
		return h.handleContentSize(ctx, req.Payload)
	default:
		return ipc.NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (h *Host) invoke(ctx context.Context, method string, args json.RawMessage) *ipc.Response {
	var out any
	err := h.loop.Do(ctx, func() error {
		var err error
		out, err = h.registry.Call(window.TypeName, method, h.wrapper, args)
		return err
	})
	if err != nil {
		h.logger.Debug().Err(err).Str("method", method).Msg("capability call failed")
		return ipc.ErrorResponse(err)
	}
	resp, err := ipc.NewOKResponse(out)
	if err != nil {
		return ipc.ErrorResponse(err)
	}
	return resp
}

func (h *Host) handleResize(ctx context.Context, payload json.RawMessage) *ipc.Response {
	var req ipc.ResizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return ipc.NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	args, _ := json.Marshal(window.SizeArgs{Width: req.Width, Height: req.Height})
	method := window.MethodResize
	if req.Force {
		method = window.MethodForceResize
	}
	return h.invoke(ctx, method, args)
}

// handleContentSize records the hosted application's preferred size and
// runs a reconcile pass at once so auto-size follows without waiting for
// the next tick.
func (h *Host) handleContentSize(ctx context.Context, payload json.RawMessage) *ipc.Response {
	var req ipc.ContentSizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return ipc.NewErrorResponse(fmt.Sprintf("Invalid content size payload: %v", err))
	}

	var st window.Status
	err := h.loop.Do(ctx, func() error {
		if err := h.content.Report(platform.Size{Width: req.Width, Height: req.Height}); err != nil {
			return err
		}
		h.reconciler.ReconcileNow()
		st = h.wrapper.Status()
		return nil
	})
	if err != nil {
		return ipc.ErrorResponse(err)
	}
	resp, err := ipc.NewOKResponse(st)
	if err != nil {
		return ipc.ErrorResponse(err)
	}
	return resp
}

func (h *Host) handleStatus(ctx context.Context) *ipc.Response {
	var st window.Status
	if err := h.Do(ctx, func(w *window.Wrapper) error {
		st = w.Status()
		return nil
	}); err != nil {
		return ipc.ErrorResponse(err)
	}

	resp, _ := ipc.NewOKResponse(ipc.StatusData{
		Window:        st,
		Backend:       h.backend,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		DaemonRunning: true,
	})
	return resp
}

func (h *Host) handleHasMethod(payload json.RawMessage) *ipc.Response {
	var req ipc.HasMethodPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return ipc.NewErrorResponse(fmt.Sprintf("Invalid has_method payload: %v", err))
	}
	resp, _ := ipc.NewOKResponse(ipc.HasMethodData{Available: h.registry.Has(req.Type, req.Method)})
	return resp
}

func (h *Host) handleCapabilities() *ipc.Response {
	var methods []capability.Info
	for _, t := range h.registry.Types() {
		methods = append(methods, h.registry.Methods(t)...)
	}
	resp, _ := ipc.NewOKResponse(ipc.CapabilitiesData{Methods: methods})
	return resp
}

func (h *Host) logEvent(e event.Event) {
	ev := h.logger.Debug()
	switch e := e.(type) {
	case event.ResizeCompleted:
		ev = ev.Uint32("window", uint32(e.WindowID)).
			Stringer("requested", e.Requested).
			Stringer("actual", e.Actual).
			Bool("forced", e.Forced)
	case event.WindowEnabled:
		ev = ev.Uint32("window", uint32(e.WindowID)).Stringer("size", e.Size)
	case event.WindowDisabled:
		ev = ev.Uint32("window", uint32(e.WindowID))
	case event.GeometrySynced:
		ev = ev.Uint32("window", uint32(e.WindowID)).Stringer("confirmed", e.Confirmed).Bool("adjusted", e.Adjusted)
	}
	ev.Str("event", e.EventType()).Msg("window event")
}
