package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

// fakeDaemon runs the window in-process instead of behind the socket.
type fakeDaemon struct {
	w       *window.Wrapper
	display *platform.HeadlessServer
	reg     *capability.Registry
	calls   int
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	t.Helper()
	display := platform.NewHeadlessServer(platform.Display{
		Bounds: platform.Rect{Width: 1920, Height: 1080},
	})
	ctrl := resize.NewController(display, nil, zerolog.Nop())
	reg := capability.NewRegistry()
	if err := window.RegisterCapabilities(reg); err != nil {
		t.Fatalf("RegisterCapabilities: %v", err)
	}
	reg.Seal()
	return &fakeDaemon{
		w:       window.New(display, ctrl, nil, window.DefaultOptions(), zerolog.Nop()),
		display: display,
		reg:     reg,
	}
}

func (f *fakeDaemon) Enable() (bool, error) {
	f.calls++
	err := f.w.Enable()
	return f.w.IsFloating(), err
}

func (f *fakeDaemon) Disable() (bool, error) {
	f.calls++
	err := f.w.Disable()
	return f.w.IsFloating(), err
}

func (f *fakeDaemon) Resize(size platform.Size, force bool) (*resize.Result, error) {
	f.calls++
	var (
		res resize.Result
		err error
	)
	if force {
		res, err = f.w.ForceResize(size)
	} else {
		res, err = f.w.Resize(size)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (f *fakeDaemon) HasMethod(typeName, method string) (bool, error) {
	f.calls++
	return f.reg.Has(typeName, method), nil
}

func (f *fakeDaemon) Status() (*ipc.StatusData, error) {
	f.calls++
	return &ipc.StatusData{Window: f.w.Status(), Backend: "headless", DaemonRunning: true}, nil
}

func TestForceResizeTool(t *testing.T) {
	d := newFakeDaemon(t)
	s := NewServer(d, zerolog.Nop())
	ctx := context.Background()

	if _, _, err := s.handleForceResize(ctx, nil, SizeInput{Width: 800, Height: 600}); !errors.Is(err, resize.ErrWindowUnavailable) {
		t.Fatalf("before enable: err = %v", err)
	}

	if _, out, err := s.handleEnable(ctx, nil, EmptyInput{}); err != nil || !out.Floating {
		t.Fatalf("enable_floating = %+v, %v", out, err)
	}

	_, out, err := s.handleForceResize(ctx, nil, SizeInput{Width: 2400, Height: 600})
	if err != nil {
		t.Fatalf("force_resize: %v", err)
	}
	if !out.Applied || !out.Forced || !out.Clamped || out.Width != 1856 || out.RequestedWidth != 2400 {
		t.Fatalf("force_resize = %+v", out)
	}

	_, geom, err := s.handleGetGeometry(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("get_geometry: %v", err)
	}
	if geom.Width != 1856 || geom.Height != 600 || !geom.Floating || geom.AutoSize || !geom.Pending {
		t.Fatalf("get_geometry = %+v", geom)
	}

	d.display.Flush()
	if _, err := d.w.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, geom, _ = s.handleGetGeometry(ctx, nil, EmptyInput{}); geom.Pending || geom.Adjusted {
		t.Fatalf("still pending after flush: %+v", geom)
	}

	// The window manager settles on a smaller size than committed.
	d.w.Acknowledge(d.w.Handle().ID, platform.Size{Width: 1800, Height: 580})
	if _, geom, _ = s.handleGetGeometry(ctx, nil, EmptyInput{}); geom.Pending || !geom.Adjusted {
		t.Fatalf("after adjusted ack: %+v", geom)
	}
}

func TestResizeTool_InvalidSizeNeverReachesDaemon(t *testing.T) {
	d := newFakeDaemon(t)
	s := NewServer(d, zerolog.Nop())

	for _, in := range []SizeInput{{Width: 0, Height: 10}, {Width: 10, Height: -1}} {
		if _, _, err := s.handleForceResize(context.Background(), nil, in); !errors.Is(err, resize.ErrInvalidSize) {
			t.Fatalf("%+v: err = %v", in, err)
		}
	}
	if d.calls != 0 {
		t.Fatalf("daemon called %d times", d.calls)
	}
}

func TestResizeTool_SuppressedUnderAutoSize(t *testing.T) {
	d := newFakeDaemon(t)
	s := NewServer(d, zerolog.Nop())
	ctx := context.Background()
	if _, _, err := s.handleEnable(ctx, nil, EmptyInput{}); err != nil {
		t.Fatalf("enable: %v", err)
	}

	_, out, err := s.handleResize(ctx, nil, SizeInput{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if out.Applied || out.Reason != resize.ReasonAutoSize {
		t.Fatalf("resize = %+v", out)
	}
}

func TestDisableTool(t *testing.T) {
	d := newFakeDaemon(t)
	s := NewServer(d, zerolog.Nop())
	ctx := context.Background()
	_, _, _ = s.handleEnable(ctx, nil, EmptyInput{})

	if _, out, err := s.handleDisable(ctx, nil, EmptyInput{}); err != nil || out.Floating {
		t.Fatalf("disable_floating = %+v, %v", out, err)
	}
	if _, _, err := s.handleForceResize(ctx, nil, SizeInput{Width: 100, Height: 100}); !errors.Is(err, resize.ErrWindowUnavailable) {
		t.Fatalf("after disable: err = %v", err)
	}
}

func TestHasMethodTool(t *testing.T) {
	s := NewServer(newFakeDaemon(t), zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		in   HasMethodInput
		want bool
	}{
		{HasMethodInput{Method: "force_resize"}, true},
		{HasMethodInput{Type: "FloatingWindow", Method: "get_geometry"}, true},
		{HasMethodInput{Method: "teleport"}, false},
		{HasMethodInput{Type: "Camera", Method: "force_resize"}, false},
	}
	for _, tt := range tests {
		_, out, err := s.handleHasMethod(ctx, nil, tt.in)
		if err != nil {
			t.Fatalf("%+v: %v", tt.in, err)
		}
		if out.Available != tt.want {
			t.Errorf("has_method(%+v) = %v, want %v", tt.in, out.Available, tt.want)
		}
	}

	if _, _, err := s.handleHasMethod(ctx, nil, HasMethodInput{Method: " "}); err == nil {
		t.Fatal("expected error for empty method")
	}
}
