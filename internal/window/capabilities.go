package window

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/platform"
)

// TypeName is the externally visible type of a Wrapper.
const TypeName = "FloatingWindow"

// Exposed method names.
const (
	MethodForceResize = "force_resize"
	MethodResize      = "resize"
	MethodEnable      = "enable"
	MethodDisable     = "disable"
	MethodIsFloating  = "is_floating"
	MethodGetGeometry = "get_geometry"
)

// SizeArgs are the arguments of force_resize and resize.
type SizeArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegisterCapabilities exposes the Wrapper methods on reg under TypeName.
// Call it once during startup, before reg is sealed.
func RegisterCapabilities(reg *capability.Registry) error {
	methods := []struct {
		name string
		doc  string
		fn   capability.Method
	}{
		{MethodForceResize, "Resize the floating window, overriding size bounds and auto-size.", callForceResize},
		{MethodResize, "Resize the floating window within its size bounds; suppressed while auto-size is on.", callResize},
		{MethodEnable, "Detach the content into a floating window.", callEnable},
		{MethodDisable, "Destroy the floating window and reattach the content.", callDisable},
		{MethodIsFloating, "Report whether the floating window is live.", callIsFloating},
		{MethodGetGeometry, "Return the last authoritative window size.", callGetGeometry},
	}
	for _, m := range methods {
		if err := reg.Register(TypeName, m.name, m.doc, m.fn); err != nil {
			return err
		}
	}
	return nil
}

func receiver(recv any) (*Wrapper, error) {
	w, ok := recv.(*Wrapper)
	if !ok || w == nil {
		return nil, fmt.Errorf("%w: want *window.Wrapper, got %T", capability.ErrBadReceiver, recv)
	}
	return w, nil
}

func sizeArg(args json.RawMessage) (platform.Size, error) {
	in, err := capability.Decode[SizeArgs](args)
	if err != nil {
		return platform.Size{}, err
	}
	return platform.Size{Width: in.Width, Height: in.Height}, nil
}

func callForceResize(recv any, args json.RawMessage) (any, error) {
	w, err := receiver(recv)
	if err != nil {
		return nil, err
	}
	size, err := sizeArg(args)
	if err != nil {
		return nil, err
	}
	return w.ForceResize(size)
}

func callResize(recv any, args json.RawMessage) (any, error) {
	w, err := receiver(recv)
	if err != nil {
		return nil, err
	}
	size, err := sizeArg(args)
	if err != nil {
		return nil, err
	}
	return w.Resize(size)
}

func callEnable(recv any, _ json.RawMessage) (any, error) {
	w, err := receiver(recv)
	if err != nil {
		return nil, err
	}
	if err := w.Enable(); err != nil {
		return nil, err
	}
	return w.Status(), nil
}

func callDisable(recv any, _ json.RawMessage) (any, error) {
	w, err := receiver(recv)
	if err != nil {
		return nil, err
	}
	if err := w.Disable(); err != nil {
		return nil, err
	}
	return w.Status(), nil
}

func callIsFloating(recv any, _ json.RawMessage) (any, error) {
	w, err := receiver(recv)
	if err != nil {
		return nil, err
	}
	return w.IsFloating(), nil
}

func callGetGeometry(recv any, _ json.RawMessage) (any, error) {
	w, err := receiver(recv)
	if err != nil {
		return nil, err
	}
	return w.Geometry(), nil
}
