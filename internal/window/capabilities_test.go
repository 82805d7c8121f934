package window

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

func TestRegisterCapabilities_Discoverability(t *testing.T) {
	reg := capability.NewRegistry()
	if reg.Has(TypeName, MethodForceResize) {
		t.Fatal("force_resize visible before registration")
	}

	if err := RegisterCapabilities(reg); err != nil {
		t.Fatalf("RegisterCapabilities: %v", err)
	}
	reg.Seal()

	for _, m := range []string{MethodForceResize, MethodResize, MethodEnable, MethodDisable, MethodIsFloating, MethodGetGeometry} {
		if !reg.Has(TypeName, m) {
			t.Errorf("%s not registered", m)
		}
	}
	if err := RegisterCapabilities(reg); !errors.Is(err, capability.ErrSealed) {
		t.Fatalf("second registration: err = %v, want ErrSealed", err)
	}
}

func TestCapabilities_CallMatchesDirectSemantics(t *testing.T) {
	reg := capability.NewRegistry()
	if err := RegisterCapabilities(reg); err != nil {
		t.Fatalf("RegisterCapabilities: %v", err)
	}
	reg.Seal()

	viaRegistry, _, _ := newWrapper(t, DefaultOptions())
	direct, _, _ := newWrapper(t, DefaultOptions())

	if _, err := reg.Call(TypeName, MethodForceResize, viaRegistry, json.RawMessage(`{"width":800,"height":600}`)); !errors.Is(err, resize.ErrWindowUnavailable) {
		t.Fatalf("force_resize before enable: err = %v", err)
	}

	if _, err := reg.Call(TypeName, MethodEnable, viaRegistry, nil); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := direct.Enable(); err != nil {
		t.Fatalf("direct Enable: %v", err)
	}

	out, err := reg.Call(TypeName, MethodForceResize, viaRegistry, json.RawMessage(`{"width":800,"height":600}`))
	if err != nil {
		t.Fatalf("force_resize: %v", err)
	}
	res, ok := out.(resize.Result)
	if !ok {
		t.Fatalf("force_resize returned %T", out)
	}
	want, err := direct.ForceResize(platform.Size{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("direct ForceResize: %v", err)
	}
	if res != want {
		t.Fatalf("registry result %+v != direct result %+v", res, want)
	}
	if viaRegistry.Status().Constraints.AutoSize != direct.Status().Constraints.AutoSize {
		t.Fatal("constraint state differs between registry and direct call")
	}

	floating, err := reg.Call(TypeName, MethodIsFloating, viaRegistry, nil)
	if err != nil || floating != true {
		t.Fatalf("is_floating = %v, %v", floating, err)
	}
	geom, err := reg.Call(TypeName, MethodGetGeometry, viaRegistry, nil)
	if err != nil || geom != (platform.Size{Width: 800, Height: 600}) {
		t.Fatalf("get_geometry = %v, %v", geom, err)
	}

	if _, err := reg.Call(TypeName, MethodForceResize, viaRegistry, json.RawMessage(`{"width":-1,"height":600}`)); !errors.Is(err, resize.ErrInvalidSize) {
		t.Fatalf("negative width: err = %v", err)
	}
	if _, err := reg.Call(TypeName, MethodDisable, viaRegistry, nil); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := reg.Call(TypeName, MethodForceResize, viaRegistry, json.RawMessage(`{"width":100,"height":100}`)); !errors.Is(err, resize.ErrWindowUnavailable) {
		t.Fatalf("force_resize after disable: err = %v", err)
	}
}

func TestCapabilities_BadReceiver(t *testing.T) {
	reg := capability.NewRegistry()
	_ = RegisterCapabilities(reg)

	_, err := reg.Call(TypeName, MethodGetGeometry, "not a window", nil)
	if !errors.Is(err, capability.ErrBadReceiver) {
		t.Fatalf("err = %v, want ErrBadReceiver", err)
	}
	var nilWrapper *Wrapper
	if _, err := reg.Call(TypeName, MethodIsFloating, nilWrapper, nil); !errors.Is(err, capability.ErrBadReceiver) {
		t.Fatalf("nil wrapper: err = %v", err)
	}
}
