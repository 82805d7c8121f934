package capability

import (
	"encoding/json"
	"errors"
	"testing"
)

type counter struct{ n int }

func addMethod(recv any, args json.RawMessage) (any, error) {
	c, ok := recv.(*counter)
	if !ok {
		return nil, ErrBadReceiver
	}
	in, err := Decode[struct {
		By int `json:"by"`
	}](args)
	if err != nil {
		return nil, err
	}
	c.n += in.By
	return c.n, nil
}

func TestRegistry_AvailabilityFollowsRegistration(t *testing.T) {
	reg := NewRegistry()
	if reg.Has("Counter", "add") {
		t.Fatal("Has returned true before registration")
	}
	if _, err := reg.Call("Counter", "add", &counter{}, nil); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("Call before registration: err = %v", err)
	}

	if err := reg.Register("Counter", "add", "adds", addMethod); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Has("Counter", "add") {
		t.Fatal("Has returned false after registration")
	}
	if reg.Has("Other", "add") || reg.Has("Counter", "sub") {
		t.Fatal("Has matched an unregistered pair")
	}

	c := &counter{}
	out, err := reg.Call("Counter", "add", c, json.RawMessage(`{"by":3}`))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out.(int) != 3 || c.n != 3 {
		t.Fatalf("Call result %v, counter %d", out, c.n)
	}
}

func TestRegistry_SealRejectsRegistration(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("Counter", "add", "", addMethod); err != nil {
		t.Fatalf("Register: %v", err)
	}
	reg.Seal()
	if !reg.Sealed() {
		t.Fatal("Sealed() = false after Seal")
	}

	err := reg.Register("Counter", "sub", "", addMethod)
	if !errors.Is(err, ErrSealed) {
		t.Fatalf("Register after seal: err = %v, want ErrSealed", err)
	}
	if reg.Has("Counter", "sub") {
		t.Fatal("sealed registry accepted a method")
	}
	if !reg.Has("Counter", "add") {
		t.Fatal("seal dropped an existing method")
	}
}

func TestRegistry_DuplicateAndInvalid(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("Counter", "add", "", addMethod)
	if err := reg.Register("Counter", "add", "", addMethod); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: err = %v", err)
	}
	if err := reg.Register("", "add", "", addMethod); err == nil {
		t.Fatal("expected error for empty type")
	}
	if err := reg.Register("Counter", "nil", "", nil); err == nil {
		t.Fatal("expected error for nil function")
	}
}

func TestRegistry_MethodsAndTypesSorted(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register("B", "zeta", "z", addMethod)
	_ = reg.Register("B", "alpha", "a", addMethod)
	_ = reg.Register("A", "only", "o", addMethod)

	types := reg.Types()
	if len(types) != 2 || types[0] != "A" || types[1] != "B" {
		t.Fatalf("Types = %v", types)
	}
	methods := reg.Methods("B")
	if len(methods) != 2 || methods[0].Name != "alpha" || methods[1].Name != "zeta" {
		t.Fatalf("Methods = %+v", methods)
	}
	if methods[0].Type != "B" || methods[0].Description != "a" {
		t.Fatalf("Info = %+v", methods[0])
	}
}

func TestDecode(t *testing.T) {
	type args struct {
		Width int `json:"width"`
	}
	got, err := Decode[args](nil)
	if err != nil || got.Width != 0 {
		t.Fatalf("Decode(nil) = %+v, %v", got, err)
	}
	got, err = Decode[args](json.RawMessage(`{"width":5}`))
	if err != nil || got.Width != 5 {
		t.Fatalf("Decode = %+v, %v", got, err)
	}
	if _, err := Decode[args](json.RawMessage(`{"width":"x"}`)); !errors.Is(err, ErrBadArguments) {
		t.Fatalf("bad input: err = %v", err)
	}
}
