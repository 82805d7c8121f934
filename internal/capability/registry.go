// Package capability is the explicit method table external automation uses
// to discover and invoke operations on exposed object types.
//
// A Registry is populated once during startup and then sealed. Whether an
// operation is available depends only on whether it was registered, never on
// inspecting the receiver at runtime.
package capability

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrSealed        = errors.New("capability registry is sealed")
	ErrDuplicate     = errors.New("capability already registered")
	ErrNotRegistered = errors.New("capability not registered")
	ErrBadReceiver   = errors.New("receiver does not match capability type")
	ErrBadArguments  = errors.New("invalid capability arguments")
)

// Method is a registered operation. recv is the object the call targets and
// args its JSON-encoded arguments (possibly empty).
type Method func(recv any, args json.RawMessage) (any, error)

// Info describes a registered method.
type Info struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type entry struct {
	info Info
	fn   Method
}

// Registry maps externally visible type names to their methods.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]map[string]entry
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]map[string]entry)}
}

// Register adds method to typeName. It fails after Seal and on duplicates.
func (r *Registry) Register(typeName, method, description string, fn Method) error {
	if typeName == "" || method == "" || fn == nil {
		return fmt.Errorf("register %s.%s: type, method and function are required", typeName, method)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("register %s.%s: %w", typeName, method, ErrSealed)
	}
	methods, ok := r.types[typeName]
	if !ok {
		methods = make(map[string]entry)
		r.types[typeName] = methods
	}
	if _, exists := methods[method]; exists {
		return fmt.Errorf("register %s.%s: %w", typeName, method, ErrDuplicate)
	}
	methods[method] = entry{
		info: Info{Type: typeName, Name: method, Description: description},
		fn:   fn,
	}
	return nil
}

// Seal makes the registry immutable.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Has reports whether typeName exposes method.
func (r *Registry) Has(typeName, method string) bool {
	_, ok := r.lookup(typeName, method)
	return ok
}

// Call invokes a registered method on recv.
func (r *Registry) Call(typeName, method string, recv any, args json.RawMessage) (any, error) {
	e, ok := r.lookup(typeName, method)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", typeName, method, ErrNotRegistered)
	}
	return e.fn(recv, args)
}

// Methods lists the methods of typeName sorted by name.
func (r *Registry) Methods(typeName string) []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := r.types[typeName]
	out := make([]Info, 0, len(methods))
	for _, e := range methods {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Types lists the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) lookup(typeName, method string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[typeName][method]
	return e, ok
}

// Decode unmarshals args into T. Empty args decode to the zero value.
func Decode[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 || string(args) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return v, nil
}
