package platform

import (
	"fmt"
	"sync"
)

type headlessWindow struct {
	spec      WindowSpec
	confirmed Size
	pending   *Size
	hints     SizeHints
}

// HeadlessServer is an in-process DisplayServer. Commits are clamped to the
// configured displays and only become visible through QuerySize after Flush,
// mirroring a server that acknowledges configure requests on a later event.
type HeadlessServer struct {
	mu       sync.Mutex
	displays []Display
	windows  map[WindowID]*headlessWindow
	nextID   WindowID
	onConfig ConfigureFunc
	commits  int
}

var _ DisplayServer = (*HeadlessServer)(nil)

// NewHeadlessServer creates a server with the given displays. With no
// displays nothing is clamped.
func NewHeadlessServer(displays ...Display) *HeadlessServer {
	return &HeadlessServer{
		displays: displays,
		windows:  make(map[WindowID]*headlessWindow),
		nextID:   1,
	}
}

// Displays returns the configured displays.
func (h *HeadlessServer) Displays() ([]Display, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Display, len(h.displays))
	copy(out, h.displays)
	return out, nil
}

// CreateWindow registers a window; its initial size is confirmed at once.
func (h *HeadlessServer) CreateWindow(spec WindowSpec) (WindowID, error) {
	if !spec.Size.Valid() {
		return 0, fmt.Errorf("invalid window size %s", spec.Size)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.windows[id] = &headlessWindow{
		spec:      spec,
		confirmed: ClampToDisplays(h.displays, spec.X, spec.Y, spec.Size),
	}
	return id, nil
}

// DestroyWindow forgets a window. Pending acknowledgements are dropped.
func (h *HeadlessServer) DestroyWindow(id WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.windows[id]; !ok {
		return fmt.Errorf("window %d not found", id)
	}
	delete(h.windows, id)
	return nil
}

// SetSizeHints records hints. The headless server does not enforce them,
// the same as a window manager that ignores WM_NORMAL_HINTS for direct
// configure requests.
func (h *HeadlessServer) SetSizeHints(id WindowID, hints SizeHints) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	if !ok {
		return fmt.Errorf("window %d not found", id)
	}
	w.hints = hints
	return nil
}

// CommitSize queues size for acknowledgement and returns the clamped size.
func (h *HeadlessServer) CommitSize(id WindowID, size Size) (Size, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	if !ok {
		return Size{}, fmt.Errorf("window %d not found", id)
	}
	actual := ClampToDisplays(h.displays, w.spec.X, w.spec.Y, size)
	w.pending = &actual
	h.commits++
	return actual, nil
}

// QuerySize returns the last acknowledged size.
func (h *HeadlessServer) QuerySize(id WindowID) (Size, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	if !ok {
		return Size{}, fmt.Errorf("window %d not found", id)
	}
	return w.confirmed, nil
}

// OnConfigure installs the acknowledgement callback.
func (h *HeadlessServer) OnConfigure(fn ConfigureFunc) {
	h.mu.Lock()
	h.onConfig = fn
	h.mu.Unlock()
}

// Flush acknowledges every pending commit, invoking the OnConfigure callback
// for each, and returns how many were acknowledged.
func (h *HeadlessServer) Flush() int {
	type ack struct {
		id   WindowID
		size Size
	}

	h.mu.Lock()
	var acks []ack
	for id, w := range h.windows {
		if w.pending == nil {
			continue
		}
		w.confirmed = *w.pending
		w.pending = nil
		acks = append(acks, ack{id: id, size: w.confirmed})
	}
	fn := h.onConfig
	h.mu.Unlock()

	if fn != nil {
		for _, a := range acks {
			fn(a.id, a.size)
		}
	}
	return len(acks)
}

// Hints returns the hints last published for id.
func (h *HeadlessServer) Hints(id WindowID) (SizeHints, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	if !ok {
		return SizeHints{}, false
	}
	return w.hints, true
}

// Commits returns the number of CommitSize calls served.
func (h *HeadlessServer) Commits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commits
}

// WindowCount returns the number of live windows.
func (h *HeadlessServer) WindowCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.windows)
}
