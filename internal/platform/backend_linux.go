//go:build linux

package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/floatwin/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend implements DisplayServer on top of an X11 connection.
type LinuxBackend struct {
	conn  *x11.Connection
	clamp bool

	mu       sync.Mutex
	acked    map[WindowID]Size
	onConfig ConfigureFunc
}

var _ DisplayServer = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11
// connection. When clamp is set, committed sizes are limited to the usable
// area of the monitor holding the window.
func NewLinuxBackend(conn *x11.Connection, clamp bool) *LinuxBackend {
	return &LinuxBackend{
		conn:  conn,
		clamp: clamp,
		acked: make(map[WindowID]Size),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string, clamp bool) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, clamp), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.StopEventLoop()
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking). ConfigureNotify events are
// delivered to the OnConfigure callback from this goroutine.
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil exposes the X connection for global hotkeys.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// RootWindow returns the root window hotkeys are grabbed on.
func (b *LinuxBackend) RootWindow() xproto.Window {
	return b.conn.Root
}

// OnConfigure installs the callback for acknowledged geometry changes.
func (b *LinuxBackend) OnConfigure(fn ConfigureFunc) {
	b.mu.Lock()
	b.onConfig = fn
	b.mu.Unlock()
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	screens, err := conn.Screens()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(screens))
	for _, s := range screens {
		displays = append(displays, Display{
			ID:     s.ID,
			Name:   s.Name,
			Bounds: Rect(s.Bounds),
			Usable: Rect(s.Usable),
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// CreateWindow creates and maps a floating window.
func (b *LinuxBackend) CreateWindow(spec WindowSpec) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	if !spec.Size.Valid() {
		return 0, fmt.Errorf("invalid window size %s", spec.Size)
	}
	spec.Size = capX11Size(spec.Size)

	xid, err := conn.CreateFloatingWindow(spec.Title, spec.X, spec.Y, spec.Size.Width, spec.Size.Height)
	if err != nil {
		return 0, err
	}
	id := WindowID(xid)

	b.mu.Lock()
	b.acked[id] = spec.Size
	b.mu.Unlock()

	conn.OnConfigureNotify(xid, func(width, height int) {
		b.acknowledge(id, Size{Width: width, Height: height})
	})
	return id, nil
}

// DestroyWindow destroys a window created by CreateWindow.
func (b *LinuxBackend) DestroyWindow(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	conn.DestroyWindow(xproto.Window(id))

	b.mu.Lock()
	delete(b.acked, id)
	b.mu.Unlock()
	return nil
}

// SetSizeHints publishes min/max bounds as WM_NORMAL_HINTS.
func (b *LinuxBackend) SetSizeHints(id WindowID, hints SizeHints) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetSizeBounds(
		xproto.Window(id),
		hints.Min.Width, hints.Min.Height,
		hints.Max.Width, hints.Max.Height,
	)
}

// CommitSize sends a direct ConfigureWindow for size. The returned size is
// the request after monitor clamping, which is what the server will apply.
func (b *LinuxBackend) CommitSize(id WindowID, size Size) (Size, error) {
	conn, err := b.connection()
	if err != nil {
		return Size{}, err
	}

	actual := size
	if b.clamp {
		x, y, _, _, err := conn.WindowGeometry(xproto.Window(id))
		if err != nil {
			return Size{}, fmt.Errorf("failed to read window %d position: %w", id, err)
		}
		displays, err := b.Displays()
		if err == nil {
			actual = ClampToDisplays(displays, x, y, size)
		}
	}

	actual = capX11Size(actual)
	if err := conn.ResizeWindow(xproto.Window(id), actual.Width, actual.Height); err != nil {
		return Size{}, fmt.Errorf("failed to resize window %d: %w", id, err)
	}
	return actual, nil
}

// QuerySize returns the size from the most recent ConfigureNotify, falling
// back to a geometry round trip for windows that have not reported one.
func (b *LinuxBackend) QuerySize(id WindowID) (Size, error) {
	b.mu.Lock()
	size, ok := b.acked[id]
	b.mu.Unlock()
	if ok {
		return size, nil
	}

	conn, err := b.connection()
	if err != nil {
		return Size{}, err
	}
	_, _, w, h, err := conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w, Height: h}, nil
}

func (b *LinuxBackend) acknowledge(id WindowID, size Size) {
	b.mu.Lock()
	if _, tracked := b.acked[id]; !tracked {
		b.mu.Unlock()
		return
	}
	b.acked[id] = size
	fn := b.onConfig
	b.mu.Unlock()

	if fn != nil {
		fn(id, size)
	}
}

// maxX11Dimension is the largest width or height the core protocol carries
// without truncation; geometry fields are 16 bits and coordinates signed.
const maxX11Dimension = 32767

// capX11Size limits size to what a ConfigureWindow request can express.
// Without clamp_to_monitor, or off every display, nothing else bounds it.
func capX11Size(size Size) Size {
	size.Width = min(size.Width, maxX11Dimension)
	size.Height = min(size.Height, maxX11Dimension)
	return size
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
