package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Size is a window extent in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both components are strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses "WIDTHxHEIGHT" (e.g. 1920x1080).
func ParseSize(s string) (Size, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return Size{}, fmt.Errorf("invalid size %q: expected WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	return Size{Width: w, Height: h}, nil
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size returns the extent of r.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// SizeHints are the min/max bounds published to the window manager.
// A zero Size means the bound is unset.
type SizeHints struct {
	Min Size
	Max Size
}

// WindowSpec describes a floating window to create.
type WindowSpec struct {
	Title string
	X     int
	Y     int
	Size  Size
}

// ConfigureFunc receives geometry acknowledged by the display server.
// It may be invoked from a goroutine other than the caller's.
type ConfigureFunc func(id WindowID, size Size)

// DisplayServer abstracts the host windowing system. CommitSize is the only
// call that changes native geometry, and it applies the request as-is: no
// constraint or content reconciliation happens below this interface.
type DisplayServer interface {
	Displays() ([]Display, error)
	CreateWindow(spec WindowSpec) (WindowID, error)
	DestroyWindow(id WindowID) error
	SetSizeHints(id WindowID, hints SizeHints) error
	// CommitSize requests size and returns the size the server will apply,
	// which can be smaller when it clamps to screen bounds.
	CommitSize(id WindowID, size Size) (Size, error)
	// QuerySize returns the last size the server acknowledged. It can lag
	// behind CommitSize until the next processed event.
	QuerySize(id WindowID) (Size, error)
	OnConfigure(fn ConfigureFunc)
}

// ClampToDisplays limits size so that a window at (x, y) fits the usable
// area of the display containing that point. Sizes outside every display are
// returned unchanged.
func ClampToDisplays(displays []Display, x, y int, size Size) Size {
	for _, d := range displays {
		u := d.Usable
		if u.Width <= 0 || u.Height <= 0 {
			u = d.Bounds
		}
		if !containsPoint(u, x, y) {
			continue
		}
		out := size
		if maxW := u.X + u.Width - x; out.Width > maxW {
			out.Width = maxW
		}
		if maxH := u.Y + u.Height - y; out.Height > maxH {
			out.Height = maxH
		}
		if out.Width < 1 {
			out.Width = 1
		}
		if out.Height < 1 {
			out.Height = 1
		}
		return out
	}
	return size
}

func containsPoint(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
