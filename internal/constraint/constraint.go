// Package constraint holds the size bounds and auto-size flag a floating
// window is laid out with.
package constraint

import (
	"errors"
	"fmt"

	"github.com/1broseidon/floatwin/internal/platform"
)

// ErrInvalidBound is returned when a bound is non-positive or would make
// min exceed max.
var ErrInvalidBound = errors.New("invalid size bound")

// Set is a window's constraint state. The zero value has no bounds and
// auto-size disabled; use New for the windowed-UI default.
type Set struct {
	min      platform.Size
	max      platform.Size
	hasMin   bool
	hasMax   bool
	autoSize bool
}

// New returns the default constraint set: no bounds, auto-size on.
func New() *Set {
	return &Set{autoSize: true}
}

// SetMin sets the minimum size.
func (s *Set) SetMin(size platform.Size) error {
	if !size.Valid() {
		return fmt.Errorf("%w: min %s must be positive", ErrInvalidBound, size)
	}
	if s.hasMax && (size.Width > s.max.Width || size.Height > s.max.Height) {
		return fmt.Errorf("%w: min %s exceeds max %s", ErrInvalidBound, size, s.max)
	}
	s.min = size
	s.hasMin = true
	return nil
}

// SetMax sets the maximum size.
func (s *Set) SetMax(size platform.Size) error {
	if !size.Valid() {
		return fmt.Errorf("%w: max %s must be positive", ErrInvalidBound, size)
	}
	if s.hasMin && (size.Width < s.min.Width || size.Height < s.min.Height) {
		return fmt.Errorf("%w: max %s is below min %s", ErrInvalidBound, size, s.min)
	}
	s.max = size
	s.hasMax = true
	return nil
}

// Clear unsets both bounds. Auto-size is untouched.
func (s *Set) Clear() {
	s.min = platform.Size{}
	s.max = platform.Size{}
	s.hasMin = false
	s.hasMax = false
}

// SetAutoSize turns content-driven sizing on or off.
func (s *Set) SetAutoSize(enabled bool) {
	s.autoSize = enabled
}

// AutoSize reports whether content-driven sizing is on.
func (s *Set) AutoSize() bool {
	return s.autoSize
}

// Min returns the minimum bound and whether it is set.
func (s *Set) Min() (platform.Size, bool) {
	return s.min, s.hasMin
}

// Max returns the maximum bound and whether it is set.
func (s *Set) Max() (platform.Size, bool) {
	return s.max, s.hasMax
}

// Unbounded reports whether neither bound is set.
func (s *Set) Unbounded() bool {
	return !s.hasMin && !s.hasMax
}

// IsSatisfied reports whether size lies within the set bounds.
func (s *Set) IsSatisfied(size platform.Size) bool {
	if s.hasMin && (size.Width < s.min.Width || size.Height < s.min.Height) {
		return false
	}
	if s.hasMax && (size.Width > s.max.Width || size.Height > s.max.Height) {
		return false
	}
	return true
}

// Fit clamps size into the set bounds.
func (s *Set) Fit(size platform.Size) platform.Size {
	if s.hasMin {
		size.Width = max(size.Width, s.min.Width)
		size.Height = max(size.Height, s.min.Height)
	}
	if s.hasMax {
		size.Width = min(size.Width, s.max.Width)
		size.Height = min(size.Height, s.max.Height)
	}
	return size
}

// Hints converts the bounds to display-server size hints.
func (s *Set) Hints() platform.SizeHints {
	var h platform.SizeHints
	if s.hasMin {
		h.Min = s.min
	}
	if s.hasMax {
		h.Max = s.max
	}
	return h
}

// Snapshot is a read-only copy of a Set, used for status reporting.
type Snapshot struct {
	Min      *platform.Size `json:"min,omitempty"`
	Max      *platform.Size `json:"max,omitempty"`
	AutoSize bool           `json:"auto_size"`
}

// Snapshot returns a copy of the current state.
func (s *Set) Snapshot() Snapshot {
	snap := Snapshot{AutoSize: s.autoSize}
	if s.hasMin {
		m := s.min
		snap.Min = &m
	}
	if s.hasMax {
		m := s.max
		snap.Max = &m
	}
	return snap
}
