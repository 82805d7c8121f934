package event

import (
	"time"

	"github.com/1broseidon/floatwin/internal/platform"
)

// Event is anything published on a Bus.
type Event interface {
	EventType() string
	Timestamp() time.Time
}

// Event type names.
const (
	TypeResizeCompleted = "window.resize_completed"
	TypeWindowEnabled   = "window.enabled"
	TypeWindowDisabled  = "window.disabled"
	TypeGeometrySynced  = "window.geometry_synced"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// ResizeCompleted is published after a resize was committed to the display
// server. Layout and viewport code rescale content to Actual.
type ResizeCompleted struct {
	baseEvent
	WindowID  platform.WindowID
	Requested platform.Size
	Actual    platform.Size
	Forced    bool
}

// NewResizeCompleted creates a ResizeCompleted event.
func NewResizeCompleted(id platform.WindowID, requested, actual platform.Size, forced bool) ResizeCompleted {
	return ResizeCompleted{
		baseEvent: newBaseEvent(TypeResizeCompleted),
		WindowID:  id,
		Requested: requested,
		Actual:    actual,
		Forced:    forced,
	}
}

// WindowEnabled is published when a floating window is created.
type WindowEnabled struct {
	baseEvent
	WindowID platform.WindowID
	Size     platform.Size
}

// NewWindowEnabled creates a WindowEnabled event.
func NewWindowEnabled(id platform.WindowID, size platform.Size) WindowEnabled {
	return WindowEnabled{baseEvent: newBaseEvent(TypeWindowEnabled), WindowID: id, Size: size}
}

// WindowDisabled is published after the floating window is destroyed.
type WindowDisabled struct {
	baseEvent
	WindowID platform.WindowID
}

// NewWindowDisabled creates a WindowDisabled event.
func NewWindowDisabled(id platform.WindowID) WindowDisabled {
	return WindowDisabled{baseEvent: newBaseEvent(TypeWindowDisabled), WindowID: id}
}

// GeometrySynced is published when the display server answers a commit.
// Adjusted is set when it settled on a different size than committed.
type GeometrySynced struct {
	baseEvent
	WindowID  platform.WindowID
	Confirmed platform.Size
	Adjusted  bool
}

// NewGeometrySynced creates a GeometrySynced event.
func NewGeometrySynced(id platform.WindowID, confirmed platform.Size, adjusted bool) GeometrySynced {
	return GeometrySynced{
		baseEvent: newBaseEvent(TypeGeometrySynced),
		WindowID:  id,
		Confirmed: confirmed,
		Adjusted:  adjusted,
	}
}
