package window

import (
	"github.com/1broseidon/floatwin/internal/constraint"
	"github.com/1broseidon/floatwin/internal/platform"
)

// Status is a JSON-friendly snapshot of a Wrapper.
type Status struct {
	State       string               `json:"state"`
	Floating    bool                 `json:"floating"`
	WindowID    uint32               `json:"window_id,omitempty"`
	Instance    string               `json:"instance,omitempty"`
	Geometry    platform.Size        `json:"geometry"`
	Constraints *constraint.Snapshot `json:"constraints,omitempty"`
	Sync        *SyncState           `json:"sync,omitempty"`
}

// Status returns the current snapshot.
func (w *Wrapper) Status() Status {
	st := Status{
		State:    w.state.String(),
		Floating: w.IsFloating(),
		Geometry: w.geometry,
	}
	if !st.Floating {
		return st
	}

	snap := w.constraints.Snapshot()
	sync := w.handle.sync
	st.WindowID = uint32(w.handle.ID)
	st.Instance = w.handle.Instance.String()
	st.Constraints = &snap
	st.Sync = &sync
	return st
}
