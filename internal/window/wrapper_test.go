package window

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/event"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

type fixedContent struct{ size platform.Size }

func (c *fixedContent) PreferredSize() platform.Size { return c.size }

func newWrapper(t *testing.T, opts Options, displays ...platform.Display) (*Wrapper, *platform.HeadlessServer, *event.Bus) {
	t.Helper()
	display := platform.NewHeadlessServer(displays...)
	bus := event.NewBus(zerolog.Nop())
	ctrl := resize.NewController(display, bus, zerolog.Nop())
	return New(display, ctrl, bus, opts, zerolog.Nop()), display, bus
}

func TestWrapper_Scenario(t *testing.T) {
	w, display, _ := newWrapper(t, DefaultOptions())

	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !w.IsFloating() {
		t.Fatal("expected floating after Enable")
	}

	if _, err := w.ForceResize(platform.Size{Width: 1920, Height: 1080}); err != nil {
		t.Fatalf("ForceResize 1920x1080: %v", err)
	}
	if got := w.Geometry(); got != (platform.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("Geometry = %v, want 1920x1080", got)
	}
	if w.Constraints().AutoSize() {
		t.Fatal("auto-size still on after force resize")
	}

	if _, err := w.ForceResize(platform.Size{Width: 800, Height: 600}); err != nil {
		t.Fatalf("ForceResize 800x600: %v", err)
	}
	if got := w.Geometry(); got != (platform.Size{Width: 800, Height: 600}) {
		t.Fatalf("Geometry = %v, want 800x600", got)
	}

	if err := w.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if w.State() != StateAttached {
		t.Fatalf("State = %v, want attached", w.State())
	}
	commits := display.Commits()

	_, err := w.ForceResize(platform.Size{Width: 100, Height: 100})
	if !errors.Is(err, resize.ErrWindowUnavailable) {
		t.Fatalf("ForceResize after disable: err = %v, want ErrWindowUnavailable", err)
	}
	if got := w.Geometry(); got != (platform.Size{Width: 800, Height: 600}) {
		t.Fatalf("Geometry after rejected resize = %v, want 800x600", got)
	}
	if display.Commits() != commits {
		t.Fatal("rejected resize reached the display server")
	}
	if display.WindowCount() != 0 {
		t.Fatalf("native window leaked: %d live", display.WindowCount())
	}
}

func TestWrapper_ForceResizeThenQueryAfterAck(t *testing.T) {
	w, display, _ := newWrapper(t, DefaultOptions())
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	want := platform.Size{Width: 1280, Height: 720}
	if _, err := w.ForceResize(want); err != nil {
		t.Fatalf("ForceResize: %v", err)
	}

	id := w.Handle().ID
	sync, _ := w.SyncState()
	if !sync.Pending() {
		t.Fatal("expected commit to be pending before acknowledgement")
	}

	display.OnConfigure(w.Acknowledge)
	display.Flush()

	if got, _ := display.QuerySize(id); got != want {
		t.Fatalf("QuerySize = %v, want %v", got, want)
	}
	sync, _ = w.SyncState()
	if sync.Pending() || sync.Confirmed != want {
		t.Fatalf("sync state after ack = %+v", sync)
	}
}

func TestWrapper_RejectsWhenNotFloating(t *testing.T) {
	w, display, _ := newWrapper(t, DefaultOptions())

	for _, state := range []string{"disabled", "closed"} {
		if state == "closed" {
			if err := w.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
		}
		if _, err := w.ForceResize(platform.Size{Width: 10, Height: 10}); !errors.Is(err, resize.ErrWindowUnavailable) {
			t.Fatalf("%s: ForceResize err = %v", state, err)
		}
		if _, err := w.Resize(platform.Size{Width: 10, Height: 10}); !errors.Is(err, resize.ErrWindowUnavailable) {
			t.Fatalf("%s: Resize err = %v", state, err)
		}
	}
	if w.Geometry() != DefaultOptions().DefaultSize {
		t.Fatalf("Geometry = %v", w.Geometry())
	}
	if display.Commits() != 0 {
		t.Fatal("display saw commits")
	}
}

func TestWrapper_InvalidSizeLeavesState(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSize = platform.Size{Width: 1600, Height: 900}
	w, _, _ := newWrapper(t, opts)
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	before := w.Status()

	if _, err := w.ForceResize(platform.Size{Width: 0, Height: 600}); !errors.Is(err, resize.ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
	after := w.Status()
	if after.Geometry != before.Geometry || !after.Constraints.AutoSize || after.Constraints.Max == nil {
		t.Fatalf("state changed: before %+v after %+v", before, after)
	}
}

func TestWrapper_EnableUsesContentAndBounds(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSize = platform.Size{Width: 1000, Height: 1000}
	w, display, _ := newWrapper(t, opts)
	w.SetContent(&fixedContent{size: platform.Size{Width: 1200, Height: 700}})

	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if got := w.Geometry(); got != (platform.Size{Width: 1000, Height: 700}) {
		t.Fatalf("initial geometry = %v, want content size fitted to max", got)
	}
	hints, _ := display.Hints(w.Handle().ID)
	if hints.Max != opts.MaxSize {
		t.Fatalf("published hints = %+v", hints)
	}
}

func TestWrapper_EnableIsIdempotent(t *testing.T) {
	w, display, _ := newWrapper(t, DefaultOptions())
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	id := w.Handle().ID
	if err := w.Enable(); err != nil {
		t.Fatalf("second Enable: %v", err)
	}
	if w.Handle().ID != id || display.WindowCount() != 1 {
		t.Fatal("second Enable created another window")
	}
	if err := w.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if err := w.Disable(); err != nil {
		t.Fatalf("second Disable: %v", err)
	}
	if err := w.Enable(); err != nil {
		t.Fatalf("re-Enable from attached: %v", err)
	}
	if !w.Constraints().AutoSize() {
		t.Fatal("re-enabled window should get default constraints")
	}
}

func TestWrapper_RefitStopsAfterForceResize(t *testing.T) {
	content := &fixedContent{size: platform.Size{Width: 640, Height: 480}}
	w, _, _ := newWrapper(t, DefaultOptions())
	w.SetContent(content)
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	content.size = platform.Size{Width: 800, Height: 450}
	changed, err := w.Refit()
	if err != nil || !changed {
		t.Fatalf("Refit under auto-size = %v, %v", changed, err)
	}
	if w.Geometry() != content.size {
		t.Fatalf("Geometry = %v, want content size", w.Geometry())
	}

	if _, err := w.ForceResize(platform.Size{Width: 1920, Height: 1080}); err != nil {
		t.Fatalf("ForceResize: %v", err)
	}
	content.size = platform.Size{Width: 320, Height: 240}
	changed, err = w.Refit()
	if err != nil || changed {
		t.Fatalf("Refit after force resize = %v, %v; want no-op", changed, err)
	}
	if w.Geometry() != (platform.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("content re-fit overwrote forced size: %v", w.Geometry())
	}
}

func TestWrapper_NormalResizeSuppressedByDefault(t *testing.T) {
	w, _, _ := newWrapper(t, DefaultOptions())
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	res, err := w.Resize(platform.Size{Width: 1920, Height: 1080})
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if res.Applied || res.Reason != resize.ReasonAutoSize {
		t.Fatalf("Resize = %+v, want suppressed by auto-size", res)
	}
	if w.Geometry() != DefaultOptions().DefaultSize {
		t.Fatalf("Geometry = %v", w.Geometry())
	}
}

func TestWrapper_AcknowledgeIgnoresStaleWindow(t *testing.T) {
	w, _, bus := newWrapper(t, DefaultOptions())
	synced := 0
	bus.Subscribe(event.TypeGeometrySynced, func(event.Event) { synced++ })

	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	id := w.Handle().ID
	w.Acknowledge(id+100, platform.Size{Width: 1, Height: 1})
	if err := w.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	w.Acknowledge(id, platform.Size{Width: 1, Height: 1})
	if synced != 0 {
		t.Fatalf("stale acknowledgements published %d events", synced)
	}
}

func TestWrapper_SyncPollsDisplay(t *testing.T) {
	w, display, _ := newWrapper(t, DefaultOptions())
	if _, err := w.Sync(); !errors.Is(err, resize.ErrWindowUnavailable) {
		t.Fatalf("Sync when disabled: err = %v", err)
	}
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if _, err := w.ForceResize(platform.Size{Width: 700, Height: 500}); err != nil {
		t.Fatalf("ForceResize: %v", err)
	}
	display.Flush()

	sync, err := w.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if sync.Pending() || sync.Confirmed != (platform.Size{Width: 700, Height: 500}) {
		t.Fatalf("Sync = %+v", sync)
	}
}

func TestWrapper_SyncSettlesWhenCommitKeptOldSize(t *testing.T) {
	w, _, _ := newWrapper(t, DefaultOptions())
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	before := w.Geometry()
	if _, err := w.ForceResize(platform.Size{Width: 700, Height: 500}); err != nil {
		t.Fatalf("ForceResize: %v", err)
	}

	// Without a flush the display still reports the previous size.
	sync, err := w.Sync()
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if sync.Pending() || !sync.Adjusted() || sync.Confirmed != before {
		t.Fatalf("Sync = %+v, want settled on %v", sync, before)
	}
}

func TestWrapper_Status(t *testing.T) {
	w, _, _ := newWrapper(t, DefaultOptions())
	st := w.Status()
	if st.State != "disabled" || st.Floating || st.Constraints != nil || st.Sync != nil {
		t.Fatalf("disabled status = %+v", st)
	}
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	st = w.Status()
	if st.State != "floating" || !st.Floating || st.WindowID == 0 || st.Instance == "" {
		t.Fatalf("floating status = %+v", st)
	}
}

func TestWrapper_Toggle(t *testing.T) {
	w, display, _ := newWrapper(t, DefaultOptions())
	if err := w.Toggle(); err != nil || !w.IsFloating() {
		t.Fatalf("first Toggle: floating=%v err=%v", w.IsFloating(), err)
	}
	if err := w.Toggle(); err != nil || w.IsFloating() {
		t.Fatalf("second Toggle: floating=%v err=%v", w.IsFloating(), err)
	}
	if w.State() != StateAttached || display.WindowCount() != 0 {
		t.Fatalf("state = %v, windows = %d", w.State(), display.WindowCount())
	}
}

func TestWrapper_RefitClampedContentCommitsOnce(t *testing.T) {
	screen := platform.Rect{Width: 1920, Height: 1080}
	content := &fixedContent{size: platform.Size{Width: 4000, Height: 3000}}
	w, display, _ := newWrapper(t, DefaultOptions(), platform.Display{Bounds: screen, Usable: screen})
	w.SetContent(content)
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	clamped := platform.Size{Width: 1856, Height: 1016}
	if w.Geometry() != clamped {
		t.Fatalf("Geometry = %v, want %v", w.Geometry(), clamped)
	}

	for tick := 0; tick < 5; tick++ {
		if changed, err := w.Refit(); err != nil || changed {
			t.Fatalf("tick %d: Refit = %v, %v; content did not change", tick, changed, err)
		}
	}
	if display.Commits() != 0 {
		t.Fatalf("unchanged content produced %d commits", display.Commits())
	}

	content.size = platform.Size{Width: 1000, Height: 700}
	for tick := 0; tick < 3; tick++ {
		_, _ = w.Refit()
	}
	if display.Commits() != 1 || w.Geometry() != content.size {
		t.Fatalf("after content change: commits=%d geometry=%v", display.Commits(), w.Geometry())
	}

	content.size = platform.Size{Width: 4000, Height: 3000}
	for tick := 0; tick < 3; tick++ {
		_, _ = w.Refit()
	}
	if display.Commits() != 2 || w.Geometry() != clamped {
		t.Fatalf("after growing past the screen: commits=%d geometry=%v", display.Commits(), w.Geometry())
	}
	if sync, _ := w.SyncState(); sync.Pending() {
		t.Fatalf("clamped refit left sync pending: %+v", sync)
	}
}

func TestWrapper_AdjustedAcknowledgementSettles(t *testing.T) {
	w, _, bus := newWrapper(t, DefaultOptions())
	var synced []event.GeometrySynced
	bus.Subscribe(event.TypeGeometrySynced, func(e event.Event) {
		synced = append(synced, e.(event.GeometrySynced))
	})
	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if _, err := w.ForceResize(platform.Size{Width: 1920, Height: 1080}); err != nil {
		t.Fatalf("ForceResize: %v", err)
	}

	id := w.Handle().ID
	adjusted := platform.Size{Width: 1900, Height: 1050}
	w.Acknowledge(id, adjusted)
	w.Acknowledge(id, adjusted)

	sync, _ := w.SyncState()
	if sync.Pending() || !sync.Adjusted() || sync.Confirmed != adjusted {
		t.Fatalf("sync after adjusted ack = %+v pending=%v adjusted=%v", sync, sync.Pending(), sync.Adjusted())
	}
	if len(synced) != 1 || !synced[0].Adjusted {
		t.Fatalf("synced events = %+v, want one adjusted event", synced)
	}

	// A later drag back to the committed size is no longer an adjustment.
	w.Acknowledge(id, platform.Size{Width: 1920, Height: 1080})
	if sync, _ = w.SyncState(); sync.Pending() || sync.Adjusted() {
		t.Fatalf("sync after matching ack = %+v", sync)
	}
}

func TestReportedContent(t *testing.T) {
	var c ReportedContent
	if c.PreferredSize().Valid() {
		t.Fatal("zero ReportedContent should report no preference")
	}
	if err := c.Report(platform.Size{Width: 0, Height: 10}); !errors.Is(err, resize.ErrInvalidSize) {
		t.Fatalf("Report(0x10) err = %v", err)
	}
	if err := c.Report(platform.Size{Width: 640, Height: 480}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if c.PreferredSize() != (platform.Size{Width: 640, Height: 480}) {
		t.Fatalf("PreferredSize = %v", c.PreferredSize())
	}
}
