package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

type resizeCall struct {
	size  platform.Size
	force bool
}

type fakeClient struct {
	status    *ipc.StatusData
	statusErr error
	resizeErr error
	resizes   []resizeCall
	enabled   int
	disabled  int
}

func (f *fakeClient) Status() (*ipc.StatusData, error) { return f.status, f.statusErr }

func (f *fakeClient) Enable() (bool, error) {
	f.enabled++
	return true, nil
}

func (f *fakeClient) Disable() (bool, error) {
	f.disabled++
	return false, nil
}

func (f *fakeClient) Resize(size platform.Size, force bool) (*resize.Result, error) {
	f.resizes = append(f.resizes, resizeCall{size, force})
	if f.resizeErr != nil {
		return nil, f.resizeErr
	}
	return &resize.Result{Requested: size, Actual: size, Applied: true, Forced: force}, nil
}

var presets = []platform.Size{
	{Width: 1920, Height: 1080},
	{Width: 800, Height: 600},
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

// run feeds msg to m and executes the returned command once. Only use it for
// commands that do not wait on a timer.
func run(t *testing.T, m model, msg tea.Msg) (model, tea.Msg) {
	t.Helper()
	m, cmd := send(m, msg)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestModel_EnterForcesSelectedPreset(t *testing.T) {
	client := &fakeClient{}
	m := newModel(client, presets)
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, out := run(t, m, keyMsg("enter"))
	if len(client.resizes) != 1 || client.resizes[0] != (resizeCall{presets[0], true}) {
		t.Fatalf("resizes = %+v", client.resizes)
	}
	act, ok := out.(actionMsg)
	if !ok || act.err != nil || !strings.Contains(act.text, "1920x1080") {
		t.Fatalf("action = %#v", out)
	}

	m, _ = send(m, act)
	if m.message != act.text || m.msgIsErr {
		t.Fatalf("message = %q err=%v", m.message, m.msgIsErr)
	}
}

func TestModel_RUsesNormalResize(t *testing.T) {
	client := &fakeClient{}
	m := newModel(client, presets)
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = send(m, keyMsg("down"))
	run(t, m, keyMsg("r"))

	if len(client.resizes) != 1 || client.resizes[0] != (resizeCall{presets[1], false}) {
		t.Fatalf("resizes = %+v", client.resizes)
	}
}

func TestModel_CustomSize(t *testing.T) {
	client := &fakeClient{}
	m := newModel(client, presets)
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = send(m, keyMsg("c"))
	if !m.editing {
		t.Fatal("c did not open size input")
	}

	m.input.SetValue("bogus")
	m, _ = run(t, m, keyMsg("enter"))
	if !m.editing || !m.msgIsErr || len(client.resizes) != 0 {
		t.Fatalf("invalid size: editing=%v err=%v resizes=%v", m.editing, m.msgIsErr, client.resizes)
	}

	m.input.SetValue("1024x768")
	m, _ = run(t, m, keyMsg("enter"))
	if m.editing {
		t.Fatal("input still open after submit")
	}
	want := resizeCall{platform.Size{Width: 1024, Height: 768}, true}
	if len(client.resizes) != 1 || client.resizes[0] != want {
		t.Fatalf("resizes = %+v", client.resizes)
	}
}

func TestModel_ResizeErrorIsShown(t *testing.T) {
	client := &fakeClient{resizeErr: &ipc.DaemonError{Code: ipc.CodeWindowUnavailable, Message: "window unavailable"}}
	m := newModel(client, presets)
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, out := run(t, m, keyMsg("enter"))
	act := out.(actionMsg)
	if act.err == nil || !strings.Contains(act.err.Error(), "not floating") {
		t.Fatalf("action err = %v", act.err)
	}
	m, _ = send(m, act)
	if !m.msgIsErr {
		t.Fatal("error message not flagged")
	}
}

func TestModel_EnableDisable(t *testing.T) {
	client := &fakeClient{}
	m := newModel(client, presets)
	run(t, m, keyMsg("e"))
	run(t, m, keyMsg("d"))
	if client.enabled != 1 || client.disabled != 1 {
		t.Fatalf("enabled=%d disabled=%d", client.enabled, client.disabled)
	}
}

func TestModel_StatusMarksCurrentPreset(t *testing.T) {
	client := &fakeClient{}
	m := newModel(client, presets)
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	st := &ipc.StatusData{Backend: "headless", Window: window.Status{State: "floating", Floating: true, Geometry: presets[1]}}
	m, _ = send(m, statusMsg{status: st})
	if !m.connected {
		t.Fatal("not connected after status")
	}
	items := m.list.Items()
	if items[0].(presetItem).current || !items[1].(presetItem).current {
		t.Fatalf("current markers = %v, %v", items[0].(presetItem).current, items[1].(presetItem).current)
	}
	if view := m.View(); !strings.Contains(view, "800x600") || !strings.Contains(view, "headless") {
		t.Fatalf("view missing status:\n%s", view)
	}

	m, _ = send(m, statusMsg{err: errors.New("dial unix: no such file")})
	if m.connected {
		t.Fatal("still connected after status error")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(&fakeClient{}, presets)
	_, out := run(t, m, keyMsg("q"))
	if _, ok := out.(tea.QuitMsg); !ok {
		t.Fatalf("q produced %#v", out)
	}
}
