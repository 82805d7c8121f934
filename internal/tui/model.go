package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

const refreshInterval = time.Second

// presetItem implements list.Item for the size picker.
type presetItem struct {
	size    platform.Size
	current bool
}

func (i presetItem) Title() string {
	if i.current {
		return "* " + i.size.String()
	}
	return "  " + i.size.String()
}

func (i presetItem) Description() string { return "" }
func (i presetItem) FilterValue() string { return i.size.String() }

// statusMsg carries a fresh daemon status.
type statusMsg struct {
	status *ipc.StatusData
	err    error
}

// actionMsg reports the outcome of an enable, disable or resize.
type actionMsg struct {
	text string
	err  error
}

type tickMsg struct{}

type clearMessageMsg struct{}

// model is the root bubbletea model for the dashboard.
type model struct {
	client Client

	list    list.Model
	input   textinput.Model
	editing bool

	status    *ipc.StatusData
	connected bool
	message   string
	msgIsErr  bool

	width  int
	height int
}

func newModel(client Client, presets []platform.Size) model {
	items := make([]list.Item, 0, len(presets))
	for _, p := range presets {
		items = append(items, presetItem{size: p})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Presets"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "1920x1080"
	ti.CharLimit = 11
	ti.Width = 12

	return model{client: client, list: l, input: ti}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetchStatus()
}

func (m model) fetchStatus() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		st, err := client.Status()
		return statusMsg{status: st, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - 4
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(24, listHeight)
		return m, nil

	case statusMsg:
		m.connected = msg.err == nil
		if msg.err == nil {
			m.status = msg.status
			m.markCurrent()
		}
		return m, tick()

	case tickMsg:
		return m, m.fetchStatus()

	case actionMsg:
		m.message = msg.text
		m.msgIsErr = msg.err != nil
		if msg.err != nil {
			m.message = msg.err.Error()
		}
		return m, tea.Batch(m.fetchStatus(), tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		}))

	case clearMessageMsg:
		m.message = ""
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "f":
			if size, ok := m.selected(); ok {
				return m, m.resize(size, true)
			}
			return m, nil
		case "r":
			if size, ok := m.selected(); ok {
				return m, m.resize(size, false)
			}
			return m, nil
		case "e":
			return m, m.toggle(true)
		case "d":
			return m, m.toggle(false)
		case "c":
			m.editing = true
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		size, err := platform.ParseSize(m.input.Value())
		if err != nil {
			m.message = err.Error()
			m.msgIsErr = true
			return m, nil
		}
		m.editing = false
		m.input.Blur()
		return m, m.resize(size, true)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) selected() (platform.Size, bool) {
	item, ok := m.list.SelectedItem().(presetItem)
	if !ok {
		return platform.Size{}, false
	}
	return item.size, true
}

// markCurrent flags the preset matching the window's geometry.
func (m *model) markCurrent() {
	if m.status == nil {
		return
	}
	geom := m.status.Window.Geometry
	for i, it := range m.list.Items() {
		p := it.(presetItem)
		if current := p.size == geom; current != p.current {
			p.current = current
			m.list.SetItem(i, p)
		}
	}
}

func (m model) resize(size platform.Size, force bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Resize(size, force)
		if err != nil {
			if errors.Is(err, resize.ErrWindowUnavailable) {
				err = fmt.Errorf("window is not floating (press e to enable)")
			}
			return actionMsg{err: err}
		}
		switch {
		case !res.Applied:
			return actionMsg{text: fmt.Sprintf("resize to %s suppressed (%s)", res.Requested, res.Reason)}
		case res.Clamped():
			return actionMsg{text: fmt.Sprintf("resized to %s (clamped from %s)", res.Actual, res.Requested)}
		default:
			return actionMsg{text: "resized to " + res.Actual.String()}
		}
	}
}

func (m model) toggle(enable bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if enable {
			if _, err := client.Enable(); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{text: "floating window enabled"}
		}
		if _, err := client.Disable(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "floating window disabled"}
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	backend := ""
	if m.status != nil {
		backend = m.status.Backend
	}
	statusBar := renderStatusBar(m.connected, backend, m.width)
	helpBar := renderHelpBar(m.width, m.editing)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), "  ", m.detailView())
	return lipgloss.JoinVertical(lipgloss.Left, statusBar, body, helpBar)
}

func (m model) detailView() string {
	lines := []string{titleStyle.Render("Window"), ""}

	if m.status == nil {
		lines = append(lines, mutedStyle.Render("no status"))
	} else {
		w := m.status.Window
		state := mutedStyle.Render(w.State)
		if w.Floating {
			state = floatingStyle.Render(w.State)
		}
		lines = append(lines, row("State", state), row("Geometry", w.Geometry.String()))
		if c := w.Constraints; c != nil {
			auto := "off"
			if c.AutoSize {
				auto = "on"
			}
			lines = append(lines, row("Auto-size", auto))
			if c.Min != nil {
				lines = append(lines, row("Min", c.Min.String()))
			}
			if c.Max != nil {
				lines = append(lines, row("Max", c.Max.String()))
			}
		}
		if s := w.Sync; s != nil {
			switch {
			case s.Pending():
				lines = append(lines, row("Pending", warnStyle.Render(s.Committed.String())))
			case s.Adjusted():
				lines = append(lines, row("Adjusted", warnStyle.Render(s.Confirmed.String())))
			}
		}
	}

	if m.editing {
		lines = append(lines, "", "Size: "+m.input.View())
	}
	if m.message != "" {
		style := mutedStyle
		if m.msgIsErr {
			style = errorStyle
		}
		lines = append(lines, "", style.Render(m.message))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
