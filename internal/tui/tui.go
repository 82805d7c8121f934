// Package tui is an interactive terminal dashboard for the floating window:
// it shows live status and resizes the window to presets or custom sizes.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

// Client is the daemon as seen by the dashboard.
type Client interface {
	Status() (*ipc.StatusData, error)
	Enable() (bool, error)
	Disable() (bool, error)
	Resize(size platform.Size, force bool) (*resize.Result, error)
}

var _ Client = (*ipc.Client)(nil)

// Run starts the dashboard and blocks until the user quits.
func Run(client Client, presets []platform.Size) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	_, err := tea.NewProgram(newModel(client, presets), tea.WithAltScreen()).Run()
	return err
}
