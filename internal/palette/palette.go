// Package palette shows the floating window actions in an external launcher
// (rofi, fuzzel, wofi or dmenu) so they can be bound to a window manager key.
package palette

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without picking.
var ErrCancelled = errors.New("palette cancelled")

// Item is one launcher row.
type Item struct {
	Label  string
	Action Action
	// Active rows are highlighted where the launcher supports it.
	Active bool
}

// Backend shows items and returns the picked one.
type Backend interface {
	Name() string
	Show(ctx context.Context, prompt string, items []Item) (Item, error)
}

var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewBackend returns the named launcher. "auto" or "" picks the first one
// found in PATH.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range backendOrder {
			if _, err := exec.LookPath(candidate); err == nil {
				return newLauncher(candidate), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
	}

	for _, candidate := range backendOrder {
		if candidate != name {
			continue
		}
		if _, err := exec.LookPath(name); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", name)
		}
		return newLauncher(name), nil
	}
	return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
}
