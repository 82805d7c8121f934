package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives a dmenu-compatible program over stdin/stdout.
type launcher struct {
	command string
	// indexOutput launchers print the row index instead of its text.
	indexOutput bool
}

func newLauncher(command string) *launcher {
	return &launcher{
		command:     command,
		indexOutput: command == "rofi" || command == "fuzzel",
	}
}

func (l *launcher) Name() string { return l.command }

func (l *launcher) Show(ctx context.Context, prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	cmd := exec.CommandContext(ctx, l.command, l.args(prompt, items)...)
	cmd.Stdin = strings.NewReader(l.input(items))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		var exitErr *exec.ExitError
		// 1 is "nothing picked" for every supported launcher, 130 is Ctrl+C.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 1 || exitErr.ExitCode() == 130) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parse(selection, items)
}

func (l *launcher) args(prompt string, items []Item) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom"}
		var active []string
		for i, it := range items {
			if it.Active {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","), "-selected-row", active[0])
		}
		return args
	case "fuzzel":
		return []string{"--dmenu", "--index", "--prompt", prompt}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func (l *launcher) input(items []Item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = sanitizeLabel(it.Label)
	}
	return strings.Join(lines, "\n")
}

func (l *launcher) parse(selection string, items []Item) (Item, error) {
	if l.indexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, it := range items {
		if sanitizeLabel(it.Label) == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}
