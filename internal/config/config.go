package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/window"
)

// Backend selects the display server implementation.
type Backend string

const (
	BackendX11      Backend = "x11"
	BackendHeadless Backend = "headless"
)

// Position is the top-left corner of the floating window.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Constraints are the bounds applied when the window is enabled.
// A zero size leaves that bound unset.
type Constraints struct {
	Min      platform.Size `yaml:"min,omitempty"`
	Max      platform.Size `yaml:"max,omitempty"`
	AutoSize *bool         `yaml:"auto_size,omitempty"`
}

// GetAutoSize returns the auto_size setting, defaulting to true.
func (c Constraints) GetAutoSize() bool {
	if c.AutoSize == nil {
		return true
	}
	return *c.AutoSize
}

// HeadlessDisplay describes one screen of the headless backend.
type HeadlessDisplay struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// LoggingConfig configures the daemon log.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path; empty logs to stderr
	File string `yaml:"file,omitempty"`
}

// Config is the effective floatwin configuration.
type Config struct {
	Backend Backend `yaml:"backend"`
	// Display is the X display to connect to; empty uses $DISPLAY.
	Display        string        `yaml:"display,omitempty"`
	Title          string        `yaml:"title"`
	DefaultSize    platform.Size `yaml:"default_size"`
	Position       Position      `yaml:"position"`
	Constraints    Constraints   `yaml:"constraints,omitempty"`
	ClampToMonitor bool          `yaml:"clamp_to_monitor"`
	EnableOnStart  bool          `yaml:"enable_on_start"`
	// Hotkey toggles the floating window, e.g. "Mod4-Shift-f". x11 only.
	Hotkey           string            `yaml:"hotkey,omitempty"`
	TickInterval     time.Duration     `yaml:"tick_interval"`
	SocketPath       string            `yaml:"socket_path,omitempty"`
	HeadlessDisplays []HeadlessDisplay `yaml:"headless_displays,omitempty"`
	// Presets are the sizes offered by the tui.
	Presets []platform.Size `yaml:"presets,omitempty"`
	// Palette is the launcher used by "floatwin menu": auto, rofi, fuzzel, wofi or dmenu.
	Palette string        `yaml:"palette,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendX11,
		Title:          "floatwin",
		DefaultSize:    platform.Size{Width: 1152, Height: 648},
		Position:       Position{X: 64, Y: 64},
		ClampToMonitor: true,
		TickInterval:   16 * time.Millisecond,
		HeadlessDisplays: []HeadlessDisplay{
			{Name: "headless-0", Width: 1920, Height: 1080},
		},
		Presets: []platform.Size{
			{Width: 3840, Height: 2160},
			{Width: 2560, Height: 1440},
			{Width: 1920, Height: 1080},
			{Width: 1280, Height: 720},
			{Width: 1152, Height: 648},
			{Width: 800, Height: 600},
		},
		Palette: "auto",
		Logging: LoggingConfig{Level: "info"},
	}
}

// ValidationError ties a validation failure to a config path and, when
// known, the file location that set it.
type ValidationError struct {
	Path string
	File string
	Line int
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendX11, BackendHeadless:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: x11, headless")}
	}
	if !c.DefaultSize.Valid() {
		return &ValidationError{Path: "default_size", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.TickInterval <= 0 {
		return &ValidationError{Path: "tick_interval", Err: fmt.Errorf("tick_interval must be > 0")}
	}

	minSize, maxSize := c.Constraints.Min, c.Constraints.Max
	if minSize != (platform.Size{}) && !minSize.Valid() {
		return &ValidationError{Path: "constraints.min", Err: fmt.Errorf("width and height must be > 0")}
	}
	if maxSize != (platform.Size{}) && !maxSize.Valid() {
		return &ValidationError{Path: "constraints.max", Err: fmt.Errorf("width and height must be > 0")}
	}
	if minSize.Valid() && maxSize.Valid() && (minSize.Width > maxSize.Width || minSize.Height > maxSize.Height) {
		return &ValidationError{Path: "constraints.min", Err: fmt.Errorf("min %s exceeds max %s", minSize, maxSize)}
	}

	if c.Backend == BackendHeadless && c.Hotkey != "" {
		return &ValidationError{Path: "hotkey", Err: fmt.Errorf("hotkey requires the x11 backend")}
	}
	if c.Backend == BackendHeadless {
		for i, d := range c.HeadlessDisplays {
			if d.Width <= 0 || d.Height <= 0 {
				return &ValidationError{
					Path: fmt.Sprintf("headless_displays.%d", i),
					Err:  fmt.Errorf("width and height must be > 0"),
				}
			}
		}
	}

	for i, p := range c.Presets {
		if !p.Valid() {
			return &ValidationError{Path: fmt.Sprintf("presets.%d", i), Err: fmt.Errorf("width and height must be > 0")}
		}
	}

	switch c.Palette {
	case "", "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette", Err: fmt.Errorf("palette must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	return nil
}

// Displays converts HeadlessDisplays to platform displays.
func (c *Config) Displays() []platform.Display {
	out := make([]platform.Display, 0, len(c.HeadlessDisplays))
	for i, d := range c.HeadlessDisplays {
		r := platform.Rect{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
		out = append(out, platform.Display{ID: i, Name: d.Name, Bounds: r, Usable: r})
	}
	return out
}

// WindowOptions returns the options used when enabling the floating window.
func (c *Config) WindowOptions() window.Options {
	return window.Options{
		Title:       c.Title,
		X:           c.Position.X,
		Y:           c.Position.Y,
		DefaultSize: c.DefaultSize,
		MinSize:     c.Constraints.Min,
		MaxSize:     c.Constraints.Max,
		AutoSize:    c.Constraints.GetAutoSize(),
	}
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
