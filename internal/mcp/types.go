package mcp

// SizeInput is the input for the force_resize and resize tools.
type SizeInput struct {
	Width  int `json:"width" jsonschema:"required,Target width in pixels (must be > 0)"`
	Height int `json:"height" jsonschema:"required,Target height in pixels (must be > 0)"`
}

// ResizeOutput is the output for the force_resize and resize tools.
type ResizeOutput struct {
	RequestedWidth  int    `json:"requested_width"`
	RequestedHeight int    `json:"requested_height"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Applied         bool   `json:"applied"`
	Forced          bool   `json:"forced"`
	Clamped         bool   `json:"clamped"`
	Reason          string `json:"reason,omitempty"`
}

// EmptyInput is the input for tools without arguments.
type EmptyInput struct{}

// FloatingOutput is the output for enable_floating and disable_floating.
type FloatingOutput struct {
	Floating bool `json:"floating"`
}

// GeometryOutput is the output for the get_geometry tool.
type GeometryOutput struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Floating bool `json:"floating"`
	AutoSize bool `json:"auto_size"`
	// Pending is set until the display server answers the last resize.
	Pending bool `json:"pending"`
	// Adjusted is set when the server settled on a different size, e.g.
	// after a window manager override.
	Adjusted bool `json:"adjusted"`
}

// HasMethodInput is the input for the has_method tool.
type HasMethodInput struct {
	Type   string `json:"type,omitempty" jsonschema:"Exposed type name (default: FloatingWindow)"`
	Method string `json:"method" jsonschema:"required,Method name, e.g. force_resize"`
}

// HasMethodOutput is the output for the has_method tool.
type HasMethodOutput struct {
	Type      string `json:"type"`
	Method    string `json:"method"`
	Available bool   `json:"available"`
}
