package ipc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/1broseidon/floatwin/internal/capability"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus       CommandType = "STATUS"
	CommandEnable       CommandType = "ENABLE"
	CommandDisable      CommandType = "DISABLE"
	CommandResize       CommandType = "RESIZE"
	CommandGeometry     CommandType = "GEOMETRY"
	CommandHasMethod    CommandType = "HAS_METHOD"
	CommandCapabilities CommandType = "CAPABILITIES"
	CommandContentSize  CommandType = "CONTENT_SIZE"
)

// Error codes carried in Response.Code so clients can recover sentinels.
const (
	CodeWindowUnavailable = "window_unavailable"
	CodeInvalidSize       = "invalid_size"
	CodeNotRegistered     = "not_registered"
)

// Request represents an IPC request from client to server
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	ID     string          `json:"id,omitempty"`
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	Window        window.Status `json:"window"`
	Backend       string        `json:"backend"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaemonRunning bool          `json:"daemon_running"`
}

// ResizePayload is the payload of RESIZE. Force bypasses constraints and
// turns auto-size off.
type ResizePayload struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Force  bool `json:"force,omitempty"`
}

// ContentSizePayload is the payload of CONTENT_SIZE: the hosted
// application's preferred size, followed by auto-size.
type ContentSizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// HasMethodPayload is the payload of HAS_METHOD.
type HasMethodPayload struct {
	Type   string `json:"type"`
	Method string `json:"method"`
}

type HasMethodData struct {
	Available bool `json:"available"`
}

type CapabilitiesData struct {
	Methods []capability.Info `json:"methods"`
}

// ToggleData is returned by ENABLE and DISABLE.
type ToggleData struct {
	Floating bool `json:"floating"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ErrorResponse builds an error response, tagging known sentinels with a code.
func ErrorResponse(err error) *Response {
	resp := NewErrorResponse(err.Error())
	resp.Code = codeFor(err)
	return resp
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, resize.ErrWindowUnavailable):
		return CodeWindowUnavailable
	case errors.Is(err, resize.ErrInvalidSize):
		return CodeInvalidSize
	case errors.Is(err, capability.ErrNotRegistered):
		return CodeNotRegistered
	default:
		return ""
	}
}

// DaemonError is an error reported by the daemon.
type DaemonError struct {
	Code    string
	Message string
}

func (e *DaemonError) Error() string {
	return "daemon error: " + e.Message
}

// Unwrap maps the response code back to its sentinel.
func (e *DaemonError) Unwrap() error {
	switch e.Code {
	case CodeWindowUnavailable:
		return resize.ErrWindowUnavailable
	case CodeInvalidSize:
		return resize.ErrInvalidSize
	case CodeNotRegistered:
		return capability.ErrNotRegistered
	default:
		return nil
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
