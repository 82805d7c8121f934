package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/floatwin/internal/ipc"
	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
)

const (
	ServerName    = "floatwin"
	ServerVersion = "0.1.0"
)

// Daemon is the floatwin daemon as reached over IPC.
type Daemon interface {
	Enable() (bool, error)
	Disable() (bool, error)
	Resize(size platform.Size, force bool) (*resize.Result, error)
	HasMethod(typeName, method string) (bool, error)
	Status() (*ipc.StatusData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server exposing the floating window to agents. Every
// tool forwards to the daemon, so it holds no window state of its own.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    zerolog.Logger
}

// NewServer creates a new MCP server forwarding to daemon.
func NewServer(daemon Daemon, logger zerolog.Logger) *Server {
	s := &Server{
		daemon: daemon,
		logger: logger.With().Str("component", "mcp").Logger(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "force_resize",
		Description: "Resize the floating window to exactly width x height, ignoring its min/max size bounds and turning auto-size off. The display server may still clamp the size to the monitor; the returned actual size is authoritative. Fails if the window is not floating or a dimension is not positive.",
	}, s.handleForceResize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize",
		Description: "Request a resize within the window's size bounds. Suppressed (applied=false with a reason) while auto-size is on or when the size is outside the bounds.",
	}, s.handleResize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "enable_floating",
		Description: "Detach the running application into a floating native window. No-op when already floating.",
	}, s.handleEnable)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "disable_floating",
		Description: "Destroy the floating window and reattach the application inline. The last geometry is kept.",
	}, s.handleDisable)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_geometry",
		Description: "Return the floating window's last authoritative size, whether it is floating, and whether a commit is still awaiting display server confirmation.",
	}, s.handleGetGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "has_method",
		Description: "Report whether an exposed type (default FloatingWindow) offers a method, e.g. force_resize.",
	}, s.handleHasMethod)
}
