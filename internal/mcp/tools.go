package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/floatwin/internal/platform"
	"github.com/1broseidon/floatwin/internal/resize"
	"github.com/1broseidon/floatwin/internal/window"
)

func (s *Server) handleForceResize(_ context.Context, _ *mcpsdk.CallToolRequest, args SizeInput) (*mcpsdk.CallToolResult, ResizeOutput, error) {
	return s.resize(args, true)
}

func (s *Server) handleResize(_ context.Context, _ *mcpsdk.CallToolRequest, args SizeInput) (*mcpsdk.CallToolResult, ResizeOutput, error) {
	return s.resize(args, false)
}

func (s *Server) resize(args SizeInput, force bool) (*mcpsdk.CallToolResult, ResizeOutput, error) {
	size := platform.Size{Width: args.Width, Height: args.Height}
	// Checked here too so agents get a clear message without a round trip
	if !size.Valid() {
		return nil, ResizeOutput{}, fmt.Errorf("%w: %s", resize.ErrInvalidSize, size)
	}

	res, err := s.daemon.Resize(size, force)
	if err != nil {
		s.logger.Debug().Err(err).Stringer("size", size).Bool("force", force).Msg("resize failed")
		return nil, ResizeOutput{}, err
	}
	s.logger.Info().Stringer("requested", size).Stringer("actual", res.Actual).Bool("force", force).Bool("applied", res.Applied).Msg("resize")

	return nil, ResizeOutput{
		RequestedWidth:  res.Requested.Width,
		RequestedHeight: res.Requested.Height,
		Width:           res.Actual.Width,
		Height:          res.Actual.Height,
		Applied:         res.Applied,
		Forced:          res.Forced,
		Clamped:         res.Clamped(),
		Reason:          res.Reason,
	}, nil
}

func (s *Server) handleEnable(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, FloatingOutput, error) {
	floating, err := s.daemon.Enable()
	if err != nil {
		return nil, FloatingOutput{}, err
	}
	return nil, FloatingOutput{Floating: floating}, nil
}

func (s *Server) handleDisable(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, FloatingOutput, error) {
	floating, err := s.daemon.Disable()
	if err != nil {
		return nil, FloatingOutput{}, err
	}
	return nil, FloatingOutput{Floating: floating}, nil
}

func (s *Server) handleGetGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, GeometryOutput, error) {
	st, err := s.daemon.Status()
	if err != nil {
		return nil, GeometryOutput{}, err
	}
	out := GeometryOutput{
		Width:    st.Window.Geometry.Width,
		Height:   st.Window.Geometry.Height,
		Floating: st.Window.Floating,
	}
	if st.Window.Constraints != nil {
		out.AutoSize = st.Window.Constraints.AutoSize
	}
	if st.Window.Sync != nil {
		out.Pending = st.Window.Sync.Pending()
		out.Adjusted = st.Window.Sync.Adjusted()
	}
	return nil, out, nil
}

func (s *Server) handleHasMethod(_ context.Context, _ *mcpsdk.CallToolRequest, args HasMethodInput) (*mcpsdk.CallToolResult, HasMethodOutput, error) {
	typeName := strings.TrimSpace(args.Type)
	if typeName == "" {
		typeName = window.TypeName
	}
	method := strings.TrimSpace(args.Method)
	if method == "" {
		return nil, HasMethodOutput{}, fmt.Errorf("method is required")
	}

	ok, err := s.daemon.HasMethod(typeName, method)
	if err != nil {
		return nil, HasMethodOutput{}, err
	}
	return nil, HasMethodOutput{Type: typeName, Method: method, Available: ok}, nil
}
