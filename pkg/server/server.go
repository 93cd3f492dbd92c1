// Package server provides the MCP tool server: calculate_bmi, fetch_json and
// generate_chart, plus any tools registered with AddTool.
package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/FreePeak/golang-mcp-session-client/internal/builder"
	"github.com/FreePeak/golang-mcp-session-client/internal/interfaces/rest"
	"github.com/FreePeak/golang-mcp-session-client/pkg/types"
)

// ToolHandler is a function that handles tool calls. A string result is
// returned as text; anything else is encoded as JSON text.
type ToolHandler func(ctx context.Context, request ToolCallRequest) (interface{}, error)

// ToolCallRequest represents a request to execute a tool.
type ToolCallRequest struct {
	Name       string
	Parameters map[string]interface{}
}

// MCPServer serves the tool set over HTTP or stdio.
type MCPServer struct {
	builder *builder.ServerBuilder
	names   map[string]bool

	mu   sync.Mutex
	http *rest.MCPServer
}

// NewMCPServer creates a new MCP server with the specified name and version.
func NewMCPServer(name, version string) *MCPServer {
	return &MCPServer{
		builder: builder.NewServerBuilder().WithName(name).WithVersion(version),
		names:   make(map[string]bool),
	}
}

// AddTool adds a tool to the MCP server.
func (s *MCPServer) AddTool(ctx context.Context, tool *types.Tool, handler ToolHandler) error {
	if tool == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	if s.names[tool.Name] {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}

	s.names[tool.Name] = true
	s.builder.AddTool(&funcTool{tool: *tool, handler: handler})
	return nil
}

// SetAddress sets the HTTP address for the server.
func (s *MCPServer) SetAddress(addr string) {
	s.builder.WithAddress(addr)
}

// ServeStdio serves the MCP server over standard I/O until stdin closes or
// the process is signalled.
func (s *MCPServer) ServeStdio() error {
	return s.builder.ServeStdio()
}

// ServeHTTP starts the HTTP server and blocks until Shutdown.
func (s *MCPServer) ServeHTTP() error {
	s.mu.Lock()
	s.http = s.builder.BuildMCPServer()
	srv := s.http
	s.mu.Unlock()

	return srv.Start()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *MCPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Stop(ctx)
}
