package stdio

import (
	"context"

	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

// StdioContextFunc takes the serving context and returns a possibly
// modified one. It is called once per Listen.
type StdioContextFunc func(ctx context.Context) context.Context

// StdioOption defines a function type for configuring StdioServer
type StdioOption func(*StdioServer)

// WithLogger sets the server logger. It must not write to stdout.
func WithLogger(logger *logging.Logger) StdioOption {
	return func(s *StdioServer) {
		s.logger = logger
	}
}

// WithStdioContextFunc sets a function that customizes the serving context.
func WithStdioContextFunc(fn StdioContextFunc) StdioOption {
	return func(s *StdioServer) {
		s.contextFunc = fn
	}
}
