// Package stdio provides the stdio interface for the MCP tool server.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/interfaces/rest"
)

// MessageHandler processes one raw JSON-RPC message and returns the
// response, or nil for a notification. *rest.MCPServer satisfies it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, raw json.RawMessage) *shared.JSONRPCResponse
}

// StdioServer serves JSON-RPC over newline-delimited standard streams.
// Requests are handled concurrently; responses are written one per line.
type StdioServer struct {
	handler     MessageHandler
	logger      *logging.Logger
	contextFunc StdioContextFunc
	mu          sync.Mutex
}

// NewStdioServer creates a stdio server around a message handler.
func NewStdioServer(handler MessageHandler, opts ...StdioOption) *StdioServer {
	s := &StdioServer{handler: handler}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger).Named("stdio")
	return s
}

// Listen reads messages from stdin and writes responses to stdout until
// the input closes or ctx is cancelled. In-flight requests finish before
// Listen returns on end of input.
func (s *StdioServer) Listen(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if s.contextFunc != nil {
		ctx = s.contextFunc(ctx)
	}
	ctx = logging.WithLogger(ctx, s.logger)

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(stdin)
		for {
			line, err := reader.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err == io.EOF {
				s.logger.Info("input stream closed")
				return nil
			}
			s.logger.Error("error reading input", logging.Fields{logging.FieldError: err})
			return err
		case line := <-lines:
			wg.Add(1)
			go func(line []byte) {
				defer wg.Done()
				if err := s.processMessage(ctx, line, stdout); err != nil {
					s.logger.Error("error processing message", logging.Fields{logging.FieldError: err})
				}
			}(line)
		}
	}
}

func (s *StdioServer) processMessage(ctx context.Context, line []byte, writer io.Writer) error {
	ctx = logging.WithRequestID(ctx, "")

	response := s.handler.HandleMessage(ctx, bytes.TrimSpace(line))
	if response == nil {
		return nil
	}
	return s.writeResponse(response, writer)
}

// writeResponse writes a JSON-RPC response followed by a newline.
func (s *StdioServer) writeResponse(response *shared.JSONRPCResponse, writer io.Writer) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("error marshaling response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(writer, "%s\n", responseBytes); err != nil {
		return fmt.Errorf("error writing response: %w", err)
	}
	return nil
}

// ServeStdio serves server over os.Stdin and os.Stdout, stopping on
// SIGTERM or SIGINT.
func ServeStdio(server *rest.MCPServer, opts ...StdioOption) error {
	s := NewStdioServer(server, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	s.logger.Info("starting MCP server in stdio mode")

	err := s.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && err != context.Canceled {
		s.logger.Error("server exited with error", logging.Fields{logging.FieldError: err})
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}
