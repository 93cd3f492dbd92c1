// Package transport implements the client-side MCP transports: a simulated
// in-memory server, JSON-RPC over HTTP and JSON-RPC over stdio.
package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// DefaultClientInfo identifies the client when no name is configured.
var DefaultClientInfo = shared.ServerInfo{Name: "mcp-session", Version: "1.0.0"}

// caller sends JSON-RPC messages over some wire.
type caller interface {
	call(ctx context.Context, method string, params, result interface{}) error
	notify(ctx context.Context, method string, params interface{}) error
}

// rpcSession implements the MCP method set on top of a caller.
type rpcSession struct {
	caller     caller
	clientInfo shared.ServerInfo

	mu          sync.RWMutex
	initialized bool
	server      *shared.InitializeResult
}

func newRPCSession(c caller, clientInfo shared.ServerInfo) *rpcSession {
	if clientInfo.Name == "" {
		clientInfo = DefaultClientInfo
	}
	return &rpcSession{caller: c, clientInfo: clientInfo}
}

// Connect performs the initialize request and the initialized notification.
func (s *rpcSession) Connect(ctx context.Context) error {
	s.reset()

	var res shared.InitializeResult
	err := s.caller.call(ctx, shared.MethodInitialize, shared.InitializeParams{
		ProtocolVersion: shared.ProtocolVersion,
		ClientInfo:      s.clientInfo,
		Capabilities:    shared.Capabilities{},
	}, &res)
	if err != nil {
		return err
	}
	if err := s.caller.notify(ctx, shared.MethodInitialized, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.initialized = true
	s.server = &res
	s.mu.Unlock()
	return nil
}

// ServerInfo returns the initialize result of the current connection.
func (s *rpcSession) ServerInfo() (*shared.InitializeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.server, s.initialized
}

func (s *rpcSession) reset() {
	s.mu.Lock()
	s.initialized = false
	s.server = nil
	s.mu.Unlock()
}

func (s *rpcSession) requireInitialized() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return mcperrors.NewNotConnectedError("transport not initialized", nil)
	}
	return nil
}

// ListTools calls tools/list.
func (s *rpcSession) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	var res shared.ListToolsResult
	if err := s.caller.call(ctx, shared.MethodListTools, struct{}{}, &res); err != nil {
		return nil, err
	}
	return toDescriptors(res.Tools), nil
}

// CallTool calls tools/call.
func (s *rpcSession) CallTool(ctx context.Context, name string, args map[string]interface{}) (*shared.CallToolResult, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	var res shared.CallToolResult
	err := s.caller.call(ctx, shared.MethodCallTool, shared.CallToolParams{Name: name, Arguments: args}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetPrompt calls prompts/get.
func (s *rpcSession) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*shared.GetPromptResult, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	var res shared.GetPromptResult
	err := s.caller.call(ctx, shared.MethodGetPrompt, shared.GetPromptParams{Name: name, Arguments: args}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// decodeResponse maps a JSON-RPC response onto result or onto the error
// taxonomy.
func decodeResponse(resp *shared.JSONRPCResponse, result interface{}) error {
	if resp.Error != nil {
		return mcperrors.FromJSONRPC(resp.Error)
	}
	if result == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return mcperrors.NewParseError("invalid result: "+err.Error(), string(resp.Result))
	}
	return nil
}

func toDescriptors(tools []shared.Tool) []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(tools))
	for _, t := range tools {
		out = append(out, domain.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return abortError(ctx.Err())
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return abortError(ctx.Err())
	case <-timer.C:
		return nil
	}
}

func abortError(err error) error {
	if err == nil {
		return nil
	}
	return mcperrors.NewNetworkError("request aborted", err)
}
