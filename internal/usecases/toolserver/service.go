// Package toolserver implements the tools served behind an MCP endpoint:
// calculate_bmi, fetch_json, generate_chart and mock prompts.
package toolserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/handler"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

// Config contains configuration for the Service.
type Config struct {
	Name         string
	Version      string
	Instructions string

	// HTTPClient performs fetch_json requests. Defaults to an *http.Client
	// with FetchTimeout.
	HTTPClient   domain.HTTPDoer
	FetchTimeout time.Duration
	MaxBodyBytes int64

	Logger *logging.Logger
}

// Service is a registry of tool handlers plus a prompt handler.
type Service struct {
	name         string
	version      string
	instructions string
	logger       *logging.Logger

	mu      sync.RWMutex
	order   []string
	tools   map[string]handler.ToolHandler
	prompts handler.PromptHandler
}

// NewService creates a Service with the BMI, fetch and chart tools and the
// mock prompt handler registered.
func NewService(config Config) *Service {
	if config.Name == "" {
		config.Name = "mcp-tool-server"
	}
	if config.Version == "" {
		config.Version = "1.0.0"
	}
	if config.HTTPClient == nil {
		timeout := config.FetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		config.HTTPClient = &http.Client{Timeout: timeout}
	}
	logger := logging.OrDefault(config.Logger).With(logging.Fields{"component": "toolserver"})

	s := &Service{
		name:         config.Name,
		version:      config.Version,
		instructions: config.Instructions,
		logger:       logger,
		tools:        make(map[string]handler.ToolHandler),
		prompts:      NewMockPrompts(),
	}
	s.Register(NewBMIHandler())
	s.Register(NewFetchHandler(config.HTTPClient, config.MaxBodyBytes))
	s.Register(NewChartHandler())
	return s
}

// Register adds or replaces a tool handler.
func (s *Service) Register(h handler.ToolHandler) {
	name := h.Definition().Name

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[name]; !exists {
		s.order = append(s.order, name)
	}
	s.tools[name] = h
}

// SetPromptHandler replaces the prompt handler. Nil disables prompts.
func (s *Service) SetPromptHandler(h handler.PromptHandler) {
	s.mu.Lock()
	s.prompts = h
	s.mu.Unlock()
}

// ServerInfo returns information about the server.
func (s *Service) ServerInfo() (string, string, string) {
	return s.name, s.version, s.instructions
}

// Initialize answers the initialize handshake.
func (s *Service) Initialize(ctx context.Context, params shared.InitializeParams) *shared.InitializeResult {
	s.logger.InfoContext(ctx, "client initialized", logging.Fields{
		"client":           params.ClientInfo.Name,
		"client_version":   params.ClientInfo.Version,
		"protocol_version": params.ProtocolVersion,
	})

	caps := shared.Capabilities{Tools: &shared.ToolsCapability{}}
	s.mu.RLock()
	if s.prompts != nil {
		caps.Prompts = &shared.PromptsCapability{}
	}
	s.mu.RUnlock()

	return &shared.InitializeResult{
		ProtocolVersion: shared.ProtocolVersion,
		ServerInfo:      shared.ServerInfo{Name: s.name, Version: s.version},
		Capabilities:    caps,
		Instructions:    s.instructions,
	}
}

// ListTools returns the tool definitions in registration order.
func (s *Service) ListTools(ctx context.Context) ([]shared.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shared.Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tools[name].Definition())
	}
	return out, nil
}

// CallTool executes a tool.
func (s *Service) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*shared.CallToolResult, error) {
	s.mu.RLock()
	h, ok := s.tools[name]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.NewUnknownToolError(name)
	}
	if arguments == nil {
		arguments = map[string]interface{}{}
	}

	start := time.Now()
	content, err := h.Call(ctx, arguments)
	fields := logging.Fields{
		logging.FieldTool: name,
		"duration":        time.Since(start),
	}
	if err != nil {
		fields[logging.FieldError] = err
		s.logger.WarnContext(ctx, "tool call failed", fields)
		return nil, err
	}
	s.logger.DebugContext(ctx, "tool call succeeded", fields)

	return &shared.CallToolResult{Content: content}, nil
}

// ListPrompts returns the available prompts.
func (s *Service) ListPrompts(ctx context.Context) ([]shared.Prompt, error) {
	s.mu.RLock()
	p := s.prompts
	s.mu.RUnlock()
	if p == nil {
		return []shared.Prompt{}, nil
	}
	return p.ListPrompts(ctx)
}

// GetPrompt renders a prompt.
func (s *Service) GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*shared.GetPromptResult, error) {
	s.mu.RLock()
	p := s.prompts
	s.mu.RUnlock()
	if p == nil {
		return nil, mcperrors.NewInvalidArgumentError("prompts are not supported", name)
	}
	return p.GetPrompt(ctx, name, arguments)
}
