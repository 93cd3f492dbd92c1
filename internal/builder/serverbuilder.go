package builder

import (
	"time"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/handler"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/config"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/interfaces/rest"
	"github.com/FreePeak/golang-mcp-session-client/internal/interfaces/stdio"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/toolserver"
)

// ServerBuilder implements the Builder pattern for creating tool servers
type ServerBuilder struct {
	name         string
	version      string
	instructions string
	address      string
	httpClient   domain.HTTPDoer
	fetchTimeout time.Duration
	maxBodyBytes int64
	logger       *logging.Logger
	tools        []handler.ToolHandler
	prompts      handler.PromptHandler
}

// NewServerBuilder creates a new server builder with default values
func NewServerBuilder() *ServerBuilder {
	return &ServerBuilder{
		name:         "mcp-tool-server",
		version:      "1.0.0",
		instructions: "Tools: calculate_bmi, fetch_json, generate_chart",
		address:      ":8080",
		fetchTimeout: 30 * time.Second,
		maxBodyBytes: toolserver.DefaultMaxBodyBytes,
	}
}

// ServerFromConfig creates a builder from the server and fetch sections.
func ServerFromConfig(cfg *config.Config) *ServerBuilder {
	b := NewServerBuilder()
	if cfg.Server.Name != "" {
		b.name = cfg.Server.Name
	}
	if cfg.Server.Version != "" {
		b.version = cfg.Server.Version
	}
	if cfg.Server.Instructions != "" {
		b.instructions = cfg.Server.Instructions
	}
	if cfg.Server.Address != "" {
		b.address = cfg.Server.Address
	}
	if cfg.Fetch.Timeout > 0 {
		b.fetchTimeout = cfg.Fetch.Timeout
	}
	if cfg.Fetch.MaxBodyBytes > 0 {
		b.maxBodyBytes = cfg.Fetch.MaxBodyBytes
	}
	return b
}

// WithName sets the server name
func (b *ServerBuilder) WithName(name string) *ServerBuilder {
	b.name = name
	return b
}

// WithVersion sets the server version
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.version = version
	return b
}

// WithInstructions sets the server instructions
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.instructions = instructions
	return b
}

// WithAddress sets the server address
func (b *ServerBuilder) WithAddress(address string) *ServerBuilder {
	b.address = address
	return b
}

// WithHTTPClient sets the client fetch_json uses
func (b *ServerBuilder) WithHTTPClient(client domain.HTTPDoer) *ServerBuilder {
	b.httpClient = client
	return b
}

// WithFetchLimits sets the fetch_json timeout and body cap
func (b *ServerBuilder) WithFetchLimits(timeout time.Duration, maxBodyBytes int64) *ServerBuilder {
	b.fetchTimeout = timeout
	b.maxBodyBytes = maxBodyBytes
	return b
}

// WithLogger sets the logger
func (b *ServerBuilder) WithLogger(logger *logging.Logger) *ServerBuilder {
	b.logger = logger
	return b
}

// AddTool registers an extra tool handler
func (b *ServerBuilder) AddTool(h handler.ToolHandler) *ServerBuilder {
	b.tools = append(b.tools, h)
	return b
}

// WithPromptHandler replaces the mock prompt handler
func (b *ServerBuilder) WithPromptHandler(h handler.PromptHandler) *ServerBuilder {
	b.prompts = h
	return b
}

// BuildService builds the tool service
func (b *ServerBuilder) BuildService() *toolserver.Service {
	service := toolserver.NewService(toolserver.Config{
		Name:         b.name,
		Version:      b.version,
		Instructions: b.instructions,
		HTTPClient:   b.httpClient,
		FetchTimeout: b.fetchTimeout,
		MaxBodyBytes: b.maxBodyBytes,
		Logger:       b.logger,
	})
	for _, h := range b.tools {
		service.Register(h)
	}
	if b.prompts != nil {
		service.SetPromptHandler(b.prompts)
	}
	return service
}

// BuildMCPServer builds and returns an HTTP MCP server
func (b *ServerBuilder) BuildMCPServer() *rest.MCPServer {
	return rest.NewMCPServer(b.BuildService(), b.address, rest.WithLogger(b.logger))
}

// BuildStdioServer builds a stdio server that uses the MCP server
func (b *ServerBuilder) BuildStdioServer(opts ...stdio.StdioOption) *stdio.StdioServer {
	opts = append([]stdio.StdioOption{stdio.WithLogger(b.logger)}, opts...)
	return stdio.NewStdioServer(b.BuildMCPServer(), opts...)
}

// ServeStdio builds and starts serving a stdio server
func (b *ServerBuilder) ServeStdio(opts ...stdio.StdioOption) error {
	opts = append([]stdio.StdioOption{stdio.WithLogger(b.logger)}, opts...)
	return stdio.ServeStdio(b.BuildMCPServer(), opts...)
}
