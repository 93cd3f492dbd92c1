package transport

import (
	"context"
	"sync"
	"time"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

// ToolService is the server side the in-memory transport talks to.
// *toolserver.Service satisfies it.
type ToolService interface {
	Initialize(ctx context.Context, params shared.InitializeParams) *shared.InitializeResult
	ListTools(ctx context.Context) ([]shared.Tool, error)
	CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*shared.CallToolResult, error)
	GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*shared.GetPromptResult, error)
}

// Latency holds the simulated delays of the in-memory server.
type Latency struct {
	Connect time.Duration
	List    time.Duration
	Call    time.Duration
	// Chart is added to Call for generate_chart.
	Chart time.Duration
}

// DefaultLatency holds the delays used when none are configured.
var DefaultLatency = Latency{
	Connect: 500 * time.Millisecond,
	List:    300 * time.Millisecond,
	Call:    300 * time.Millisecond,
	Chart:   500 * time.Millisecond,
}

// InMemoryTransport connects to a ToolService in the same process, with
// configurable, cancellable latencies.
type InMemoryTransport struct {
	service     ToolService
	latency     Latency
	failConnect bool
	clientInfo  shared.ServerInfo
	logger      *logging.Logger

	mu        sync.RWMutex
	connected bool
}

// InMemoryOption configures an InMemoryTransport.
type InMemoryOption func(*InMemoryTransport)

// WithLatency sets the simulated latencies.
func WithLatency(l Latency) InMemoryOption {
	return func(t *InMemoryTransport) {
		t.latency = l
	}
}

// WithFailConnect makes every handshake fail.
func WithFailConnect(fail bool) InMemoryOption {
	return func(t *InMemoryTransport) {
		t.failConnect = fail
	}
}

// WithInMemoryClientInfo sets the client identity sent in initialize.
func WithInMemoryClientInfo(info shared.ServerInfo) InMemoryOption {
	return func(t *InMemoryTransport) {
		t.clientInfo = info
	}
}

// WithInMemoryLogger sets the logger.
func WithInMemoryLogger(logger *logging.Logger) InMemoryOption {
	return func(t *InMemoryTransport) {
		t.logger = logger
	}
}

// NewInMemoryTransport creates a transport to service with DefaultLatency.
func NewInMemoryTransport(service ToolService, opts ...InMemoryOption) *InMemoryTransport {
	t := &InMemoryTransport{
		service:    service,
		latency:    DefaultLatency,
		clientInfo: DefaultClientInfo,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.OrDefault(t.logger).With(logging.Fields{"transport": "inmemory"})
	return t
}

// Connect simulates the handshake.
func (t *InMemoryTransport) Connect(ctx context.Context) error {
	t.setConnected(false)
	if err := sleep(ctx, t.latency.Connect); err != nil {
		return err
	}
	if t.failConnect {
		return mcperrors.NewNetworkError("connection refused by simulated server", nil)
	}

	res := t.service.Initialize(ctx, shared.InitializeParams{
		ProtocolVersion: shared.ProtocolVersion,
		ClientInfo:      t.clientInfo,
	})
	t.logger.Debug("connected", logging.Fields{"server": res.ServerInfo.Name})
	t.setConnected(true)
	return nil
}

// ListTools returns the service's tools.
func (t *InMemoryTransport) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	if err := sleep(ctx, t.latency.List); err != nil {
		return nil, err
	}
	tools, err := t.service.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	return toDescriptors(tools), nil
}

// CallTool invokes a tool on the service.
func (t *InMemoryTransport) CallTool(ctx context.Context, name string, args map[string]interface{}) (*shared.CallToolResult, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	delay := t.latency.Call
	if name == domain.ToolGenerateChart {
		delay += t.latency.Chart
	}
	if err := sleep(ctx, delay); err != nil {
		return nil, err
	}
	return t.service.CallTool(ctx, name, args)
}

// GetPrompt renders a prompt on the service.
func (t *InMemoryTransport) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*shared.GetPromptResult, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	if err := sleep(ctx, t.latency.Call); err != nil {
		return nil, err
	}
	return t.service.GetPrompt(ctx, name, args)
}

// Disconnect marks the transport disconnected. It is idempotent.
func (t *InMemoryTransport) Disconnect() error {
	t.setConnected(false)
	return nil
}

func (t *InMemoryTransport) setConnected(v bool) {
	t.mu.Lock()
	t.connected = v
	t.mu.Unlock()
}

func (t *InMemoryTransport) requireConnected() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.connected {
		return mcperrors.NewNotConnectedError("simulated server not connected", nil)
	}
	return nil
}
