// Package protocol implements the client side of the MCP connection
// lifecycle: the connection state machine, the tool catalog refresh and
// the callTool primitive the tool adapters build on.
package protocol

import (
	"context"
	"sync"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/transport"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/catalog"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

// Client owns the connection state of one session.
//
// Every Connect and Disconnect starts a new connection generation. An
// operation that was suspended across a generation change reports
// NotConnected instead of publishing its result.
type Client struct {
	transport transport.Transport
	catalog   domain.ToolRepository
	logger    *logging.Logger

	mu    sync.RWMutex
	state domain.ConnectionState
	gen   uint64
	err   error
}

// Option configures a Client.
type Option func(*Client)

// WithCatalog sets the catalog refreshed on connect.
func WithCatalog(c domain.ToolRepository) Option {
	return func(client *Client) {
		client.catalog = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a disconnected client over t.
func NewClient(t transport.Transport, opts ...Option) *Client {
	c := &Client{transport: t}
	for _, opt := range opts {
		opt(c)
	}
	if c.catalog == nil {
		c.catalog = catalog.New()
	}
	c.logger = logging.OrDefault(c.logger)
	return c
}

// Connect performs the handshake and refreshes the tool catalog. Every call
// runs a full handshake, also when already connected. It returns true iff
// the client is connected afterwards; on false, Err describes the failure.
func (c *Client) Connect(ctx context.Context) bool {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = domain.Connecting
	c.err = nil
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "connecting", logging.Fields{logging.FieldState: domain.Connecting.String()})

	err := c.transport.Connect(ctx)
	var tools []domain.ToolDescriptor
	if err == nil {
		tools, err = c.transport.ListTools(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		// Disconnect or a newer Connect took over; leave its state alone.
		c.logger.DebugContext(ctx, "connect superseded")
		if c.state == domain.Disconnected {
			c.err = mcperrors.NewNotConnectedError("disconnected during handshake", nil)
		}
		return false
	}

	if err != nil {
		c.state = domain.Disconnected
		if mcperrors.IsNotConnected(err) {
			c.err = err
		} else {
			c.err = mcperrors.NewNotConnectedError("failed to connect to MCP server", err)
		}
		c.logger.WarnContext(ctx, "connect failed", logging.Fields{
			logging.FieldState: c.state.String(),
			logging.FieldError: err,
		})
		return false
	}

	if err := c.catalog.ReplaceAll(ctx, tools); err != nil {
		c.state = domain.Disconnected
		c.err = err
		return false
	}
	c.state = domain.Connected
	c.logger.InfoContext(ctx, "connected", logging.Fields{
		logging.FieldState: c.state.String(),
		"tools":            len(tools),
	})
	return true
}

// Disconnect sets the state to Disconnected and releases the transport. It
// is idempotent and safe to call while other operations are suspended; the
// catalog is kept.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.gen++
	was := c.state
	c.state = domain.Disconnected
	c.mu.Unlock()

	if err := c.transport.Disconnect(); err != nil {
		c.logger.Warn("transport disconnect failed", logging.Fields{logging.FieldError: err})
	}
	if was != domain.Disconnected {
		c.logger.Info("disconnected", logging.Fields{logging.FieldState: domain.Disconnected.String()})
	}
}

// State returns the current connection state.
func (c *Client) State() domain.ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the state is Connected.
func (c *Client) IsConnected() bool {
	return c.State() == domain.Connected
}

// Generation returns the current connection generation.
func (c *Client) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Err returns the failure of the last Connect, or nil.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Tools returns the last listed catalog.
func (c *Client) Tools() []domain.ToolDescriptor {
	tools, err := c.catalog.ListTools(context.Background())
	if err != nil {
		c.logger.Warn("failed to read tool catalog", logging.Fields{logging.FieldError: err})
		return nil
	}
	return tools
}

// Tool returns the catalog entry for name. It fails with UnknownTool when
// the last listing did not include it.
func (c *Client) Tool(ctx context.Context, name string) (*domain.ToolDescriptor, error) {
	return c.catalog.GetTool(ctx, name)
}

// ForgetTools clears the catalog, so the next CallTool no longer checks
// names until a new listing arrives.
func (c *Client) ForgetTools(ctx context.Context) error {
	return c.catalog.Clear(ctx)
}

// ListTools fetches the catalog from the server and stores it.
func (c *Client) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	gen, err := c.connectedGeneration()
	if err != nil {
		return nil, err
	}

	tools, err := c.transport.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.checkGeneration(gen); err != nil {
		return nil, err
	}
	if err := c.catalog.ReplaceAll(ctx, tools); err != nil {
		return nil, err
	}
	return c.catalog.ListTools(ctx)
}

// CallTool dispatches a tool call. The result is opaque at this layer.
//
// UnknownTool is reported for names missing from a loaded catalog whatever
// the connection state; otherwise a call while not Connected fails with
// NotConnected.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*shared.CallToolResult, error) {
	if c.catalog.Loaded() {
		if _, err := c.catalog.GetTool(ctx, name); err != nil {
			return nil, err
		}
	}
	gen, err := c.connectedGeneration()
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	c.logger.DebugContext(ctx, "calling tool", logging.Fields{logging.FieldTool: name})

	res, err := c.transport.CallTool(ctx, name, args)
	if genErr := c.checkGeneration(gen); genErr != nil {
		return nil, genErr
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetPrompt renders a prompt when the transport supports prompts.
func (c *Client) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*shared.GetPromptResult, error) {
	pt, ok := c.transport.(transport.PromptTransport)
	if !ok {
		return nil, mcperrors.NewUnknownError("transport does not support prompts", nil)
	}
	gen, err := c.connectedGeneration()
	if err != nil {
		return nil, err
	}

	res, err := pt.GetPrompt(ctx, name, args)
	if genErr := c.checkGeneration(gen); genErr != nil {
		return nil, genErr
	}
	return res, err
}

func (c *Client) connectedGeneration() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != domain.Connected {
		return 0, mcperrors.NewNotConnectedError("not connected to MCP server", nil)
	}
	return c.gen, nil
}

func (c *Client) checkGeneration(gen uint64) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.gen != gen || c.state != domain.Connected {
		return mcperrors.NewNotConnectedError("connection closed while the request was in flight", nil)
	}
	return nil
}
