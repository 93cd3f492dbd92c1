// Package session provides the Session, the single object consumers use to
// talk to an MCP server. It tracks the connection, connects lazily before
// every operation and publishes the last failure as a readable message.
package session

import (
	"context"
	"sync"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/transport"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/adapters"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/protocol"
)

// Session mediates all tool operations of one logical client.
//
// Operations run one at a time in the order they acquire the session.
// Disconnect and Close never wait for them: a suspended operation notices
// the disconnect when it resumes and fails with NotConnected.
type Session struct {
	info    domain.ClientSession
	client  *protocol.Client
	logger  *logging.Logger
	bmi     *adapters.BMIAdapter
	fetch   *adapters.FetchAdapter
	chart   *adapters.ChartAdapter
	generic *adapters.GenericAdapter

	sem chan struct{}

	mu      sync.RWMutex
	lastErr error
}

// Option configures a Session.
type Option func(*options)

type options struct {
	clientName string
	logger     *logging.Logger
	catalog    domain.ToolRepository
}

// WithClientName names the client in logs.
func WithClientName(name string) Option {
	return func(o *options) {
		o.clientName = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCatalog sets the tool catalog the session fills on connect.
func WithCatalog(c domain.ToolRepository) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// New creates a disconnected session over t.
func New(t transport.Transport, opts ...Option) *Session {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	info := domain.NewClientSession(o.clientName)
	logger := logging.OrDefault(o.logger).With(logging.Fields{logging.FieldSessionID: info.ID})

	clientOpts := []protocol.Option{protocol.WithLogger(logger)}
	if o.catalog != nil {
		clientOpts = append(clientOpts, protocol.WithCatalog(o.catalog))
	}
	client := protocol.NewClient(t, clientOpts...)

	return &Session{
		info:    *info,
		client:  client,
		logger:  logger,
		bmi:     adapters.NewBMIAdapter(client),
		fetch:   adapters.NewFetchAdapter(client),
		chart:   adapters.NewChartAdapter(client),
		generic: adapters.NewGenericAdapter(client),
		sem:     make(chan struct{}, 1),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.info.ID
}

// Info returns the session identity.
func (s *Session) Info() domain.ClientSession {
	return s.info
}

// Open connects the session. Pair it with a deferred Close.
func (s *Session) Open(ctx context.Context) error {
	s.logger.InfoContext(ctx, "session opened", logging.Fields{"client": s.info.ClientName})
	return s.Connect(ctx)
}

// Close disconnects the session and forgets the tool catalog. It is safe to
// call at any time and more than once.
func (s *Session) Close() error {
	s.Disconnect()
	if err := s.client.ForgetTools(context.Background()); err != nil {
		return err
	}
	s.logger.Info("session closed")
	return nil
}

// Connect runs the handshake and loads the tool catalog.
func (s *Session) Connect(ctx context.Context) error {
	return s.run(ctx, domain.OpConnect, nil, false, func(ctx context.Context) error {
		if !s.client.Connect(ctx) {
			return s.client.Err()
		}
		return nil
	})
}

// Disconnect sets the state to Disconnected without clearing the catalog.
// It does not wait for in-flight operations.
func (s *Session) Disconnect() {
	s.client.Disconnect()
}

// CalculateBMI returns weightKg / (heightCm/100)^2 formatted to two decimals.
func (s *Session) CalculateBMI(ctx context.Context, weightKg, heightCm float64) (domain.BMIResult, error) {
	req := domain.BMIRequest{WeightKg: weightKg, HeightCm: heightCm}

	var out domain.BMIResult
	err := s.run(ctx, domain.OpCalculateBMI, req.Validate, true, func(ctx context.Context) error {
		res, err := s.bmi.Calculate(ctx, req)
		out = res
		return err
	})
	return out, err
}

// FetchJSON fetches url through the server's fetch_json tool. method is GET
// or POST; body is sent with POST only.
func (s *Session) FetchJSON(ctx context.Context, url, method string, body map[string]interface{}) (domain.FetchResult, error) {
	req := domain.FetchRequest{URL: url, Method: method, Body: body}

	var out domain.FetchResult
	err := s.run(ctx, domain.OpFetchJSON, req.Validate, true, func(ctx context.Context) error {
		res, err := s.fetch.Fetch(ctx, req)
		out = res
		return err
	})
	return out, err
}

// GenerateChart validates spec and renders it as HTML or a PNG data URI.
func (s *Session) GenerateChart(ctx context.Context, spec domain.ChartSpec) (domain.ChartArtifact, error) {
	var out domain.ChartArtifact
	err := s.run(ctx, domain.OpGenerateChart, spec.Validate, true, func(ctx context.Context) error {
		res, err := s.chart.Generate(ctx, spec)
		out = res
		return err
	})
	return out, err
}

// CallTool invokes any tool by name. Results of known tools are decoded into
// their tagged variant; others come back as GenericResult.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]interface{}) (domain.ToolResult, error) {
	var out domain.ToolResult
	err := s.run(ctx, domain.OpCallTool(name), nil, true, func(ctx context.Context) error {
		res, err := s.generic.Call(ctx, domain.ToolCallRequest{ToolName: name, Args: args})
		out = res
		return err
	})
	return out, err
}

// GetPrompt renders a prompt on the server.
func (s *Session) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*domain.PromptResult, error) {
	var out *domain.PromptResult
	err := s.run(ctx, domain.OpGetPrompt, nil, true, func(ctx context.Context) error {
		res, err := s.client.GetPrompt(ctx, name, args)
		if err != nil {
			return err
		}
		out = &domain.PromptResult{Description: res.Description, Messages: res.Messages}
		return nil
	})
	return out, err
}

// State returns the connection state.
func (s *Session) State() domain.ConnectionState {
	return s.client.State()
}

// IsConnected reports whether the session is connected.
func (s *Session) IsConnected() bool {
	return s.client.State() == domain.Connected
}

// IsConnecting reports whether a handshake is in progress.
func (s *Session) IsConnecting() bool {
	return s.client.State() == domain.Connecting
}

// Tools returns the last listed catalog.
func (s *Session) Tools() []domain.ToolDescriptor {
	return s.client.Tools()
}

// Tool returns the descriptor of one tool from the last listing. It does not
// connect and does not touch LastError.
func (s *Session) Tool(ctx context.Context, name string) (*domain.ToolDescriptor, error) {
	return s.client.Tool(ctx, name)
}

// LastError returns the failure of the most recent operation, or nil. Its
// message names the operation, e.g. "Error calculating BMI: ...".
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ErrorMessage returns the LastError text, or "" when there is none.
func (s *Session) ErrorMessage() string {
	if err := s.LastError(); err != nil {
		return err.Error()
	}
	return ""
}

// run applies the session policy to one operation: wait for the session,
// clear the error, validate, connect when needed, execute, and publish any
// failure prefixed with op.
func (s *Session) run(ctx context.Context, op string, validate func() error, ensure bool, fn func(context.Context) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return s.fail(ctx, op, mcperrors.NewUnknownError("operation cancelled", ctx.Err()))
	}
	defer func() { <-s.sem }()

	s.setError(nil)

	if validate != nil {
		if err := validate(); err != nil {
			return s.fail(ctx, op, err)
		}
	}

	if ensure && !s.client.IsConnected() {
		s.logger.DebugContext(ctx, "connecting on demand", logging.Fields{"operation": op})
		if !s.client.Connect(ctx) {
			return s.fail(ctx, op, s.client.Err())
		}
	}

	if err := fn(ctx); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

func (s *Session) fail(ctx context.Context, op string, err error) error {
	if err == nil {
		err = mcperrors.NewUnknownError("unknown failure", nil)
	}
	opErr := domain.NewOperationError(op, err)
	s.setError(opErr)
	s.logger.WarnContext(ctx, "operation failed", logging.Fields{
		"operation":        op,
		"code":             mcperrors.CodeOf(err).String(),
		logging.FieldError: err,
	})
	return opErr
}

func (s *Session) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
