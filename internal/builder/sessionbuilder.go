// Package builder assembles sessions and tool servers from defaults or
// configuration.
package builder

import (
	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	domaintransport "github.com/FreePeak/golang-mcp-session-client/internal/domain/transport"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/config"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/transport"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/session"
)

// SessionBuilder implements the Builder pattern for creating sessions
type SessionBuilder struct {
	cfg       *config.Config
	server    *ServerBuilder
	transport domaintransport.Transport
	catalog   domain.ToolRepository
	logger    *logging.Logger
}

// NewSessionBuilder creates a builder for a simulated session with the
// default latencies.
func NewSessionBuilder() *SessionBuilder {
	return SessionFromConfig(config.Default())
}

// SessionFromConfig creates a builder from a loaded configuration.
func SessionFromConfig(cfg *config.Config) *SessionBuilder {
	return &SessionBuilder{
		cfg:    cfg,
		server: ServerFromConfig(cfg),
	}
}

// WithTransport uses t instead of the configured transport
func (b *SessionBuilder) WithTransport(t domaintransport.Transport) *SessionBuilder {
	b.transport = t
	return b
}

// WithServer sets the server backing a simulated transport
func (b *SessionBuilder) WithServer(server *ServerBuilder) *SessionBuilder {
	b.server = server
	return b
}

// WithCatalog sets the tool catalog
func (b *SessionBuilder) WithCatalog(c domain.ToolRepository) *SessionBuilder {
	b.catalog = c
	return b
}

// WithLogger sets the logger
func (b *SessionBuilder) WithLogger(logger *logging.Logger) *SessionBuilder {
	b.logger = logger
	return b
}

// BuildTransport creates the configured transport.
func (b *SessionBuilder) BuildTransport() (domaintransport.Transport, error) {
	if b.transport != nil {
		return b.transport, nil
	}

	info := shared.ServerInfo{Name: b.cfg.Client.Name, Version: b.cfg.Client.Version}
	tc := b.cfg.Transport

	switch tc.Kind {
	case config.TransportSimulated, "":
		sim := b.cfg.Simulation
		server := b.server
		if server == nil {
			server = ServerFromConfig(b.cfg)
		}
		if server.logger == nil {
			server.WithLogger(b.logger)
		}
		return transport.NewInMemoryTransport(server.BuildService(),
			transport.WithLatency(transport.Latency{
				Connect: sim.ConnectLatency,
				List:    sim.ListLatency,
				Call:    sim.CallLatency,
				Chart:   sim.ChartLatency,
			}),
			transport.WithFailConnect(sim.FailConnect),
			transport.WithInMemoryClientInfo(info),
			transport.WithInMemoryLogger(b.logger),
		), nil
	case config.TransportHTTP:
		if tc.URL == "" {
			return nil, errors.New("http transport requires a url")
		}
		return transport.NewHTTPTransport(tc.URL,
			transport.WithTimeout(tc.Timeout),
			transport.WithHeaders(tc.Headers),
			transport.WithHTTPClientInfo(info),
			transport.WithHTTPLogger(b.logger),
		), nil
	case config.TransportStdio:
		if tc.Command == "" {
			return nil, errors.New("stdio transport requires a command")
		}
		return transport.NewCommandTransport(tc.Command, tc.Args,
			transport.WithStdioClientInfo(info),
			transport.WithStdioLogger(b.logger),
		), nil
	default:
		return nil, errors.Errorf("unknown transport kind %q", tc.Kind)
	}
}

// Build creates the session. It is not connected yet.
func (b *SessionBuilder) Build() (*session.Session, error) {
	t, err := b.BuildTransport()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transport")
	}

	opts := []session.Option{
		session.WithClientName(b.cfg.Client.Name),
		session.WithLogger(b.logger),
	}
	if b.catalog != nil {
		opts = append(opts, session.WithCatalog(b.catalog))
	}
	return session.New(t, opts...), nil
}
