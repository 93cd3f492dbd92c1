// Package builder provides the Builder pattern for creating MCP client
// sessions.
package builder

import (
	"time"

	internalBuilder "github.com/FreePeak/golang-mcp-session-client/internal/builder"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/config"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/session"
	"github.com/FreePeak/golang-mcp-session-client/pkg/types"
)

// Session is a client session. See the session package for its operations.
type Session = session.Session

// SessionBuilder builds sessions over a simulated, HTTP or stdio transport.
type SessionBuilder struct {
	cfg       *config.Config
	transport types.Transport
}

// NewSessionBuilder creates a builder for a simulated session with the
// default latencies.
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{cfg: config.Default()}
}

// FromConfigFile creates a builder from a YAML config file. An empty path
// searches the default locations.
func FromConfigFile(path string) (*SessionBuilder, error) {
	found, err := config.FindConfig(path)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(found)
	if err != nil {
		return nil, err
	}
	return &SessionBuilder{cfg: cfg}, nil
}

// WithClientName sets the name sent in the initialize handshake.
func (b *SessionBuilder) WithClientName(name string) *SessionBuilder {
	b.cfg.Client.Name = name
	return b
}

// WithHTTP talks to a server over streamable HTTP.
func (b *SessionBuilder) WithHTTP(url string, headers map[string]string) *SessionBuilder {
	b.cfg.Transport.Kind = config.TransportHTTP
	b.cfg.Transport.URL = url
	b.cfg.Transport.Headers = headers
	return b
}

// WithCommand starts command and talks to it over stdio.
func (b *SessionBuilder) WithCommand(command string, args ...string) *SessionBuilder {
	b.cfg.Transport.Kind = config.TransportStdio
	b.cfg.Transport.Command = command
	b.cfg.Transport.Args = args
	return b
}

// WithSimulation uses the in-memory server with the given per-call latency.
// failConnect makes every handshake fail.
func (b *SessionBuilder) WithSimulation(latency time.Duration, failConnect bool) *SessionBuilder {
	b.cfg.Transport.Kind = config.TransportSimulated
	b.cfg.Simulation = config.SimulationConfig{
		ConnectLatency: latency,
		ListLatency:    latency,
		CallLatency:    latency,
		ChartLatency:   latency,
		FailConnect:    failConnect,
	}
	return b
}

// WithTransport uses a custom transport.
func (b *SessionBuilder) WithTransport(t types.Transport) *SessionBuilder {
	b.transport = t
	return b
}

// Build creates a disconnected session.
func (b *SessionBuilder) Build() (*Session, error) {
	ib := internalBuilder.SessionFromConfig(b.cfg)
	if b.transport != nil {
		ib.WithTransport(b.transport)
	}
	return ib.Build()
}
