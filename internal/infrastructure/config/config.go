// Package config handles MCP session configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Transport kinds.
const (
	TransportSimulated = "simulated"
	TransportHTTP      = "http"
	TransportStdio     = "stdio"
)

// Config is the root configuration.
type Config struct {
	Client     ClientConfig     `yaml:"client"`
	Transport  TransportConfig  `yaml:"transport"`
	Simulation SimulationConfig `yaml:"simulation"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

// ClientConfig identifies the client during the initialize handshake.
type ClientConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// TransportConfig selects and configures the transport to the server.
type TransportConfig struct {
	Kind    string            `yaml:"kind"` // simulated, http, stdio
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Timeout time.Duration     `yaml:"timeout"`
}

// SimulationConfig tunes the in-memory server.
type SimulationConfig struct {
	ConnectLatency time.Duration `yaml:"connect_latency"`
	ListLatency    time.Duration `yaml:"list_latency"`
	CallLatency    time.Duration `yaml:"call_latency"`
	ChartLatency   time.Duration `yaml:"chart_latency"`
	FailConnect    bool          `yaml:"fail_connect"`
}

// FetchConfig bounds the fetch_json tool.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ServerConfig configures cmd/tool-server.
type ServerConfig struct {
	Address      string `yaml:"address"`
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Instructions string `yaml:"instructions"`
}

// DefaultSearchPaths returns the config file search order.
// Then: ./mcp-session.yaml, ~/.config/mcp-session/config.yaml, /etc/mcp-session/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"mcp-session.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mcp-session", "config.yaml"))
	}

	paths = append(paths, "/etc/mcp-session/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Default returns a simulated server with 500ms connect, 300ms list and
// call, and an extra 500ms for charts.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Name:    "mcp-session",
			Version: "1.0.0",
		},
		Transport: TransportConfig{
			Kind:    TransportSimulated,
			Timeout: 30 * time.Second,
		},
		Simulation: SimulationConfig{
			ConnectLatency: 500 * time.Millisecond,
			ListLatency:    300 * time.Millisecond,
			CallLatency:    300 * time.Millisecond,
			ChartLatency:   500 * time.Millisecond,
		},
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Address: ":8080",
			Name:    "mcp-tool-server",
			Version: "1.0.0",
		},
	}
}

// Load reads configuration from a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default, expanding environment variables.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown transport kinds, incomplete transports and
// negative durations.
func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case TransportSimulated:
	case TransportHTTP:
		if c.Transport.URL == "" {
			return errors.New("transport.url is required for the http transport")
		}
	case TransportStdio:
		if c.Transport.Command == "" {
			return errors.New("transport.command is required for the stdio transport")
		}
	default:
		return errors.Errorf("unknown transport kind %q", c.Transport.Kind)
	}

	durations := map[string]time.Duration{
		"transport.timeout":          c.Transport.Timeout,
		"simulation.connect_latency": c.Simulation.ConnectLatency,
		"simulation.list_latency":    c.Simulation.ListLatency,
		"simulation.call_latency":    c.Simulation.CallLatency,
		"simulation.chart_latency":   c.Simulation.ChartLatency,
		"fetch.timeout":              c.Fetch.Timeout,
	}
	for name, d := range durations {
		if d < 0 {
			return errors.Errorf("%s must not be negative", name)
		}
	}
	if c.Fetch.MaxBodyBytes < 0 {
		return errors.New("fetch.max_body_bytes must not be negative")
	}
	return nil
}
