package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  name: x\n"), 0600))

	got, err := FindConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	_, err := FindConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestFindConfig_CWD(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mcp-session.yaml"), []byte("{}\n"), 0600))

	orig, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(orig)

	got, err := FindConfig("")
	require.NoError(t, err)
	assert.Equal(t, "mcp-session.yaml", got)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, TransportSimulated, cfg.Transport.Kind)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.ConnectLatency)
	assert.Equal(t, 300*time.Millisecond, cfg.Simulation.ListLatency)
	assert.Equal(t, 300*time.Millisecond, cfg.Simulation.CallLatency)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.ChartLatency)
}

func TestLoad(t *testing.T) {
	t.Setenv("MCP_TEST_URL", "http://localhost:9000/rpc")

	yaml := `
client:
  name: dashboard
transport:
  kind: http
  url: ${MCP_TEST_URL}
  headers:
    Authorization: Bearer abc
  timeout: 5s
simulation:
  connect_latency: 0s
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dashboard", cfg.Client.Name)
	assert.Equal(t, "1.0.0", cfg.Client.Version, "defaults survive partial files")
	assert.Equal(t, TransportHTTP, cfg.Transport.Kind)
	assert.Equal(t, "http://localhost:9000/rpc", cfg.Transport.URL)
	assert.Equal(t, "Bearer abc", cfg.Transport.Headers["Authorization"])
	assert.Equal(t, 5*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Simulation.ConnectLatency)
	assert.Equal(t, 300*time.Millisecond, cfg.Simulation.CallLatency)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "client: [\n"},
		{"unknown kind", "transport:\n  kind: carrier-pigeon\n"},
		{"http without url", "transport:\n  kind: http\n"},
		{"stdio without command", "transport:\n  kind: stdio\n"},
		{"negative latency", "simulation:\n  call_latency: -1s\n"},
		{"negative body limit", "fetch:\n  max_body_bytes: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
