package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/transport"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/toolserver"
)

func newService() *toolserver.Service {
	return toolserver.NewService(toolserver.Config{Name: "transport-test", Logger: logging.NewNop()})
}

func newInMemory(opts ...transport.InMemoryOption) *transport.InMemoryTransport {
	opts = append([]transport.InMemoryOption{
		transport.WithLatency(transport.Latency{}),
		transport.WithInMemoryLogger(logging.NewNop()),
	}, opts...)
	return transport.NewInMemoryTransport(newService(), opts...)
}

func TestInMemoryRoundTrip(t *testing.T) {
	tr := newInMemory()
	ctx := context.Background()

	_, err := tr.ListTools(ctx)
	assert.True(t, mcperrors.IsNotConnected(err), "got %v", err)

	require.NoError(t, tr.Connect(ctx))

	tools, err := tr.ListTools(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 3)
	assert.Equal(t, domain.ToolCalculateBMI, tools[0].Name)

	res, err := tr.CallTool(ctx, domain.ToolCalculateBMI, map[string]interface{}{"weightKg": 70.0, "heightCm": 175.0})
	require.NoError(t, err)
	text, ok := res.FirstText()
	require.True(t, ok)
	assert.Equal(t, "22.86", text)

	prompt, err := tr.GetPrompt(ctx, "hello", nil)
	require.NoError(t, err)
	require.Len(t, prompt.Messages, 1)

	require.NoError(t, tr.Disconnect())
	require.NoError(t, tr.Disconnect())
	_, err = tr.CallTool(ctx, domain.ToolCalculateBMI, nil)
	assert.True(t, mcperrors.IsNotConnected(err), "got %v", err)
}

func TestInMemoryFailConnect(t *testing.T) {
	tr := newInMemory(transport.WithFailConnect(true))

	err := tr.Connect(context.Background())
	assert.True(t, mcperrors.IsNetworkError(err), "got %v", err)

	_, err = tr.ListTools(context.Background())
	assert.True(t, mcperrors.IsNotConnected(err))
}

func TestInMemoryLatencyIsCancellable(t *testing.T) {
	tr := newInMemory(transport.WithLatency(transport.Latency{Connect: time.Minute}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := tr.Connect(ctx)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, mcperrors.IsNetworkError(err), "got %v", err)
}

func TestInMemoryChartLatency(t *testing.T) {
	tr := newInMemory(transport.WithLatency(transport.Latency{Call: 10 * time.Millisecond, Chart: 40 * time.Millisecond}))
	ctx := context.Background()
	require.NoError(t, tr.Connect(ctx))

	start := time.Now()
	_, err := tr.CallTool(ctx, domain.ToolGenerateChart, map[string]interface{}{
		"type": "bar",
		"data": map[string]interface{}{
			"labels":   []interface{}{"a"},
			"datasets": []interface{}{map[string]interface{}{"label": "s", "data": []interface{}{1.0}}},
		},
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestInMemoryKeepsTypedErrors(t *testing.T) {
	tr := newInMemory()
	ctx := context.Background()
	require.NoError(t, tr.Connect(ctx))

	_, err := tr.CallTool(ctx, "nope", nil)
	assert.True(t, mcperrors.IsUnknownTool(err), "got %v", err)

	_, err = tr.CallTool(ctx, domain.ToolCalculateBMI, map[string]interface{}{"weightKg": 0.0, "heightCm": 175.0})
	assert.True(t, mcperrors.IsInvalidArgument(err), "got %v", err)
}
