package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/transport"
	"github.com/FreePeak/golang-mcp-session-client/internal/testutil"
	"github.com/FreePeak/golang-mcp-session-client/internal/usecases/toolserver"
)

func newSimulated(t *testing.T, opts ...transport.InMemoryOption) *Session {
	t.Helper()
	service := toolserver.NewService(toolserver.Config{Logger: logging.NewNop()})
	opts = append([]transport.InMemoryOption{
		transport.WithLatency(transport.Latency{}),
		transport.WithInMemoryLogger(logging.NewNop()),
	}, opts...)
	s := New(transport.NewInMemoryTransport(service, opts...), WithLogger(logging.NewNop()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCalculateBMI(t *testing.T) {
	s := newSimulated(t)
	ctx := context.Background()

	res, err := s.CalculateBMI(ctx, 70, 175)
	require.NoError(t, err)
	assert.Equal(t, "22.86", res.Value)
	assert.True(t, s.IsConnected(), "operations connect lazily")
	assert.NoError(t, s.LastError())

	for _, tc := range []struct{ w, h float64 }{{50, 160}, {120.5, 199}, {1, 1}} {
		res, err := s.CalculateBMI(ctx, tc.w, tc.h)
		require.NoError(t, err)
		want := domain.FormatBMI(tc.w / ((tc.h / 100) * (tc.h / 100)))
		assert.Equal(t, want, res.Value)
	}
}

func TestCalculateBMIInvalidMakesNoCall(t *testing.T) {
	tr := &testutil.MockTransport{}
	s := New(tr, WithLogger(logging.NewNop()))

	_, err := s.CalculateBMI(context.Background(), 0, 175)
	require.Error(t, err)
	assert.True(t, mcperrors.IsInvalidArgument(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Error calculating BMI: "), err.Error())
	assert.Equal(t, err.Error(), s.ErrorMessage())

	tr.AssertNotCalled(t, "Connect", mock.Anything)
	tr.AssertNotCalled(t, "CallTool", mock.Anything, mock.Anything, mock.Anything)
}

func TestConnect(t *testing.T) {
	s := newSimulated(t)

	assert.Equal(t, domain.Disconnected, s.State())
	require.NoError(t, s.Open(context.Background()))
	assert.True(t, s.IsConnected())
	assert.False(t, s.IsConnecting())
	assert.NotEmpty(t, s.Tools())
}

func TestToolsAreCopies(t *testing.T) {
	tools := []domain.ToolDescriptor{{
		Name: domain.ToolFetchJSON,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"url": map[string]interface{}{"type": "string"},
			},
		},
	}}
	tr := &testutil.MockTransport{}
	tr.On("Connect", mock.Anything).Return(nil)
	tr.On("ListTools", mock.Anything).Return(tools, nil)
	tr.On("Disconnect").Return(nil)

	ctx := context.Background()
	s := New(tr, WithLogger(logging.NewNop()))
	require.NoError(t, s.Connect(ctx))

	listed := s.Tools()
	listed[0].InputSchema["properties"].(map[string]interface{})["url"].(map[string]interface{})["type"] = "number"

	tool, err := s.Tool(ctx, domain.ToolFetchJSON)
	require.NoError(t, err)
	url := tool.InputSchema["properties"].(map[string]interface{})["url"].(map[string]interface{})
	assert.Equal(t, "string", url["type"])
	assert.NoError(t, s.LastError())
}

func TestCloseForgetsCatalog(t *testing.T) {
	s := newSimulated(t)
	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))

	_, err := s.Tool(ctx, domain.ToolCalculateBMI)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, domain.Disconnected, s.State())
	assert.Empty(t, s.Tools())
	_, err = s.Tool(ctx, domain.ToolCalculateBMI)
	assert.True(t, mcperrors.IsUnknownTool(err))

	res, err := s.CalculateBMI(ctx, 70, 175)
	require.NoError(t, err, "a closed session reconnects lazily and relists")
	assert.Equal(t, "22.86", res.Value)
	assert.NotEmpty(t, s.Tools())
}

func TestConnectingIsObservable(t *testing.T) {
	tr := &testutil.MockTransport{}
	entered := make(chan struct{})
	release := make(chan struct{})
	tr.On("Connect", mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil)
	tr.On("ListTools", mock.Anything).Return(testutil.DefaultTools(), nil)

	s := New(tr, WithLogger(logging.NewNop()))
	done := make(chan error)
	go func() { done <- s.Connect(context.Background()) }()

	<-entered
	assert.True(t, s.IsConnecting())
	assert.False(t, s.IsConnected())
	close(release)

	require.NoError(t, <-done)
	assert.True(t, s.IsConnected())
}

func TestConnectFailure(t *testing.T) {
	s := newSimulated(t, transport.WithFailConnect(true))

	err := s.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, mcperrors.IsNotConnected(err))
	assert.True(t, strings.HasPrefix(s.ErrorMessage(), "Error connecting to MCP server: "), s.ErrorMessage())

	_, err = s.CalculateBMI(context.Background(), 70, 175)
	assert.True(t, mcperrors.IsNotConnected(err), "lazy connect failure aborts the operation")
	assert.True(t, strings.HasPrefix(err.Error(), "Error calculating BMI: "))
}

func TestUnknownTool(t *testing.T) {
	s := newSimulated(t)

	_, err := s.CallTool(context.Background(), "nonexistent_tool", map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, mcperrors.IsUnknownTool(err))
	assert.Equal(t, "Error calling tool nonexistent_tool: Unknown tool: nonexistent_tool", err.Error())
	assert.True(t, s.IsConnected())

	s.Disconnect()
	_, err = s.CallTool(context.Background(), "nonexistent_tool", nil)
	assert.True(t, mcperrors.IsUnknownTool(err))
}

func TestCallToolTaggedResults(t *testing.T) {
	s := newSimulated(t)

	res, err := s.CallTool(context.Background(), domain.ToolCalculateBMI, map[string]interface{}{"weightKg": 70, "heightCm": 175})
	require.NoError(t, err)
	assert.Equal(t, domain.BMIResult{Value: "22.86"}, res)
}

func chartSpec(chartType domain.ChartType, data ...domain.DataPoint) domain.ChartSpec {
	return domain.ChartSpec{
		Type: chartType,
		Data: domain.ChartData{
			Labels:   []string{"a", "b"},
			Datasets: []domain.Dataset{{Label: "series", Data: data}},
		},
	}
}

func TestGenerateChartScatter(t *testing.T) {
	s := newSimulated(t)
	ctx := context.Background()

	_, err := s.GenerateChart(ctx, chartSpec(domain.ChartScatter, domain.Value(1), domain.Value(2), domain.Value(3)))
	assert.True(t, mcperrors.IsInvalidScatterPoint(err), "got %v", err)
	assert.True(t, strings.HasPrefix(s.ErrorMessage(), "Error generating chart: "))

	art, err := s.GenerateChart(ctx, chartSpec(domain.ChartScatter, domain.Point(0, 1), domain.Point(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, domain.FormatHTML, art.Format)
	assert.NoError(t, s.LastError(), "a new operation clears the error")
}

func TestGenerateChartInvalidData(t *testing.T) {
	s := newSimulated(t)

	spec := chartSpec(domain.ChartBar, domain.Value(1))
	spec.Data.Labels = []string{}
	_, err := s.GenerateChart(context.Background(), spec)
	assert.True(t, mcperrors.IsInvalidChartData(err))

	spec = chartSpec(domain.ChartBar)
	spec.Data.Datasets = nil
	_, err = s.GenerateChart(context.Background(), spec)
	assert.True(t, mcperrors.IsInvalidChartData(err))
}

func TestGenerateChartRoundTrip(t *testing.T) {
	s := newSimulated(t)

	specs := []domain.ChartSpec{
		chartSpec(domain.ChartBar, domain.Value(1), domain.Value(2)),
		chartSpec(domain.ChartLine, domain.Value(-1), domain.Value(0.5)),
		chartSpec(domain.ChartPie, domain.Value(3), domain.Value(4)),
		chartSpec(domain.ChartScatter, domain.Point(1, 2), domain.Point(3, 4)),
	}
	specs[1].Options = &domain.ChartOptions{Title: "Trend", XAxisLabel: "Month", YAxisLabel: "Value"}

	for _, spec := range specs {
		t.Run(string(spec.Type), func(t *testing.T) {
			art, err := s.GenerateChart(context.Background(), spec)
			require.NoError(t, err)

			cfg, err := toolserver.ParseChartHTML(art.Content)
			require.NoError(t, err)
			assert.Equal(t, spec.Type, cfg.Type)
			assert.Equal(t, spec.Data.Labels, cfg.Data.Labels)

			x := cfg.Options.Scales.X.Title
			y := cfg.Options.Scales.Y.Title
			if spec.Options != nil {
				assert.Equal(t, spec.Options.XAxisLabel, x.Text)
				assert.Equal(t, spec.Options.YAxisLabel, y.Text)
				assert.True(t, x.Display)
			} else {
				assert.False(t, x.Display)
				assert.False(t, y.Display)
			}
		})
	}
}

func TestGenerateChartImage(t *testing.T) {
	s := newSimulated(t)

	spec := chartSpec(domain.ChartBar, domain.Value(1), domain.Value(2))
	spec.Format = domain.FormatImage
	spec.Width, spec.Height = 120, 80

	art, err := s.GenerateChart(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatImage, art.Format)
	assert.True(t, strings.HasPrefix(art.Content, "data:image/png;base64,"))
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Trace", "abc")
		_, _ = w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	s := newSimulated(t)
	res, err := s.FetchJSON(context.Background(), srv.URL, "GET", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, map[string]interface{}{"a": 1.0}, res.Data)
	assert.Equal(t, "abc", res.Headers["x-trace"])

	srv.Close()
	_, err = s.FetchJSON(context.Background(), srv.URL, "GET", nil)
	assert.True(t, mcperrors.IsNetworkError(err), "got %v", err)
	assert.True(t, strings.HasPrefix(s.ErrorMessage(), "Error fetching JSON: "))
}

func TestFetchJSONUnreachableDoer(t *testing.T) {
	doer := testutil.HTTPDoerFunc(func(*http.Request) (*http.Response, error) {
		return nil, assert.AnError
	})
	service := toolserver.NewService(toolserver.Config{HTTPClient: doer, Logger: logging.NewNop()})
	s := New(transport.NewInMemoryTransport(service,
		transport.WithLatency(transport.Latency{}),
		transport.WithInMemoryLogger(logging.NewNop()),
	), WithLogger(logging.NewNop()))

	_, err := s.FetchJSON(context.Background(), "http://unreachable.invalid", "GET", nil)
	assert.True(t, mcperrors.IsNetworkError(err))
}

func TestDisconnectTwice(t *testing.T) {
	s := newSimulated(t)
	require.NoError(t, s.Connect(context.Background()))

	s.Disconnect()
	assert.Equal(t, domain.Disconnected, s.State())
	s.Disconnect()
	assert.Equal(t, domain.Disconnected, s.State())
	assert.NoError(t, s.LastError())
	assert.NotEmpty(t, s.Tools(), "catalog survives disconnect")
	assert.NoError(t, s.Close())
}

func TestDisconnectDuringCall(t *testing.T) {
	tr := &testutil.MockTransport{}
	tr.On("Connect", mock.Anything).Return(nil)
	tr.On("ListTools", mock.Anything).Return(testutil.DefaultTools(), nil)
	tr.On("Disconnect").Return(nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	tr.On("CallTool", mock.Anything, domain.ToolCalculateBMI, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(testutil.TextResult("22.86"), nil)

	s := New(tr, WithLogger(logging.NewNop()))
	errs := make(chan error)
	go func() {
		_, err := s.CalculateBMI(context.Background(), 70, 175)
		errs <- err
	}()

	<-entered
	s.Disconnect()
	close(release)

	select {
	case err := <-errs:
		assert.True(t, mcperrors.IsNotConnected(err), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("operation did not return")
	}
	assert.Equal(t, domain.Disconnected, s.State())
}

func TestOperationsAreSerialized(t *testing.T) {
	tr := &testutil.MockTransport{}
	tr.On("Connect", mock.Anything).Return(nil)
	tr.On("ListTools", mock.Anything).Return(testutil.DefaultTools(), nil)

	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	tr.On("CallTool", mock.Anything, domain.ToolCalculateBMI, mock.Anything).Run(func(mock.Arguments) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
	}).Return(testutil.TextResult("22.86"), nil)

	s := New(tr, WithLogger(logging.NewNop()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CalculateBMI(context.Background(), 70, 175)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak)
	tr.AssertNumberOfCalls(t, "Connect", 1)
}

func TestCancelledWhileWaiting(t *testing.T) {
	tr := &testutil.MockTransport{}
	release := make(chan struct{})
	entered := make(chan struct{})
	tr.On("Connect", mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil)
	tr.On("ListTools", mock.Anything).Return(testutil.DefaultTools(), nil)

	s := New(tr, WithLogger(logging.NewNop()))
	go func() { _ = s.Connect(context.Background()) }()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.CalculateBMI(ctx, 70, 175)
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestGetPrompt(t *testing.T) {
	s := newSimulated(t)

	res, err := s.GetPrompt(context.Background(), "summary", map[string]interface{}{"topic": "go"})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, `This is a mock prompt for summary with args: {"topic":"go"}`, res.Messages[0].Content.Text)
}

func TestSessionLogsCarrySessionID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	service := toolserver.NewService(toolserver.Config{Logger: logging.NewNop()})
	s := New(transport.NewInMemoryTransport(service,
		transport.WithLatency(transport.Latency{}),
		transport.WithInMemoryLogger(logging.NewNop()),
	), WithLogger(logging.NewFromCore(core)), WithClientName("tester"))

	_, _ = s.CalculateBMI(context.Background(), -1, 175)

	failed := logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 1)
	ctxMap := failed[0].ContextMap()
	assert.Equal(t, s.ID(), ctxMap[logging.FieldSessionID])
	assert.Equal(t, domain.OpCalculateBMI, ctxMap["operation"])
	assert.Equal(t, "invalid_argument", ctxMap["code"])
	assert.Equal(t, "tester", s.Info().ClientName)
}
