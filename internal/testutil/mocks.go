// Package testutil provides test doubles shared by the session, protocol and
// adapter tests.
package testutil

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
)

// MockTransport implements transport.Transport and transport.PromptTransport
// with testify expectations.
type MockTransport struct {
	mock.Mock
}

// Connect implements Transport.Connect
func (m *MockTransport) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ListTools implements Transport.ListTools
func (m *MockTransport) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	args := m.Called(ctx)
	tools, _ := args.Get(0).([]domain.ToolDescriptor)
	return tools, args.Error(1)
}

// CallTool implements Transport.CallTool
func (m *MockTransport) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*shared.CallToolResult, error) {
	args := m.Called(ctx, name, arguments)
	res, _ := args.Get(0).(*shared.CallToolResult)
	return res, args.Error(1)
}

// GetPrompt implements PromptTransport.GetPrompt
func (m *MockTransport) GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*shared.GetPromptResult, error) {
	args := m.Called(ctx, name, arguments)
	res, _ := args.Get(0).(*shared.GetPromptResult)
	return res, args.Error(1)
}

// Disconnect implements Transport.Disconnect
func (m *MockTransport) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}

// Descriptors returns descriptors for the given tool names.
func Descriptors(names ...string) []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, domain.ToolDescriptor{
			Name:        name,
			InputSchema: map[string]interface{}{"type": "object"},
		})
	}
	return out
}

// DefaultTools returns the descriptors of the built-in tools.
func DefaultTools() []domain.ToolDescriptor {
	return Descriptors(domain.ToolCalculateBMI, domain.ToolFetchJSON, domain.ToolGenerateChart)
}

// TextResult builds a tool result holding one text block.
func TextResult(text string) *shared.CallToolResult {
	return &shared.CallToolResult{Content: []shared.Content{shared.NewTextContent(text)}}
}

// HTTPDoerFunc adapts a function to domain.HTTPDoer.
type HTTPDoerFunc func(*http.Request) (*http.Response, error)

// Do implements domain.HTTPDoer.
func (f HTTPDoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
