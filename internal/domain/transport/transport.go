// Package transport defines the client-side boundary to an MCP server.
package transport

import (
	"context"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
)

// Transport carries MCP requests to a server. Implementations must be safe
// for concurrent use and must return promptly once ctx is done.
type Transport interface {
	// Connect performs the initialize handshake.
	Connect(ctx context.Context) error

	// ListTools returns the server's tool descriptors.
	ListTools(ctx context.Context) ([]domain.ToolDescriptor, error)

	// CallTool invokes a tool. The result is opaque to the transport.
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*shared.CallToolResult, error)

	// Disconnect releases the connection. It is idempotent.
	Disconnect() error
}

// PromptTransport is implemented by transports that can render prompts.
type PromptTransport interface {
	GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*shared.GetPromptResult, error)
}
