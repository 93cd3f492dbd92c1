package domain

import (
	"context"
	"net/http"
)

// ToolRepository defines the interface for managing a tool catalog.
type ToolRepository interface {
	// GetTool retrieves a tool by its name.
	GetTool(ctx context.Context, name string) (*ToolDescriptor, error)

	// ListTools returns all tools in registration order.
	ListTools(ctx context.Context) ([]ToolDescriptor, error)

	// ReplaceAll swaps the whole catalog atomically.
	ReplaceAll(ctx context.Context, tools []ToolDescriptor) error

	// Loaded reports whether the catalog has been populated since it was
	// created or last cleared.
	Loaded() bool

	// Clear forgets every tool.
	Clear(ctx context.Context) error
}

// HTTPDoer is the HTTP boundary used by the fetch tool. *http.Client
// satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
