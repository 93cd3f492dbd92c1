// Package catalog holds the tool catalog discovered by a session.
package catalog

import (
	"context"
	"sync"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// ToolCatalog is an ordered, in-memory domain.ToolRepository. Descriptors
// are copied on the way in and on the way out.
type ToolCatalog struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]domain.ToolDescriptor
	loaded bool
}

var _ domain.ToolRepository = (*ToolCatalog)(nil)

// New creates an empty ToolCatalog.
func New() *ToolCatalog {
	return &ToolCatalog{
		tools: make(map[string]domain.ToolDescriptor),
	}
}

// GetTool retrieves a tool by its name.
func (c *ToolCatalog) GetTool(ctx context.Context, name string) (*domain.ToolDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tool, ok := c.tools[name]
	if !ok {
		return nil, mcperrors.NewUnknownToolError(name)
	}
	clone := tool.Clone()
	return &clone, nil
}

// ListTools returns copies of all tools in registration order.
func (c *ToolCatalog) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.ToolDescriptor, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tools[name].Clone())
	}
	return out, nil
}

// ReplaceAll swaps the whole catalog. Duplicate names keep the first
// position and the last descriptor.
func (c *ToolCatalog) ReplaceAll(ctx context.Context, tools []domain.ToolDescriptor) error {
	order := make([]string, 0, len(tools))
	byName := make(map[string]domain.ToolDescriptor, len(tools))
	for _, t := range tools {
		if t.Name == "" {
			return mcperrors.NewInvalidArgumentError("tool name must not be empty", nil)
		}
		if _, seen := byName[t.Name]; !seen {
			order = append(order, t.Name)
		}
		byName[t.Name] = t.Clone()
	}

	c.mu.Lock()
	c.order = order
	c.tools = byName
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Loaded reports whether the catalog has ever been populated.
func (c *ToolCatalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Clear empties the catalog and marks it as never loaded.
func (c *ToolCatalog) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.order = nil
	c.tools = make(map[string]domain.ToolDescriptor)
	c.loaded = false
	c.mu.Unlock()
	return nil
}
