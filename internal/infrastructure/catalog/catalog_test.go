package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

func names(tools []domain.ToolDescriptor) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.Name
	}
	return out
}

func list(t *testing.T, c *ToolCatalog) []domain.ToolDescriptor {
	t.Helper()
	tools, err := c.ListTools(context.Background())
	require.NoError(t, err)
	return tools
}

func TestToolCatalog(t *testing.T) {
	ctx := context.Background()
	c := New()
	assert.False(t, c.Loaded())
	assert.Empty(t, list(t, c))

	require.NoError(t, c.ReplaceAll(ctx, []domain.ToolDescriptor{
		{Name: "b", Description: "B"},
		{Name: "a", Description: "A"},
	}))
	assert.True(t, c.Loaded())
	assert.Equal(t, []string{"b", "a"}, names(list(t, c)))

	tests := []struct {
		name     string
		tool     string
		wantDesc string
		wantErr  bool
	}{
		{name: "first", tool: "b", wantDesc: "B"},
		{name: "second", tool: "a", wantDesc: "A"},
		{name: "missing", tool: "missing", wantErr: true},
		{name: "empty name", tool: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := c.GetTool(ctx, tt.tool)
			if tt.wantErr {
				assert.True(t, mcperrors.IsUnknownTool(err))
				assert.Nil(t, tool)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDesc, tool.Description)
		})
	}
}

func TestToolCatalogReplaceAll(t *testing.T) {
	ctx := context.Background()
	c := New()
	require.NoError(t, c.ReplaceAll(ctx, []domain.ToolDescriptor{{Name: "old"}}))

	err := c.ReplaceAll(ctx, []domain.ToolDescriptor{
		{Name: domain.ToolCalculateBMI},
		{Name: domain.ToolFetchJSON},
		{Name: domain.ToolCalculateBMI, Description: "dup"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{domain.ToolCalculateBMI, domain.ToolFetchJSON}, names(list(t, c)))
	_, err = c.GetTool(ctx, "old")
	assert.True(t, mcperrors.IsUnknownTool(err))

	tool, err := c.GetTool(ctx, domain.ToolCalculateBMI)
	require.NoError(t, err)
	assert.Equal(t, "dup", tool.Description)

	err = c.ReplaceAll(ctx, []domain.ToolDescriptor{{Name: "new"}, {Name: ""}})
	assert.True(t, mcperrors.IsInvalidArgument(err))
	assert.Len(t, list(t, c), 2, "failed replace leaves the catalog untouched")

	require.NoError(t, c.ReplaceAll(ctx, nil))
	assert.True(t, c.Loaded(), "an empty listing still counts as loaded")
	assert.Empty(t, list(t, c))
}

func TestToolCatalogCopies(t *testing.T) {
	ctx := context.Background()

	newSchema := func() map[string]interface{} {
		return map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"url": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"url"},
		}
	}
	urlType := func(tool domain.ToolDescriptor) interface{} {
		props := tool.InputSchema["properties"].(map[string]interface{})
		return props["url"].(map[string]interface{})["type"]
	}

	tests := []struct {
		name   string
		mutate func(t *testing.T, c *ToolCatalog, input map[string]interface{})
	}{
		{
			name: "input top level",
			mutate: func(t *testing.T, c *ToolCatalog, input map[string]interface{}) {
				input["type"] = "mutated"
			},
		},
		{
			name: "input nested property",
			mutate: func(t *testing.T, c *ToolCatalog, input map[string]interface{}) {
				props := input["properties"].(map[string]interface{})
				props["url"].(map[string]interface{})["type"] = "number"
				input["required"].([]interface{})[0] = "other"
			},
		},
		{
			name: "listed nested property",
			mutate: func(t *testing.T, c *ToolCatalog, input map[string]interface{}) {
				tools := list(t, c)
				props := tools[0].InputSchema["properties"].(map[string]interface{})
				props["url"].(map[string]interface{})["type"] = "number"
				delete(props, "url")
			},
		},
		{
			name: "fetched nested property",
			mutate: func(t *testing.T, c *ToolCatalog, input map[string]interface{}) {
				tool, err := c.GetTool(ctx, "x")
				require.NoError(t, err)
				props := tool.InputSchema["properties"].(map[string]interface{})
				props["url"].(map[string]interface{})["type"] = "number"
				tool.InputSchema["required"].([]interface{})[0] = "other"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			input := newSchema()
			require.NoError(t, c.ReplaceAll(ctx, []domain.ToolDescriptor{{Name: "x", InputSchema: input}}))

			tt.mutate(t, c, input)

			tool, err := c.GetTool(ctx, "x")
			require.NoError(t, err)
			assert.Equal(t, "object", tool.InputSchema["type"])
			assert.Equal(t, "string", urlType(*tool))
			assert.Equal(t, []interface{}{"url"}, tool.InputSchema["required"])
			assert.Equal(t, "string", urlType(list(t, c)[0]))
		})
	}
}

func TestToolCatalogClear(t *testing.T) {
	ctx := context.Background()
	c := New()
	require.NoError(t, c.ReplaceAll(ctx, []domain.ToolDescriptor{{Name: "x"}}))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, c.Loaded())
	assert.Empty(t, list(t, c))

	_, err := c.GetTool(ctx, "x")
	assert.True(t, mcperrors.IsUnknownTool(err))
}

func TestToolCatalogConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.ReplaceAll(ctx, []domain.ToolDescriptor{{Name: "a"}, {Name: "b"}})
		}()
		go func() {
			defer wg.Done()
			_, _ = c.ListTools(ctx)
			_, _ = c.GetTool(ctx, "a")
			_ = c.Loaded()
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"a", "b"}, names(list(t, c)))
}
