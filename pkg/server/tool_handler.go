package server

import (
	"context"
	"encoding/json"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	"github.com/FreePeak/golang-mcp-session-client/pkg/types"
)

// funcTool adapts a ToolHandler to the internal handler interface.
type funcTool struct {
	tool    types.Tool
	handler ToolHandler
}

func (t *funcTool) Definition() shared.Tool {
	return t.tool
}

func (t *funcTool) Call(ctx context.Context, arguments map[string]interface{}) ([]shared.Content, error) {
	out, err := t.handler(ctx, ToolCallRequest{Name: t.tool.Name, Parameters: arguments})
	if err != nil {
		return nil, err
	}

	switch v := out.(type) {
	case nil:
		return []shared.Content{}, nil
	case string:
		return []shared.Content{shared.NewTextContent(v)}, nil
	case []shared.Content:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return []shared.Content{shared.NewTextContent(string(data))}, nil
	}
}
