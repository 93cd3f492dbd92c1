package handler

import (
	"context"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
)

// ToolHandler serves one tool on the server side.
type ToolHandler interface {
	// Definition returns the tool descriptor advertised by tools/list.
	Definition() shared.Tool

	// Call executes the tool with the given arguments.
	Call(ctx context.Context, arguments map[string]interface{}) ([]shared.Content, error)
}

// PromptHandler defines a handler for prompts
type PromptHandler interface {
	// ListPrompts returns a list of available prompts
	ListPrompts(ctx context.Context) ([]shared.Prompt, error)

	// GetPrompt renders a prompt with the given arguments
	GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*shared.GetPromptResult, error)
}
