package toolserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
)

// MockPrompts renders any prompt name as a single user message echoing the
// name and arguments.
type MockPrompts struct{}

// NewMockPrompts creates a new mock prompt handler.
func NewMockPrompts() *MockPrompts {
	return &MockPrompts{}
}

// ListPrompts implements handler.PromptHandler.
func (p *MockPrompts) ListPrompts(ctx context.Context) ([]shared.Prompt, error) {
	return []shared.Prompt{
		{
			Name:        "mock",
			Description: "Echoes the prompt name and arguments; any name is accepted",
		},
	}, nil
}

// GetPrompt implements handler.PromptHandler.
func (p *MockPrompts) GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*shared.GetPromptResult, error) {
	if arguments == nil {
		arguments = map[string]interface{}{}
	}
	args, err := json.Marshal(arguments)
	if err != nil {
		return nil, err
	}

	return &shared.GetPromptResult{
		Messages: []shared.PromptMessage{
			{
				Role:    "user",
				Content: shared.NewTextContent(fmt.Sprintf("This is a mock prompt for %s with args: %s", name, args)),
			},
		},
	}, nil
}
