// Package tools provides utility functions for describing MCP tools.
package tools

import (
	"github.com/FreePeak/golang-mcp-session-client/pkg/types"
)

// ToolOption is a function that configures a tool.
type ToolOption func(*types.Tool)

// NewTool creates a tool whose input schema is a JSON Schema object.
func NewTool(name string, options ...ToolOption) types.Tool {
	tool := types.Tool{
		Name: name,
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}

	for _, option := range options {
		option(&tool)
	}

	return tool
}

// WithDescription sets the description of a tool.
func WithDescription(description string) ToolOption {
	return func(t *types.Tool) {
		t.Description = description
	}
}

type parameter struct {
	schema   map[string]interface{}
	required bool
}

// ParameterOption is a function that configures a parameter.
type ParameterOption func(*parameter)

// Description sets the description of a parameter.
func Description(description string) ParameterOption {
	return func(p *parameter) {
		p.schema["description"] = description
	}
}

// Required marks a parameter as required.
func Required() ParameterOption {
	return func(p *parameter) {
		p.required = true
	}
}

// Enum restricts a parameter to the given values.
func Enum(values ...string) ParameterOption {
	return func(p *parameter) {
		p.schema["enum"] = values
	}
}

// Default sets the default value of a parameter.
func Default(value interface{}) ParameterOption {
	return func(p *parameter) {
		p.schema["default"] = value
	}
}

func withParameter(name, kind string, options []ParameterOption) ToolOption {
	return func(t *types.Tool) {
		p := &parameter{schema: map[string]interface{}{"type": kind}}
		for _, option := range options {
			option(p)
		}

		props, ok := t.InputSchema["properties"].(map[string]interface{})
		if !ok {
			props = map[string]interface{}{}
			t.InputSchema["properties"] = props
		}
		props[name] = p.schema

		if p.required {
			required, _ := t.InputSchema["required"].([]string)
			t.InputSchema["required"] = append(required, name)
		}
	}
}

// WithString adds a string parameter to a tool.
func WithString(name string, options ...ParameterOption) ToolOption {
	return withParameter(name, "string", options)
}

// WithNumber adds a number parameter to a tool.
func WithNumber(name string, options ...ParameterOption) ToolOption {
	return withParameter(name, "number", options)
}

// WithBoolean adds a boolean parameter to a tool.
func WithBoolean(name string, options ...ParameterOption) ToolOption {
	return withParameter(name, "boolean", options)
}

// WithArray adds an array parameter to a tool.
func WithArray(name string, options ...ParameterOption) ToolOption {
	return withParameter(name, "array", options)
}

// WithObject adds an object parameter to a tool.
func WithObject(name string, options ...ParameterOption) ToolOption {
	return withParameter(name, "object", options)
}

// Descriptor converts a wire tool to the client-side descriptor.
func Descriptor(t types.Tool) types.ToolDescriptor {
	return types.ToolDescriptor{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}
