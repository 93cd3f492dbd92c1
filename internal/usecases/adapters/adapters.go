// Package adapters turns generic tool calls into typed requests and results
// for the tools the session knows about. Every adapter validates its input
// before anything is sent and raises structured errors only.
package adapters

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// ToolCaller is the callTool primitive adapters are built on.
// *protocol.Client satisfies it.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*shared.CallToolResult, error)
}

// Decoder maps the raw result of one tool onto its tagged result.
type Decoder func(res *shared.CallToolResult) (domain.ToolResult, error)

var decoders = map[string]Decoder{
	domain.ToolCalculateBMI: func(res *shared.CallToolResult) (domain.ToolResult, error) {
		return decodeBMI(res)
	},
	domain.ToolFetchJSON: func(res *shared.CallToolResult) (domain.ToolResult, error) {
		return decodeFetch(res)
	},
	domain.ToolGenerateChart: func(res *shared.CallToolResult) (domain.ToolResult, error) {
		return decodeChart(res, "")
	},
}

// Decode resolves the result of tool name into its tagged variant. Tools
// without an adapter yield a GenericResult.
func Decode(name string, res *shared.CallToolResult) (domain.ToolResult, error) {
	if d, ok := decoders[name]; ok {
		return d(res)
	}
	if err := checkResult(res); err != nil {
		return nil, err
	}
	return domain.GenericResult{Content: res.Content}, nil
}

// GenericAdapter passes arbitrary tool calls through and resolves the
// result with Decode.
type GenericAdapter struct {
	caller ToolCaller
}

// NewGenericAdapter creates a new generic adapter.
func NewGenericAdapter(caller ToolCaller) *GenericAdapter {
	return &GenericAdapter{caller: caller}
}

// Call invokes tool name with args.
func (a *GenericAdapter) Call(ctx context.Context, req domain.ToolCallRequest) (domain.ToolResult, error) {
	if req.ToolName == "" {
		return nil, mcperrors.NewInvalidArgumentError("tool name is required", nil)
	}
	res, err := a.caller.CallTool(ctx, req.ToolName, req.Args)
	if err != nil {
		return nil, err
	}
	return Decode(req.ToolName, res)
}

// checkResult rejects missing and error-flagged results.
func checkResult(res *shared.CallToolResult) error {
	if res == nil {
		return mcperrors.NewParseError("empty tool result", "")
	}
	if res.IsError {
		text, _ := res.FirstText()
		return mcperrors.NewUnknownError("tool reported an error: "+text, nil)
	}
	return nil
}

func resultText(res *shared.CallToolResult) (string, error) {
	if err := checkResult(res); err != nil {
		return "", err
	}
	text, ok := res.FirstText()
	if !ok {
		return "", mcperrors.NewParseError("tool result has no text content", "")
	}
	return text, nil
}

// toArgs converts a typed request into the argument map sent on the wire.
func toArgs(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, mcperrors.NewInvalidArgumentError("arguments are not serializable: "+err.Error(), nil)
	}
	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, errors.Wrap(err, "failed to build arguments")
	}
	return args, nil
}
