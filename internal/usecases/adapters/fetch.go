package adapters

import (
	"context"
	"encoding/json"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// FetchAdapter shapes fetch_json calls.
type FetchAdapter struct {
	caller ToolCaller
}

// NewFetchAdapter creates a new fetch adapter.
func NewFetchAdapter(caller ToolCaller) *FetchAdapter {
	return &FetchAdapter{caller: caller}
}

// Fetch requests req.URL through the server. Transport failures surface as
// NetworkError and undecodable bodies as ParseError carrying the raw text.
func (a *FetchAdapter) Fetch(ctx context.Context, req domain.FetchRequest) (domain.FetchResult, error) {
	if err := req.Validate(); err != nil {
		return domain.FetchResult{}, err
	}

	args := map[string]interface{}{
		"url":    req.URL,
		"method": req.Method,
	}
	if req.Body != nil {
		args["body"] = req.Body
	}

	res, err := a.caller.CallTool(ctx, domain.ToolFetchJSON, args)
	if err != nil {
		return domain.FetchResult{}, err
	}
	return decodeFetch(res)
}

func decodeFetch(res *shared.CallToolResult) (domain.FetchResult, error) {
	text, err := resultText(res)
	if err != nil {
		return domain.FetchResult{}, err
	}

	var out domain.FetchResult
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return domain.FetchResult{}, mcperrors.NewParseError("fetch result is not valid JSON", text)
	}
	if out.Headers == nil {
		out.Headers = map[string]string{}
	}
	return out, nil
}
