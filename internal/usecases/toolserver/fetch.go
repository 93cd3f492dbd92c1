package toolserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/pkg/tools"
)

// DefaultMaxBodyBytes caps fetched response bodies.
const DefaultMaxBodyBytes int64 = 10 << 20

// FetchHandler implements fetch_json over an injected HTTP client.
type FetchHandler struct {
	client  domain.HTTPDoer
	maxBody int64
}

// NewFetchHandler creates a fetch handler. maxBody <= 0 selects
// DefaultMaxBodyBytes.
func NewFetchHandler(client domain.HTTPDoer, maxBody int64) *FetchHandler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &FetchHandler{client: client, maxBody: maxBody}
}

// Definition implements handler.ToolHandler.
func (h *FetchHandler) Definition() shared.Tool {
	return tools.NewTool(domain.ToolFetchJSON,
		tools.WithDescription("Fetch JSON data from a URL"),
		tools.WithString("url", tools.Description("URL to fetch"), tools.Required()),
		tools.WithString("method", tools.Enum(http.MethodGet, http.MethodPost), tools.Default(http.MethodGet)),
		tools.WithObject("body", tools.Description("JSON body sent with POST requests")),
	)
}

// Call performs the request and returns the FetchResult as JSON text.
func (h *FetchHandler) Call(ctx context.Context, arguments map[string]interface{}) ([]shared.Content, error) {
	var req domain.FetchRequest
	if err := decodeArgs(arguments, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := h.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, mcperrors.NewUnknownError("failed to encode fetch result", err)
	}
	return textResult(string(payload)), nil
}

// Fetch issues the request described by req, which must be validated.
func (h *FetchHandler) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	var body io.Reader
	if req.Method == http.MethodPost && req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, mcperrors.NewInvalidArgumentError("body is not serializable: "+err.Error(), nil)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, mcperrors.NewInvalidArgumentError(fmt.Sprintf("invalid url: %v", err), req.URL)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, mcperrors.NewNetworkError(fmt.Sprintf("request to %s failed", req.URL), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody+1))
	if err != nil {
		return nil, mcperrors.NewNetworkError("failed to read response body", errors.Wrap(err, req.URL))
	}
	if int64(len(raw)) > h.maxBody {
		return nil, mcperrors.NewNetworkError(fmt.Sprintf("response body exceeds %d bytes", h.maxBody), nil)
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, mcperrors.NewParseError(fmt.Sprintf("response from %s is not valid JSON (status %d)", req.URL, resp.StatusCode), string(raw))
	}

	return &domain.FetchResult{
		Data:    data,
		Status:  resp.StatusCode,
		Headers: lowerHeaders(resp.Header),
	}, nil
}

func lowerHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return out
}
