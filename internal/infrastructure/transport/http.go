package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

// SessionHeader carries the server-assigned MCP session ID.
const SessionHeader = "Mcp-Session-Id"

// deleteTimeout bounds the session teardown request sent by Disconnect.
const deleteTimeout = 5 * time.Second

// HTTPTransport sends JSON-RPC requests as HTTP POSTs to a single endpoint.
type HTTPTransport struct {
	*rpcSession

	url     string
	client  domain.HTTPDoer
	headers map[string]string
	logger  *logging.Logger

	mu        sync.RWMutex
	sessionID string
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	client     domain.HTTPDoer
	timeout    time.Duration
	headers    map[string]string
	clientInfo shared.ServerInfo
	logger     *logging.Logger
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client domain.HTTPDoer) HTTPOption {
	return func(o *httpOptions) {
		o.client = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(o *httpOptions) {
		o.timeout = d
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(o *httpOptions) {
		o.headers = headers
	}
}

// WithHTTPClientInfo sets the client identity sent in initialize.
func WithHTTPClientInfo(info shared.ServerInfo) HTTPOption {
	return func(o *httpOptions) {
		o.clientInfo = info
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(logger *logging.Logger) HTTPOption {
	return func(o *httpOptions) {
		o.logger = logger
	}
}

// NewHTTPTransport creates a transport posting to url.
func NewHTTPTransport(url string, opts ...HTTPOption) *HTTPTransport {
	o := &httpOptions{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}

	t := &HTTPTransport{
		url:     url,
		client:  o.client,
		headers: o.headers,
		logger:  logging.OrDefault(o.logger).With(logging.Fields{"transport": "http", "url": url}),
	}
	t.rpcSession = newRPCSession(t, o.clientInfo)
	return t
}

// Connect starts a fresh server session and performs the handshake. A
// session left over from an earlier Connect is ended first.
func (t *HTTPTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	old := t.sessionID
	t.sessionID = ""
	t.mu.Unlock()

	if old != "" {
		if err := t.deleteSession(ctx, old); err != nil {
			t.logger.WarnContext(ctx, "failed to end previous server session", logging.Fields{
				logging.FieldSessionID: old,
				logging.FieldError:     err,
			})
		}
	}
	return t.rpcSession.Connect(ctx)
}

// Disconnect forgets the handshake and asks the server to drop the session
// with a DELETE carrying the session ID. It is idempotent; a failed DELETE is
// logged and otherwise ignored.
func (t *HTTPTransport) Disconnect() error {
	t.reset()
	t.mu.Lock()
	id := t.sessionID
	t.sessionID = ""
	t.mu.Unlock()

	if id == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	if err := t.deleteSession(ctx, id); err != nil {
		t.logger.Warn("failed to end server session", logging.Fields{
			logging.FieldSessionID: id,
			logging.FieldError:     err,
		})
	}
	return nil
}

func (t *HTTPTransport) deleteSession(ctx context.Context, id string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.url, nil)
	if err != nil {
		return mcperrors.NewNetworkError("failed to create HTTP request", err)
	}
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(SessionHeader, id)

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return mcperrors.NewNetworkError("session delete failed", err)
	}
	defer httpResp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxMessageSize))

	switch httpResp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		t.logger.Debug("server session ended", logging.Fields{logging.FieldSessionID: id})
		return nil
	default:
		return mcperrors.NewNetworkError(fmt.Sprintf("server returned non-OK status: %s", httpResp.Status), nil)
	}
}

func (t *HTTPTransport) call(ctx context.Context, method string, params, result interface{}) error {
	req, err := shared.NewRequest(uuid.New().String(), method, params)
	if err != nil {
		return mcperrors.NewInvalidArgumentError(fmt.Sprintf("failed to encode %s params: %v", method, err), nil)
	}

	body, err := t.post(ctx, req)
	if err != nil {
		return err
	}

	var resp shared.JSONRPCResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return mcperrors.NewParseError("invalid JSON-RPC response: "+err.Error(), string(body))
	}
	return decodeResponse(&resp, result)
}

func (t *HTTPTransport) notify(ctx context.Context, method string, params interface{}) error {
	req, err := shared.NewRequest(nil, method, params)
	if err != nil {
		return mcperrors.NewInvalidArgumentError(fmt.Sprintf("failed to encode %s params: %v", method, err), nil)
	}
	_, err = t.post(ctx, req)
	return err
}

func (t *HTTPTransport) post(ctx context.Context, req shared.JSONRPCRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(data))
	if err != nil {
		return nil, mcperrors.NewNetworkError("failed to create HTTP request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	t.mu.RLock()
	if t.sessionID != "" {
		httpReq.Header.Set(SessionHeader, t.sessionID)
	}
	t.mu.RUnlock()

	t.logger.DebugContext(ctx, "sending request", logging.Fields{logging.FieldMethod: req.Method})

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, mcperrors.NewNetworkError(fmt.Sprintf("%s request failed", req.Method), err)
	}
	defer httpResp.Body.Close()

	if id := httpResp.Header.Get(SessionHeader); id != "" {
		t.mu.Lock()
		t.sessionID = id
		t.mu.Unlock()
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxMessageSize+1))
	if err != nil {
		return nil, mcperrors.NewNetworkError("failed to read response body", err)
	}
	if len(body) > maxMessageSize {
		return nil, mcperrors.NewNetworkError(fmt.Sprintf("response body exceeds %d bytes", maxMessageSize), nil)
	}

	switch httpResp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusAccepted, http.StatusNoContent:
		if req.IsNotification() {
			return nil, nil
		}
		return nil, mcperrors.NewNetworkError(fmt.Sprintf("server returned %s without a response", httpResp.Status), nil)
	default:
		return nil, mcperrors.NewNetworkError(fmt.Sprintf("server returned non-OK status: %s", httpResp.Status), nil)
	}
}
