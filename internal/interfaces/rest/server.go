// Package rest provides the HTTP interface for the MCP tool server.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

const (
	// SessionHeader carries the session ID assigned on initialize.
	SessionHeader = "Mcp-Session-Id"

	// DefaultRequestTimeout bounds the handling of a single request.
	DefaultRequestTimeout = 30 * time.Second

	maxRequestBytes = 16 << 20
)

// ToolService is the backend the server dispatches to.
// *toolserver.Service satisfies it.
type ToolService interface {
	ServerInfo() (string, string, string)
	Initialize(ctx context.Context, params shared.InitializeParams) *shared.InitializeResult
	ListTools(ctx context.Context) ([]shared.Tool, error)
	CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*shared.CallToolResult, error)
	ListPrompts(ctx context.Context) ([]shared.Prompt, error)
	GetPrompt(ctx context.Context, name string, arguments map[string]interface{}) (*shared.GetPromptResult, error)
}

// MCPServer represents the HTTP server for the MCP protocol.
type MCPServer struct {
	service    ToolService
	httpServer *http.Server
	logger     *logging.Logger
	timeout    time.Duration

	sessions sync.Map // session ID -> *domain.ClientSession
}

// Option configures an MCPServer.
type Option func(*MCPServer)

// WithLogger sets the server logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *MCPServer) {
		s.logger = logger
	}
}

// WithRequestTimeout bounds how long a single request may take.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *MCPServer) {
		s.timeout = d
	}
}

// NewMCPServer creates a new MCP server listening on addr.
func NewMCPServer(service ToolService, addr string, opts ...Option) *MCPServer {
	s := &MCPServer{
		service: service,
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger).Named("rest")

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleJSONRPC)
	mux.HandleFunc("/jsonrpc", s.handleJSONRPC)
	mux.HandleFunc("/status", s.handleStatus)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           logging.Middleware(s.logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler, logging middleware included.
func (s *MCPServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the MCP server and blocks until it stops.
func (s *MCPServer) Start() error {
	s.logger.Info("starting MCP server", logging.Fields{
		"addr":      s.httpServer.Addr,
		"endpoints": []string{"/", "/jsonrpc", "/status"},
	})
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
func (s *MCPServer) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// SessionCount returns the number of sessions opened by initialize and not
// yet ended by a DELETE.
func (s *MCPServer) SessionCount() int {
	n := 0
	s.sessions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// HandleMessage processes one raw JSON-RPC message. It returns nil for
// notifications, which get no response.
func (s *MCPServer) HandleMessage(ctx context.Context, raw json.RawMessage) *shared.JSONRPCResponse {
	var request shared.JSONRPCRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		resp := shared.NewErrorResponse(nil, shared.ParseError, shared.ErrorMessage(shared.ParseError), nil)
		return &resp
	}

	logging.LogRPCRequest(ctx, request)

	if request.JSONRPC != shared.JSONRPCVersion {
		resp := shared.NewErrorResponse(request.ID, shared.InvalidRequest, "Invalid JSON-RPC version", nil)
		return &resp
	}

	if request.IsNotification() {
		s.processNotification(ctx, request)
		return nil
	}

	var resp shared.JSONRPCResponse
	switch request.Method {
	case shared.MethodInitialize:
		resp = s.processInitialize(ctx, request)
	case shared.MethodPing:
		resp = shared.NewResponse(request.ID, struct{}{})
	case shared.MethodListTools:
		resp = s.processToolsList(ctx, request)
	case shared.MethodCallTool:
		resp = s.processToolsCall(ctx, request)
	case shared.MethodListPrompts:
		resp = s.processPromptsList(ctx, request)
	case shared.MethodGetPrompt:
		resp = s.processPromptsGet(ctx, request)
	default:
		resp = shared.NewErrorResponse(request.ID, shared.MethodNotFound, fmt.Sprintf("Method '%s' not found", request.Method), nil)
	}

	logging.LogRPCResponse(ctx, resp)
	return &resp
}

func (s *MCPServer) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodDelete:
		s.handleDeleteSession(w, r)
		return
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	if sessionID != "" {
		if _, ok := s.sessions.Load(sessionID); !ok {
			http.Error(w, "Unknown session", http.StatusNotFound)
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	response := s.HandleMessage(ctx, body)
	if response == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if sessionID == "" && response.Error == nil && isInitialize(body) {
		session := domain.NewClientSession(clientName(body))
		s.sessions.Store(session.ID, session)
		w.Header().Set(SessionHeader, session.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.GetLogger(ctx).Warn("failed to write response", logging.Fields{logging.FieldError: err})
	}
}

// handleDeleteSession ends the session named by the session header.
func (s *MCPServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		http.Error(w, "Missing session", http.StatusBadRequest)
		return
	}
	if _, ok := s.sessions.LoadAndDelete(sessionID); !ok {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}
	logging.GetLogger(r.Context()).Debug("session ended", logging.Fields{logging.FieldSessionID: sessionID})
	w.WriteHeader(http.StatusNoContent)
}

func (s *MCPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	name, version, _ := s.service.ServerInfo()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"name":     name,
		"version":  version,
		"protocol": shared.ProtocolVersion,
		"sessions": s.SessionCount(),
	})
}

func (s *MCPServer) processNotification(ctx context.Context, request shared.JSONRPCRequest) {
	switch request.Method {
	case shared.MethodInitialized:
		logging.GetLogger(ctx).Debug("client finished initialization")
	default:
		logging.GetLogger(ctx).Debug("ignoring notification", logging.Fields{logging.FieldMethod: request.Method})
	}
}

func (s *MCPServer) processInitialize(ctx context.Context, request shared.JSONRPCRequest) shared.JSONRPCResponse {
	var params shared.InitializeParams
	if len(request.Params) > 0 {
		if err := json.Unmarshal(request.Params, &params); err != nil {
			return invalidParams(request.ID, err)
		}
	}
	return shared.NewResponse(request.ID, s.service.Initialize(ctx, params))
}

func (s *MCPServer) processToolsList(ctx context.Context, request shared.JSONRPCRequest) shared.JSONRPCResponse {
	tools, err := s.service.ListTools(ctx)
	if err != nil {
		return errorResponse(request.ID, err)
	}
	return shared.NewResponse(request.ID, shared.ListToolsResult{Tools: tools})
}

func (s *MCPServer) processToolsCall(ctx context.Context, request shared.JSONRPCRequest) shared.JSONRPCResponse {
	var params shared.CallToolParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return invalidParams(request.ID, err)
	}
	if params.Name == "" {
		return shared.NewErrorResponse(request.ID, shared.InvalidParams, "Missing tool name", nil)
	}

	result, err := s.service.CallTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return errorResponse(request.ID, err)
	}
	return shared.NewResponse(request.ID, result)
}

func (s *MCPServer) processPromptsList(ctx context.Context, request shared.JSONRPCRequest) shared.JSONRPCResponse {
	prompts, err := s.service.ListPrompts(ctx)
	if err != nil {
		return errorResponse(request.ID, err)
	}
	return shared.NewResponse(request.ID, shared.ListPromptsResult{Prompts: prompts})
}

func (s *MCPServer) processPromptsGet(ctx context.Context, request shared.JSONRPCRequest) shared.JSONRPCResponse {
	var params shared.GetPromptParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return invalidParams(request.ID, err)
	}

	result, err := s.service.GetPrompt(ctx, params.Name, params.Arguments)
	if err != nil {
		return errorResponse(request.ID, err)
	}
	return shared.NewResponse(request.ID, result)
}

func errorResponse(id interface{}, err error) shared.JSONRPCResponse {
	rpcErr := mcperrors.ToJSONRPC(err)
	return shared.JSONRPCResponse{
		JSONRPC: shared.JSONRPCVersion,
		ID:      id,
		Error:   rpcErr,
	}
}

func invalidParams(id interface{}, err error) shared.JSONRPCResponse {
	return shared.NewErrorResponse(id, shared.InvalidParams, fmt.Sprintf("Invalid params: %v", err), nil)
}

func isInitialize(body []byte) bool {
	var probe struct {
		Method string `json:"method"`
	}
	return json.Unmarshal(body, &probe) == nil && probe.Method == shared.MethodInitialize
}

func clientName(body []byte) string {
	var probe struct {
		Params shared.InitializeParams `json:"params"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.Params.ClientInfo.Name
}
