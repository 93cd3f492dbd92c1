package logging

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// WithLogger stores a logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, returns a default logger.
func GetLogger(ctx context.Context) *Logger {
	logger, ok := ctx.Value(loggerKey).(*Logger)
	if !ok || logger == nil {
		return Default()
	}
	return logger
}

// WithRequestID stores a request ID in ctx. An empty id is replaced by a
// fresh UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID carried by ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func contextFields(ctx context.Context) []zap.Field {
	if id := RequestID(ctx); id != "" {
		return []zap.Field{zap.String(FieldRequestID, id)}
	}
	return nil
}

// Middleware creates an HTTP middleware that adds a request-scoped logger
// and request ID to the request context.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
			requestLogger := logger.With(Fields{
				FieldRequestID: RequestID(ctx),
				"path":         r.URL.Path,
				"remote":       r.RemoteAddr,
			})
			ctx = WithLogger(ctx, requestLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LogRPCRequest logs an incoming JSON-RPC request.
func LogRPCRequest(ctx context.Context, request shared.JSONRPCRequest) {
	GetLogger(ctx).Debug("JSON-RPC request", Fields{
		"id":        request.ID,
		FieldMethod: request.Method,
	})
}

// LogRPCResponse logs an outgoing JSON-RPC response.
func LogRPCResponse(ctx context.Context, response shared.JSONRPCResponse) {
	logger := GetLogger(ctx)
	fields := Fields{"id": response.ID}

	if response.Error != nil {
		fields["error_code"] = response.Error.Code
		fields["error_message"] = response.Error.Message
		logger.Warn("JSON-RPC error response", fields)
		return
	}
	logger.Debug("JSON-RPC response", fields)
}
