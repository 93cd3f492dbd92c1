// Package errors defines the error taxonomy shared by the session, the
// protocol client, the tool adapters and the tool server.
package errors

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
)

// ErrorCode represents the kind of error
type ErrorCode int

const (
	// UnknownError is the catch-all kind
	UnknownError ErrorCode = iota
	// NotConnected indicates an operation that needs a live connection
	NotConnected
	// UnknownTool indicates a tool name missing from the catalog
	UnknownTool
	// InvalidArgument indicates bad tool arguments
	InvalidArgument
	// InvalidChartData indicates missing labels or datasets
	InvalidChartData
	// InvalidDataset indicates a dataset without label or data
	InvalidDataset
	// InvalidScatterPoint indicates a scatter point without numeric x and y
	InvalidScatterPoint
	// UnsupportedChartType indicates a chart type outside bar/line/pie/scatter
	UnsupportedChartType
	// NetworkError indicates a transport failure
	NetworkError
	// ParseError indicates an unparseable response body
	ParseError
)

var codeNames = map[ErrorCode]string{
	UnknownError:         "unknown_error",
	NotConnected:         "not_connected",
	UnknownTool:          "unknown_tool",
	InvalidArgument:      "invalid_argument",
	InvalidChartData:     "invalid_chart_data",
	InvalidDataset:       "invalid_dataset",
	InvalidScatterPoint:  "invalid_scatter_point",
	UnsupportedChartType: "unsupported_chart_type",
	NetworkError:         "network_error",
	ParseError:           "parse_error",
}

// String returns the snake_case name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error_code(%d)", int(c))
}

// MCPError is the structured error raised by every layer of the client
type MCPError struct {
	Code    ErrorCode
	Message string
	Data    interface{}
	Err     error
}

// Error returns the error message
func (e *MCPError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *MCPError) Unwrap() error {
	return e.Err
}

// NewNotConnectedError creates a new not connected error
func NewNotConnectedError(message string, cause error) *MCPError {
	if message == "" {
		message = "not connected"
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &MCPError{Code: NotConnected, Message: message, Err: cause}
}

// NewUnknownToolError creates a new unknown tool error
func NewUnknownToolError(name string) *MCPError {
	return &MCPError{
		Code:    UnknownTool,
		Message: fmt.Sprintf("Unknown tool: %s", name),
		Data:    name,
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string, data interface{}) *MCPError {
	return &MCPError{Code: InvalidArgument, Message: message, Data: data}
}

// NewUnsupportedChartTypeError creates a new unsupported chart type error
func NewUnsupportedChartTypeError(chartType string) *MCPError {
	return &MCPError{
		Code:    UnsupportedChartType,
		Message: fmt.Sprintf("Unsupported chart type: %s", chartType),
		Data:    chartType,
	}
}

// NewInvalidChartDataError creates a new invalid chart data error
func NewInvalidChartDataError(message string) *MCPError {
	return &MCPError{
		Code:    InvalidChartData,
		Message: fmt.Sprintf("Invalid chart data structure: %s", message),
	}
}

// NewInvalidDatasetError creates a new invalid dataset error naming the dataset index
func NewInvalidDatasetError(index int, reason string) *MCPError {
	return &MCPError{
		Code:    InvalidDataset,
		Message: fmt.Sprintf("Invalid dataset %d: %s", index, reason),
		Data:    DatasetDetail{Dataset: index},
	}
}

// NewInvalidScatterPointError creates a new invalid scatter point error
func NewInvalidScatterPointError(dataset, point int) *MCPError {
	return &MCPError{
		Code:    InvalidScatterPoint,
		Message: fmt.Sprintf("Scatter plots require data points in {x, y} format (dataset %d, point %d)", dataset, point),
		Data:    PointDetail{Dataset: dataset, Point: point},
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *MCPError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &MCPError{Code: NetworkError, Message: message, Err: cause}
}

// NewParseError creates a new parse error carrying the raw body text
func NewParseError(message string, raw string) *MCPError {
	return &MCPError{Code: ParseError, Message: message, Data: RawBody{Text: raw}}
}

// NewUnknownError creates a new catch-all error
func NewUnknownError(message string, cause error) *MCPError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &MCPError{Code: UnknownError, Message: message, Err: cause}
}

// Wrap adds context to an error, keeping its code when it is an MCPError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if !errors.As(err, &mcpErr) {
		return &MCPError{
			Code:    UnknownError,
			Message: fmt.Sprintf("%s: %v", message, err),
			Err:     err,
		}
	}

	return &MCPError{
		Code:    mcpErr.Code,
		Message: fmt.Sprintf("%s: %s", message, mcpErr.Message),
		Data:    mcpErr.Data,
		Err:     err,
	}
}

// CodeOf returns the code of the first MCPError in the chain, or UnknownError
func CodeOf(err error) ErrorCode {
	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr.Code
	}
	return UnknownError
}

func hasCode(err error, code ErrorCode) bool {
	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr.Code == code
	}
	return false
}

// IsNotConnected checks if an error is a not connected error
func IsNotConnected(err error) bool { return hasCode(err, NotConnected) }

// IsUnknownTool checks if an error is an unknown tool error
func IsUnknownTool(err error) bool { return hasCode(err, UnknownTool) }

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool { return hasCode(err, InvalidArgument) }

// IsInvalidChartData checks if an error is an invalid chart data error
func IsInvalidChartData(err error) bool { return hasCode(err, InvalidChartData) }

// IsInvalidDataset checks if an error is an invalid dataset error
func IsInvalidDataset(err error) bool { return hasCode(err, InvalidDataset) }

// IsInvalidScatterPoint checks if an error is an invalid scatter point error
func IsInvalidScatterPoint(err error) bool { return hasCode(err, InvalidScatterPoint) }

// IsUnsupportedChartType checks if an error is an unsupported chart type error
func IsUnsupportedChartType(err error) bool { return hasCode(err, UnsupportedChartType) }

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool { return hasCode(err, NetworkError) }

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool { return hasCode(err, ParseError) }

var wireCodes = map[ErrorCode]shared.ErrorCode{
	UnknownError:         shared.InternalError,
	NotConnected:         shared.NotConnected,
	UnknownTool:          shared.ToolNotFound,
	InvalidArgument:      shared.InvalidParams,
	InvalidChartData:     shared.InvalidChartData,
	InvalidDataset:       shared.InvalidDataset,
	InvalidScatterPoint:  shared.InvalidScatterPoint,
	UnsupportedChartType: shared.UnsupportedChartType,
	NetworkError:         shared.FetchNetworkError,
	ParseError:           shared.FetchParseError,
}

// ToJSONRPC converts an error into a JSON-RPC error object
func ToJSONRPC(err error) *shared.JSONRPCError {
	var mcpErr *MCPError
	if !errors.As(err, &mcpErr) {
		return &shared.JSONRPCError{
			Code:    int(shared.InternalError),
			Message: err.Error(),
		}
	}
	return &shared.JSONRPCError{
		Code:    int(wireCodes[mcpErr.Code]),
		Message: mcpErr.Message,
		Data:    mcpErr.Data,
	}
}

// FromJSONRPC converts a JSON-RPC error object received from a server back
// into an MCPError, restoring typed details where the code defines them.
func FromJSONRPC(rpcErr *shared.JSONRPCError) *MCPError {
	code := UnknownError
	for c, wire := range wireCodes {
		if int(wire) == rpcErr.Code {
			code = c
			break
		}
	}

	mcpErr := &MCPError{Code: code, Message: rpcErr.Message, Data: rpcErr.Data}
	switch code {
	case InvalidDataset:
		var detail DatasetDetail
		if decodeData(rpcErr.Data, &detail) {
			mcpErr.Data = detail
		}
	case InvalidScatterPoint:
		var detail PointDetail
		if decodeData(rpcErr.Data, &detail) {
			mcpErr.Data = detail
		}
	case ParseError:
		var raw RawBody
		if decodeData(rpcErr.Data, &raw) {
			mcpErr.Data = raw
		}
	}
	return mcpErr
}

func decodeData(data interface{}, out interface{}) bool {
	if data == nil {
		return false
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
