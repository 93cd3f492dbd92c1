// Package types exposes the public types of the MCP session client.
package types

import (
	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/transport"
)

// Connection state.
type ConnectionState = domain.ConnectionState

// Connection states.
const (
	Disconnected = domain.Disconnected
	Connecting   = domain.Connecting
	Connected    = domain.Connected
)

// Catalog and call types.
type (
	ToolDescriptor  = domain.ToolDescriptor
	ToolCallRequest = domain.ToolCallRequest
	FetchRequest    = domain.FetchRequest
	BMIRequest      = domain.BMIRequest
)

// Chart types.
type (
	ChartSpec    = domain.ChartSpec
	ChartType    = domain.ChartType
	ChartFormat  = domain.ChartFormat
	ChartData    = domain.ChartData
	ChartOptions = domain.ChartOptions
	Dataset      = domain.Dataset
	DataPoint    = domain.DataPoint
	Color        = domain.Color
)

// Chart kinds and formats.
const (
	ChartBar     = domain.ChartBar
	ChartLine    = domain.ChartLine
	ChartPie     = domain.ChartPie
	ChartScatter = domain.ChartScatter
	FormatHTML   = domain.FormatHTML
	FormatImage  = domain.FormatImage
)

// Value returns a numeric data point.
func Value(v float64) DataPoint { return domain.Value(v) }

// Point returns an {x, y} data point.
func Point(x, y float64) DataPoint { return domain.Point(x, y) }

// Results.
type (
	ToolResult    = domain.ToolResult
	BMIResult     = domain.BMIResult
	FetchResult   = domain.FetchResult
	ChartArtifact = domain.ChartArtifact
	GenericResult = domain.GenericResult
	PromptResult  = domain.PromptResult
)

// Wire types.
type (
	Tool           = shared.Tool
	Content        = shared.Content
	CallToolResult = shared.CallToolResult
	Prompt         = shared.Prompt
	PromptMessage  = shared.PromptMessage
)

// Errors.
type (
	MCPError       = mcperrors.MCPError
	ErrorCode      = mcperrors.ErrorCode
	OperationError = domain.OperationError
)

// Transport is the boundary a session talks to a server through.
type Transport = transport.Transport

// HTTPDoer is the HTTP boundary of the fetch tool.
type HTTPDoer = domain.HTTPDoer
