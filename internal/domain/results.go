package domain

import "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"

// ToolKind tags a ToolResult variant.
type ToolKind string

// Result kinds.
const (
	KindBMI     ToolKind = "bmi"
	KindFetch   ToolKind = "fetch"
	KindChart   ToolKind = "chart"
	KindGeneric ToolKind = "generic"
)

// ToolResult is the tagged result of a tool call, resolved by the adapter
// that owns the tool.
type ToolResult interface {
	Kind() ToolKind
}

// BMIResult is the BMI formatted to exactly two decimals.
type BMIResult struct {
	Value string
}

// Kind implements ToolResult.
func (BMIResult) Kind() ToolKind { return KindBMI }

// String returns the formatted value.
func (r BMIResult) String() string { return r.Value }

// FetchResult is the decoded response of a fetch_json call. Header names are
// lower-cased.
type FetchResult struct {
	Data    interface{}       `json:"data"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
}

// Kind implements ToolResult.
func (FetchResult) Kind() ToolKind { return KindFetch }

// ChartArtifact is a rendered chart. Content is an HTML document for
// FormatHTML and a data URI for FormatImage.
type ChartArtifact struct {
	Format   ChartFormat
	MIMEType string
	Content  string
}

// Kind implements ToolResult.
func (ChartArtifact) Kind() ToolKind { return KindChart }

// GenericResult is the raw content of a tool without a dedicated adapter.
type GenericResult struct {
	Content []shared.Content
}

// Kind implements ToolResult.
func (GenericResult) Kind() ToolKind { return KindGeneric }

// PromptResult is a rendered prompt.
type PromptResult struct {
	Description string
	Messages    []shared.PromptMessage
}
