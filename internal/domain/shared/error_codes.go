package shared

// MCP-specific error codes
const (
	// Connection error codes
	NotConnected ErrorCode = -32100

	// Tool error codes
	ToolNotFound ErrorCode = -32200

	// Chart error codes
	UnsupportedChartType ErrorCode = -32210
	InvalidChartData     ErrorCode = -32211
	InvalidDataset       ErrorCode = -32212
	InvalidScatterPoint  ErrorCode = -32213

	// Fetch error codes
	FetchNetworkError ErrorCode = -32220
	FetchParseError   ErrorCode = -32221
)
