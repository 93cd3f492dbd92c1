package domain

import "fmt"

// Operation names used to prefix session errors.
const (
	OpConnect       = "connecting to MCP server"
	OpCalculateBMI  = "calculating BMI"
	OpFetchJSON     = "fetching JSON"
	OpGenerateChart = "generating chart"
	OpGetPrompt     = "getting prompt"
)

// OpCallTool returns the operation name of a generic tool call.
func OpCallTool(name string) string {
	return fmt.Sprintf("calling tool %s", name)
}

// OperationError is a failure of one session operation. Its message is the
// human-readable text published as the session error.
type OperationError struct {
	Operation string
	Err       error
}

// Error returns the error message.
func (e *OperationError) Error() string {
	return fmt.Sprintf("Error %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(operation string, err error) *OperationError {
	return &OperationError{
		Operation: operation,
		Err:       err,
	}
}
