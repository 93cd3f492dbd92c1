package domain

import (
	"errors"
	"testing"

	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

func TestOperationError(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		err       error
		want      string
	}{
		{
			name:      "BMI",
			operation: OpCalculateBMI,
			err:       mcperrors.NewNotConnectedError("", nil),
			want:      "Error calculating BMI: not connected",
		},
		{
			name:      "Connect",
			operation: OpConnect,
			err:       errors.New("refused"),
			want:      "Error connecting to MCP server: refused",
		},
		{
			name:      "Generic tool",
			operation: OpCallTool("echo"),
			err:       mcperrors.NewUnknownToolError("echo"),
			want:      "Error calling tool echo: Unknown tool: echo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewOperationError(tt.operation, tt.err)
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("errors.Is(err, cause) = false, want true")
			}
		})
	}
}

func TestOperationErrorKeepsCode(t *testing.T) {
	err := NewOperationError(OpGenerateChart, mcperrors.NewUnsupportedChartTypeError("radar"))

	if !mcperrors.IsUnsupportedChartType(err) {
		t.Errorf("IsUnsupportedChartType() = false, want true")
	}
	if got := mcperrors.CodeOf(err); got != mcperrors.UnsupportedChartType {
		t.Errorf("CodeOf() = %v, want %v", got, mcperrors.UnsupportedChartType)
	}
}
