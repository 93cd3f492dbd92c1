package adapters

import (
	"context"
	"strconv"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// BMIAdapter shapes calculate_bmi calls.
type BMIAdapter struct {
	caller ToolCaller
}

// NewBMIAdapter creates a new BMI adapter.
func NewBMIAdapter(caller ToolCaller) *BMIAdapter {
	return &BMIAdapter{caller: caller}
}

// Calculate returns the BMI formatted to two decimals. Non-positive or
// non-finite inputs fail with InvalidArgument before any call is made.
func (a *BMIAdapter) Calculate(ctx context.Context, req domain.BMIRequest) (domain.BMIResult, error) {
	if err := req.Validate(); err != nil {
		return domain.BMIResult{}, err
	}

	res, err := a.caller.CallTool(ctx, domain.ToolCalculateBMI, map[string]interface{}{
		"weightKg": req.WeightKg,
		"heightCm": req.HeightCm,
	})
	if err != nil {
		return domain.BMIResult{}, err
	}
	return decodeBMI(res)
}

func decodeBMI(res *shared.CallToolResult) (domain.BMIResult, error) {
	text, err := resultText(res)
	if err != nil {
		return domain.BMIResult{}, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return domain.BMIResult{}, mcperrors.NewParseError("BMI result is not a number", text)
	}
	return domain.BMIResult{Value: domain.FormatBMI(v)}, nil
}
