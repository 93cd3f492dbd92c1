package toolserver

import (
	"context"
	"fmt"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/pkg/tools"
)

// BMIHandler implements calculate_bmi.
type BMIHandler struct{}

// NewBMIHandler creates a new BMI handler
func NewBMIHandler() *BMIHandler {
	return &BMIHandler{}
}

// Definition implements handler.ToolHandler.
func (h *BMIHandler) Definition() shared.Tool {
	return tools.NewTool(domain.ToolCalculateBMI,
		tools.WithDescription("Calculate BMI based on weight and height"),
		tools.WithNumber("weightKg", tools.Description("Weight in kilograms"), tools.Required()),
		tools.WithNumber("heightCm", tools.Description("Height in centimeters"), tools.Required()),
	)
}

// Call returns the BMI formatted to two decimals as a single text block.
func (h *BMIHandler) Call(ctx context.Context, arguments map[string]interface{}) ([]shared.Content, error) {
	weight, err := numberArg(arguments, "weightKg")
	if err != nil {
		return nil, err
	}
	height, err := numberArg(arguments, "heightCm")
	if err != nil {
		return nil, err
	}

	req := domain.BMIRequest{WeightKg: weight, HeightCm: height}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return textResult(domain.FormatBMI(req.BMI())), nil
}

func numberArg(args map[string]interface{}, name string) (float64, error) {
	switch v := args[name].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case nil:
		return 0, mcperrors.NewInvalidArgumentError(fmt.Sprintf("parameter '%s' is required", name), nil)
	default:
		return 0, mcperrors.NewInvalidArgumentError(fmt.Sprintf("parameter '%s' must be a number", name), v)
	}
}
