package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTool(t *testing.T) {
	tool := NewTool("calculate_bmi",
		WithDescription("Calculate BMI based on weight and height"),
		WithNumber("weightKg", Description("Weight in kilograms"), Required()),
		WithNumber("heightCm", Required()),
		WithString("unit", Enum("metric"), Default("metric")),
	)

	assert.Equal(t, "calculate_bmi", tool.Name)
	assert.Equal(t, "Calculate BMI based on weight and height", tool.Description)
	assert.Equal(t, "object", tool.InputSchema["type"])

	props, ok := tool.InputSchema["properties"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, props, 3)

	weight := props["weightKg"].(map[string]interface{})
	assert.Equal(t, "number", weight["type"])
	assert.Equal(t, "Weight in kilograms", weight["description"])

	unit := props["unit"].(map[string]interface{})
	assert.Equal(t, []string{"metric"}, unit["enum"])
	assert.Equal(t, "metric", unit["default"])

	assert.Equal(t, []string{"weightKg", "heightCm"}, tool.InputSchema["required"])
}

func TestNewToolWithoutParameters(t *testing.T) {
	tool := NewTool("ping")
	_, hasRequired := tool.InputSchema["required"]
	assert.False(t, hasRequired)
	assert.Empty(t, tool.InputSchema["properties"])
}

func TestDescriptor(t *testing.T) {
	tool := NewTool("x", WithDescription("d"), WithBoolean("flag"))
	d := Descriptor(tool)
	assert.Equal(t, "x", d.Name)
	assert.Equal(t, "d", d.Description)
	assert.Contains(t, d.InputSchema["properties"], "flag")
}
