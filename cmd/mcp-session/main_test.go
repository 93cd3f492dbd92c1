package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/config"
	"github.com/FreePeak/golang-mcp-session-client/internal/infrastructure/logging"
)

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation = config.SimulationConfig{}
	return cfg
}

func TestRunCommands(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "tools", args: []string{"tools"}, want: "generate_chart"},
		{name: "bmi", args: []string{"bmi", "-weight", "70", "-height", "175"}, want: "22.86"},
		{name: "chart from stdin", args: []string{"chart"}, stdin: `{"type":"bar","data":{"labels":["a"],"datasets":[{"label":"s","data":[1]}]}}`, want: "text/html"},
		{name: "call", args: []string{"call", "-name", "calculate_bmi", "-args", `{"weightKg":70,"heightCm":175}`}, want: "22.86"},
		{name: "prompt", args: []string{"prompt", "-name", "greeting"}, want: "mock prompt for greeting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), fastConfig(), logging.NewNop(), tt.args, strings.NewReader(tt.stdin), &out)
			require.NoError(t, err)
			assert.True(t, json.Valid(out.Bytes()))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no command", args: nil, want: "Usage"},
		{name: "unknown command", args: []string{"dance"}, want: `unknown command "dance"`},
		{name: "invalid bmi", args: []string{"bmi", "-weight", "0", "-height", "175"}, want: "Error calculating BMI: "},
		{name: "bad args json", args: []string{"call", "-name", "x", "-args", "{"}, want: "invalid -args"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), fastConfig(), logging.NewNop(), tt.args, strings.NewReader(""), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
