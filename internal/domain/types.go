// Package domain defines the core entities of the MCP client session.
package domain

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// Names of the built-in tools.
const (
	ToolCalculateBMI  = "calculate_bmi"
	ToolFetchJSON     = "fetch_json"
	ToolGenerateChart = "generate_chart"
)

// ConnectionState is the session-wide connection state.
type ConnectionState int

// Connection states. Connecting is transient: every connect attempt ends in
// Connected or Disconnected before it returns.
const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// ClientSession identifies one logical client lifetime.
type ClientSession struct {
	ID         string
	ClientName string
	CreatedAt  time.Time
}

// NewClientSession creates a new ClientSession with a unique ID.
func NewClientSession(clientName string) *ClientSession {
	return &ClientSession{
		ID:         uuid.New().String(),
		ClientName: clientName,
		CreatedAt:  time.Now(),
	}
}

// ToolDescriptor describes a callable tool. Descriptors are immutable once
// listed; callers receive copies.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema,omitempty"`
}

// Clone returns a copy that shares no map or slice with the receiver, at
// any depth of the schema.
func (d ToolDescriptor) Clone() ToolDescriptor {
	out := d
	if d.InputSchema != nil {
		out.InputSchema = cloneMap(d.InputSchema)
	}
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if val == nil {
			return val
		}
		return cloneMap(val)
	case []interface{}:
		if val == nil {
			return val
		}
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		if val == nil {
			return val
		}
		return append([]string(nil), val...)
	default:
		return v
	}
}

// ToolCallRequest is created per call and never persisted.
type ToolCallRequest struct {
	ToolName string
	Args     map[string]interface{}
}

// FetchRequest is the input of the fetch_json tool.
type FetchRequest struct {
	URL    string                 `json:"url"`
	Method string                 `json:"method"`
	Body   map[string]interface{} `json:"body,omitempty"`
}

// Validate normalizes Method to upper case and checks the URL and method.
func (r *FetchRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return mcperrors.NewInvalidArgumentError("url must not be empty", nil)
	}
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return mcperrors.NewInvalidArgumentError(fmt.Sprintf("unsupported method: %s", r.Method), r.Method)
	}
	r.Method = method
	return nil
}

// BMIRequest is the input of the calculate_bmi tool.
type BMIRequest struct {
	WeightKg float64 `json:"weightKg"`
	HeightCm float64 `json:"heightCm"`
}

// Validate requires both values to be finite and strictly positive.
func (r BMIRequest) Validate() error {
	if !positive(r.WeightKg) {
		return mcperrors.NewInvalidArgumentError("weightKg must be a positive number", r.WeightKg)
	}
	if !positive(r.HeightCm) {
		return mcperrors.NewInvalidArgumentError("heightCm must be a positive number", r.HeightCm)
	}
	return nil
}

// BMI returns weight / (height in meters)^2.
func (r BMIRequest) BMI() float64 {
	m := r.HeightCm / 100
	return r.WeightKg / (m * m)
}

// FormatBMI renders a BMI with exactly two decimals.
func FormatBMI(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
