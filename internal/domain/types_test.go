package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"

	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

func TestNewClientSession(t *testing.T) {
	tests := []struct {
		name       string
		clientName string
	}{
		{name: "Named client", clientName: "dashboard"},
		{name: "Empty name", clientName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewClientSession(tt.clientName)

			if _, err := uuid.Parse(got.ID); err != nil {
				t.Errorf("NewClientSession().ID = %v is not a valid UUID", got.ID)
			}
			if got.ClientName != tt.clientName {
				t.Errorf("NewClientSession().ClientName = %v, want %v", got.ClientName, tt.clientName)
			}
			if got.CreatedAt.IsZero() {
				t.Errorf("NewClientSession().CreatedAt is zero")
			}
		})
	}

	if NewClientSession("a").ID == NewClientSession("a").ID {
		t.Errorf("NewClientSession() returned duplicate IDs")
	}
}

func TestConnectionStateString(t *testing.T) {
	tests := []struct {
		state ConnectionState
		want  string
	}{
		{Disconnected, "disconnected"},
		{Connecting, "connecting"},
		{Connected, "connected"},
		{ConnectionState(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ConnectionState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestToolDescriptorClone(t *testing.T) {
	orig := ToolDescriptor{
		Name:        ToolCalculateBMI,
		Description: "Calculate BMI",
		InputSchema: map[string]interface{}{"type": "object"},
	}

	clone := orig.Clone()
	clone.InputSchema["type"] = "array"
	clone.Name = "changed"

	if orig.InputSchema["type"] != "object" {
		t.Errorf("Clone() shares the schema map with the original")
	}
	if orig.Name != ToolCalculateBMI {
		t.Errorf("Clone() modified the original name")
	}

	nested := ToolDescriptor{
		Name: "nested",
		InputSchema: map[string]interface{}{
			"properties": map[string]interface{}{"url": map[string]interface{}{"type": "string"}},
			"required":   []interface{}{"url"},
			"enum":       []string{"GET", "POST"},
		},
	}
	deep := nested.Clone()
	deep.InputSchema["properties"].(map[string]interface{})["url"].(map[string]interface{})["type"] = "number"
	deep.InputSchema["required"].([]interface{})[0] = "body"
	deep.InputSchema["enum"].([]string)[0] = "PUT"

	props := nested.InputSchema["properties"].(map[string]interface{})
	if props["url"].(map[string]interface{})["type"] != "string" {
		t.Errorf("Clone() shares nested schema maps with the original")
	}
	if nested.InputSchema["required"].([]interface{})[0] != "url" {
		t.Errorf("Clone() shares schema slices with the original")
	}
	if nested.InputSchema["enum"].([]string)[0] != "GET" {
		t.Errorf("Clone() shares string slices with the original")
	}

	empty := ToolDescriptor{Name: "x"}.Clone()
	if empty.InputSchema != nil {
		t.Errorf("Clone() of nil schema = %v, want nil", empty.InputSchema)
	}
}

func TestResultKinds(t *testing.T) {
	tests := []struct {
		result ToolResult
		want   ToolKind
	}{
		{BMIResult{Value: "22.86"}, KindBMI},
		{FetchResult{Status: 200}, KindFetch},
		{ChartArtifact{Format: FormatHTML}, KindChart},
		{GenericResult{}, KindGeneric},
	}

	for _, tt := range tests {
		if got := tt.result.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestBMIRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     BMIRequest
		want    string
		wantErr bool
	}{
		{name: "typical adult", req: BMIRequest{WeightKg: 70, HeightCm: 175}, want: "22.86"},
		{name: "round", req: BMIRequest{WeightKg: 100, HeightCm: 200}, want: "25.00"},
		{name: "zero weight", req: BMIRequest{WeightKg: 0, HeightCm: 175}, wantErr: true},
		{name: "negative height", req: BMIRequest{WeightKg: 70, HeightCm: -1}, wantErr: true},
		{name: "NaN", req: BMIRequest{WeightKg: math.NaN(), HeightCm: 175}, wantErr: true},
		{name: "Inf", req: BMIRequest{WeightKg: 70, HeightCm: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				if !mcperrors.IsInvalidArgument(err) {
					t.Errorf("Validate() = %v, want InvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if got := FormatBMI(tt.req.BMI()); got != tt.want {
				t.Errorf("FormatBMI(BMI()) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchRequestValidate(t *testing.T) {
	tests := []struct {
		name       string
		req        FetchRequest
		wantMethod string
		wantErr    bool
	}{
		{name: "get", req: FetchRequest{URL: "http://x", Method: "GET"}, wantMethod: "GET"},
		{name: "lower post", req: FetchRequest{URL: "http://x", Method: "post"}, wantMethod: "POST"},
		{name: "default method", req: FetchRequest{URL: "http://x"}, wantMethod: "GET"},
		{name: "empty url", req: FetchRequest{URL: " ", Method: "GET"}, wantErr: true},
		{name: "put", req: FetchRequest{URL: "http://x", Method: "PUT"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := req.Validate()
			if tt.wantErr {
				if !mcperrors.IsInvalidArgument(err) {
					t.Errorf("Validate() = %v, want InvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", req.Method, tt.wantMethod)
			}
		})
	}
}
