package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// ChartType is the kind of chart to render.
type ChartType string

// Supported chart types.
const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
)

// Valid reports whether t is one of the supported chart types.
func (t ChartType) Valid() bool {
	switch t {
	case ChartBar, ChartLine, ChartPie, ChartScatter:
		return true
	}
	return false
}

// ChartFormat selects the generated artifact.
type ChartFormat string

// Artifact formats.
const (
	FormatHTML  ChartFormat = "html"
	FormatImage ChartFormat = "image"
)

// Default artifact dimensions in pixels.
const (
	DefaultChartWidth  = 800
	DefaultChartHeight = 400
)

// ChartSpec is the full input of the chart tool.
type ChartSpec struct {
	Type    ChartType     `json:"type"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
	Format  ChartFormat   `json:"format,omitempty"`
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
}

// ChartData holds the ordered labels and datasets.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series of a chart.
type Dataset struct {
	Label           string      `json:"label"`
	Data            []DataPoint `json:"data"`
	BackgroundColor Color       `json:"backgroundColor,omitempty"`
	BorderColor     Color       `json:"borderColor,omitempty"`
}

// ChartOptions tunes titles and interaction. Nil toggles mean enabled.
type ChartOptions struct {
	Title      string `json:"title,omitempty"`
	XAxisLabel string `json:"xAxisLabel,omitempty"`
	YAxisLabel string `json:"yAxisLabel,omitempty"`
	EnableZoom *bool  `json:"enableZoom,omitempty"`
	EnablePan  *bool  `json:"enablePan,omitempty"`
}

// ZoomEnabled reports the effective zoom toggle.
func (o *ChartOptions) ZoomEnabled() bool {
	return o == nil || o.EnableZoom == nil || *o.EnableZoom
}

// PanEnabled reports the effective pan toggle.
func (o *ChartOptions) PanEnabled() bool {
	return o == nil || o.EnablePan == nil || *o.EnablePan
}

// DataPoint is either a plain number or an {x, y} point. On the wire it is
// a JSON number or a JSON object.
type DataPoint struct {
	Value *float64
	X     *float64
	Y     *float64
}

// Value returns a numeric data point.
func Value(v float64) DataPoint {
	return DataPoint{Value: &v}
}

// Point returns an {x, y} data point.
func Point(x, y float64) DataPoint {
	return DataPoint{X: &x, Y: &y}
}

// IsNumber reports whether p is a plain number.
func (p DataPoint) IsNumber() bool {
	return p.Value != nil
}

// IsPoint reports whether p is an object with both x and y defined.
func (p DataPoint) IsPoint() bool {
	return p.Value == nil && p.X != nil && p.Y != nil
}

// MarshalJSON implements json.Marshaler.
func (p DataPoint) MarshalJSON() ([]byte, error) {
	if p.Value != nil {
		return json.Marshal(*p.Value)
	}
	obj := make(map[string]float64, 2)
	if p.X != nil {
		obj["x"] = *p.X
	}
	if p.Y != nil {
		obj["y"] = *p.Y
	}
	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler. Non-numeric coordinates are
// left unset so validation can report the offending point.
func (p *DataPoint) UnmarshalJSON(data []byte) error {
	*p = DataPoint{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '{' {
		var obj map[string]interface{}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if x, ok := obj["x"].(float64); ok {
			p.X = &x
		}
		if y, ok := obj["y"].(float64); ok {
			p.Y = &y
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		// Strings, booleans and arrays are kept as an empty point.
		return nil
	}
	p.Value = &v
	return nil
}

// Color is a single CSS color or one color per data point.
type Color []string

// MarshalJSON emits a string for a single color.
func (c Color) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// UnmarshalJSON accepts a string or an array of strings. null leaves the
// color unset.
func (c *Color) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = Color{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("color must be a string or an array of strings: %w", err)
	}
	*c = many
	return nil
}

// WithDefaults fills the format and dimensions.
func (s ChartSpec) WithDefaults() ChartSpec {
	if s.Format == "" {
		s.Format = FormatHTML
	}
	if s.Width == 0 {
		s.Width = DefaultChartWidth
	}
	if s.Height == 0 {
		s.Height = DefaultChartHeight
	}
	return s
}

// Validate checks the spec in a fixed order: chart type, labels and
// datasets, each dataset, scatter points, then format and dimensions.
func (s *ChartSpec) Validate() error {
	if !s.Type.Valid() {
		return mcperrors.NewUnsupportedChartTypeError(string(s.Type))
	}

	if len(s.Data.Labels) == 0 {
		return mcperrors.NewInvalidChartDataError("labels are required")
	}
	if len(s.Data.Datasets) == 0 {
		return mcperrors.NewInvalidChartDataError("at least one dataset is required")
	}

	for i, ds := range s.Data.Datasets {
		if ds.Label == "" {
			return mcperrors.NewInvalidDatasetError(i, "label is required")
		}
		if len(ds.Data) == 0 {
			return mcperrors.NewInvalidDatasetError(i, "data is required")
		}
		if s.Type == ChartScatter {
			continue
		}
		for j, p := range ds.Data {
			if !p.IsNumber() {
				return mcperrors.NewInvalidDatasetError(i, fmt.Sprintf("point %d: %s charts require numeric data", j, s.Type))
			}
		}
	}

	if s.Type == ChartScatter {
		for i, ds := range s.Data.Datasets {
			for j, p := range ds.Data {
				if !p.IsPoint() {
					return mcperrors.NewInvalidScatterPointError(i, j)
				}
			}
		}
	}

	switch s.Format {
	case "", FormatHTML, FormatImage:
	default:
		return mcperrors.NewInvalidArgumentError(fmt.Sprintf("unsupported chart format: %s", s.Format), s.Format)
	}
	if s.Width < 0 || s.Height < 0 {
		return mcperrors.NewInvalidArgumentError("width and height must not be negative", nil)
	}
	return nil
}
