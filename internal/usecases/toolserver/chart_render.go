package toolserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"regexp"

	"github.com/pkg/errors"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
)

// ChartConfig is the Chart.js configuration embedded in generated documents.
type ChartConfig struct {
	Type    domain.ChartType `json:"type"`
	Data    domain.ChartData `json:"data"`
	Options ChartJSOptions   `json:"options"`
}

// ChartJSOptions is the derived Chart.js options block.
type ChartJSOptions struct {
	Responsive bool         `json:"responsive"`
	Plugins    ChartPlugins `json:"plugins"`
	Scales     ChartScales  `json:"scales"`
}

// ChartPlugins configures zoom, legend and title.
type ChartPlugins struct {
	Zoom   ZoomPlugin `json:"zoom"`
	Legend struct {
		Position string `json:"position"`
	} `json:"legend"`
	Title ChartTitle `json:"title"`
}

// ZoomPlugin configures chartjs-plugin-zoom.
type ZoomPlugin struct {
	Zoom struct {
		Wheel Toggle `json:"wheel"`
		Pinch Toggle `json:"pinch"`
		Mode  string `json:"mode"`
	} `json:"zoom"`
	Pan struct {
		Enabled bool   `json:"enabled"`
		Mode    string `json:"mode"`
	} `json:"pan"`
}

// Toggle is an {enabled} object.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

// ChartTitle is a displayable title.
type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text,omitempty"`
}

// ChartScales holds the axis titles.
type ChartScales struct {
	X struct {
		Title ChartTitle `json:"title"`
	} `json:"x"`
	Y struct {
		Title ChartTitle `json:"title"`
	} `json:"y"`
}

// BuildChartConfig derives the Chart.js configuration. Axis titles are shown
// only when set; zoom and pan default to enabled; the title defaults to
// "Chart".
func BuildChartConfig(spec domain.ChartSpec) ChartConfig {
	cfg := ChartConfig{Type: spec.Type, Data: spec.Data}
	opts := spec.Options

	cfg.Options.Responsive = true
	zoom := opts.ZoomEnabled()
	cfg.Options.Plugins.Zoom.Zoom.Wheel.Enabled = zoom
	cfg.Options.Plugins.Zoom.Zoom.Pinch.Enabled = zoom
	cfg.Options.Plugins.Zoom.Zoom.Mode = "xy"
	cfg.Options.Plugins.Zoom.Pan.Enabled = opts.PanEnabled()
	cfg.Options.Plugins.Zoom.Pan.Mode = "xy"
	cfg.Options.Plugins.Legend.Position = "top"

	cfg.Options.Plugins.Title = ChartTitle{Display: true, Text: "Chart"}
	if opts != nil {
		if opts.Title != "" {
			cfg.Options.Plugins.Title.Text = opts.Title
		}
		cfg.Options.Scales.X.Title = ChartTitle{Display: opts.XAxisLabel != "", Text: opts.XAxisLabel}
		cfg.Options.Scales.Y.Title = ChartTitle{Display: opts.YAxisLabel != "", Text: opts.YAxisLabel}
	}
	return cfg
}

var chartTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/chartjs-plugin-zoom@2.0.0"></script>
    <style>
      body { margin: 0; padding: 20px; font-family: Arial, sans-serif; }
      .chart-container { width: 100%; max-width: {{.Width}}px; margin: 0 auto; }
      .error-message { color: red; padding: 10px; border: 1px solid red; margin: 10px 0; }
    </style>
  </head>
  <body>
    <div class="chart-container">
      <canvas id="chart" width="{{.Width}}" height="{{.Height}}"></canvas>
    </div>
    <script>
      try {
        if (typeof Chart === 'undefined') {
          throw new Error("Chart.js failed to load");
        }
        if (typeof ChartZoom !== 'undefined') {
          Chart.register(ChartZoom.default || ChartZoom);
        }
const config = {{.Config}};
        const ctx = document.getElementById('chart').getContext('2d');
        new Chart(ctx, config);
      } catch (error) {
        document.querySelector('.chart-container').innerHTML =
          '<div class="error-message">Error rendering chart: ' + error.message + '</div>';
      }
    </script>
  </body>
</html>
`))

type chartPage struct {
	Title  string
	Width  int
	Height int
	Config template.JS
}

// RenderHTML produces a self-contained Chart.js document for spec.
func RenderHTML(spec domain.ChartSpec) (string, error) {
	spec = spec.WithDefaults()
	cfg := BuildChartConfig(spec)

	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode chart config")
	}

	var buf bytes.Buffer
	err = chartTemplate.Execute(&buf, chartPage{
		Title:  cfg.Options.Plugins.Title.Text,
		Width:  spec.Width,
		Height: spec.Height,
		// json.Marshal escapes <, > and & so the literal cannot close the script.
		Config: template.JS(raw),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to render chart template")
	}
	return buf.String(), nil
}

var configLine = regexp.MustCompile(`(?m)^const config = (.*);$`)

// ParseChartHTML extracts the embedded configuration from a document
// produced by RenderHTML.
func ParseChartHTML(doc string) (*ChartConfig, error) {
	m := configLine.FindStringSubmatch(doc)
	if m == nil {
		return nil, errors.New("chart config not found in document")
	}
	var cfg ChartConfig
	if err := json.Unmarshal([]byte(m[1]), &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode chart config")
	}
	return &cfg, nil
}

// RenderPNG renders a white width x height canvas with plot axes and returns
// it base64 encoded.
func RenderPNG(spec domain.ChartSpec) (string, error) {
	spec = spec.WithDefaults()
	img := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if spec.Type != domain.ChartPie && spec.Width > 20 && spec.Height > 20 {
		axis := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
		for x := 10; x < spec.Width-10; x++ {
			img.Set(x, spec.Height-10, axis)
		}
		for y := 10; y < spec.Height-10; y++ {
			img.Set(10, y, axis)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "failed to encode png")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
