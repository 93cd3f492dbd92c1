package toolserver

import (
	"context"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
	"github.com/FreePeak/golang-mcp-session-client/pkg/tools"
)

// MaxChartDimension bounds the width and height of generated artifacts.
const MaxChartDimension = 4096

// ChartHandler implements generate_chart.
type ChartHandler struct{}

// NewChartHandler creates a new chart handler.
func NewChartHandler() *ChartHandler {
	return &ChartHandler{}
}

// Definition implements handler.ToolHandler.
func (h *ChartHandler) Definition() shared.Tool {
	return tools.NewTool(domain.ToolGenerateChart,
		tools.WithDescription("Generate interactive charts from provided data"),
		tools.WithString("type", tools.Description("Chart type"), tools.Enum("bar", "line", "pie", "scatter"), tools.Required()),
		tools.WithObject("data", tools.Description("Object with labels and datasets"), tools.Required()),
		tools.WithObject("options", tools.Description("Title, axis labels and zoom/pan toggles")),
		tools.WithString("format", tools.Enum(string(domain.FormatHTML), string(domain.FormatImage)), tools.Default(string(domain.FormatHTML))),
		tools.WithNumber("width", tools.Default(domain.DefaultChartWidth)),
		tools.WithNumber("height", tools.Default(domain.DefaultChartHeight)),
	)
}

// Call validates the spec and renders it. HTML is returned as a text block,
// images as a base64 PNG image block.
func (h *ChartHandler) Call(ctx context.Context, arguments map[string]interface{}) ([]shared.Content, error) {
	var spec domain.ChartSpec
	if err := decodeArgs(arguments, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	spec = spec.WithDefaults()
	if spec.Width > MaxChartDimension || spec.Height > MaxChartDimension {
		return nil, mcperrors.NewInvalidArgumentError("chart dimensions exceed the maximum", MaxChartDimension)
	}

	if spec.Format == domain.FormatImage {
		data, err := RenderPNG(spec)
		if err != nil {
			return nil, mcperrors.NewUnknownError("failed to render chart image", err)
		}
		return []shared.Content{shared.NewImageContent(data, "image/png")}, nil
	}

	html, err := RenderHTML(spec)
	if err != nil {
		return nil, mcperrors.NewUnknownError("failed to render chart document", err)
	}
	return textResult(html), nil
}
