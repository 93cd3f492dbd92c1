package adapters

import (
	"context"
	"strings"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain"
	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

const (
	htmlMIMEType = "text/html"
	pngMIMEType  = "image/png"
)

// ChartAdapter shapes generate_chart calls.
type ChartAdapter struct {
	caller ToolCaller
}

// NewChartAdapter creates a new chart adapter.
func NewChartAdapter(caller ToolCaller) *ChartAdapter {
	return &ChartAdapter{caller: caller}
}

// Generate validates spec and renders it through the server. Validation
// failures are reported in the order type, data, datasets, scatter points.
func (a *ChartAdapter) Generate(ctx context.Context, spec domain.ChartSpec) (domain.ChartArtifact, error) {
	if err := spec.Validate(); err != nil {
		return domain.ChartArtifact{}, err
	}
	spec = spec.WithDefaults()

	args, err := toArgs(spec)
	if err != nil {
		return domain.ChartArtifact{}, err
	}

	res, err := a.caller.CallTool(ctx, domain.ToolGenerateChart, args)
	if err != nil {
		return domain.ChartArtifact{}, err
	}
	return decodeChart(res, spec.Format)
}

// decodeChart builds the artifact from the first content block. An image
// block becomes a data URI. want, when set, is the requested format.
func decodeChart(res *shared.CallToolResult, want domain.ChartFormat) (domain.ChartArtifact, error) {
	if err := checkResult(res); err != nil {
		return domain.ChartArtifact{}, err
	}
	if len(res.Content) == 0 {
		return domain.ChartArtifact{}, mcperrors.NewParseError("chart result is empty", "")
	}

	var artifact domain.ChartArtifact
	block := res.Content[0]
	switch {
	case block.Type == shared.ContentTypeImage:
		mime := block.MIMEType
		if mime == "" {
			mime = pngMIMEType
		}
		artifact = domain.ChartArtifact{
			Format:   domain.FormatImage,
			MIMEType: mime,
			Content:  "data:" + mime + ";base64," + block.Data,
		}
	case strings.HasPrefix(block.Text, "data:image/"):
		mime := strings.TrimPrefix(strings.SplitN(block.Text, ";", 2)[0], "data:")
		artifact = domain.ChartArtifact{Format: domain.FormatImage, MIMEType: mime, Content: block.Text}
	case block.Text != "":
		artifact = domain.ChartArtifact{Format: domain.FormatHTML, MIMEType: htmlMIMEType, Content: block.Text}
	default:
		return domain.ChartArtifact{}, mcperrors.NewParseError("chart result has no content", "")
	}

	if want != "" && artifact.Format != want {
		return domain.ChartArtifact{}, mcperrors.NewParseError("chart result format "+string(artifact.Format)+" does not match the requested "+string(want), "")
	}
	return artifact, nil
}
