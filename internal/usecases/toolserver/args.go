package toolserver

import (
	"encoding/json"

	"github.com/FreePeak/golang-mcp-session-client/internal/domain/shared"
	mcperrors "github.com/FreePeak/golang-mcp-session-client/internal/domain/shared/errors"
)

// decodeArgs converts a loosely typed argument map into a typed request by
// way of its JSON form.
func decodeArgs(args map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return mcperrors.NewInvalidArgumentError("arguments are not serializable: "+err.Error(), nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return mcperrors.NewInvalidArgumentError("invalid arguments: "+err.Error(), nil)
	}
	return nil
}

func textResult(text string) []shared.Content {
	return []shared.Content{shared.NewTextContent(text)}
}
