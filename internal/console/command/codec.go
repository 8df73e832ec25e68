// Package command encodes managed-server tool configuration into the launch
// command string and decodes it back for editing.
//
// Managed servers are persisted with a single opaque command field that
// emulates a CLI invocation of the SDK runner. The structured tool drafts
// are embedded as a quoted JSON array so the edit form can round-trip them
// losslessly. Commands written before the structured encoding existed are
// recovered heuristically from the rendered tool descriptions.
package command

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentfleet/fleetconsole/pkg/models"
)

const (
	runnerBinary = "mcp-sdk-runner"
	sdkVersion   = "1.4.2"

	toolsFlagMarker = "--tools '"
)

// DecodeSource identifies which decode path produced the drafts.
type DecodeSource string

const (
	// DecodeStructured means the embedded JSON was parsed directly.
	DecodeStructured DecodeSource = "structured"
	// DecodeLegacy means drafts were reconstructed from rendered tool
	// descriptions. Python code bodies and REST endpoints are lost.
	DecodeLegacy DecodeSource = "legacy"
	// DecodeUnrecoverable means no tool data could be recovered; the
	// drafts are empty and the user rebuilds tools manually.
	DecodeUnrecoverable DecodeSource = "unrecoverable"
)

// DecodeResult carries the recovered drafts and how they were recovered.
type DecodeResult struct {
	Source DecodeSource       `json:"source"`
	Drafts []models.ToolDraft `json:"drafts"`
}

var (
	toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	indexPattern    = regexp.MustCompile(`from the '([^']+)' index`)
	backendPattern  = regexp.MustCompile(`using (Azure AI Search|Neo4j)`)
)

// Encode serializes the tool drafts into the runner command string.
func Encode(drafts []models.ToolDraft) (string, error) {
	payload, err := json.Marshal(drafts)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool drafts: %w", err)
	}
	return fmt.Sprintf("%s --sdk-version %s --tools '%s'", runnerBinary, sdkVersion, payload), nil
}

// Decode recovers tool drafts from a command string. The structured path
// parses the JSON embedded by Encode; when that fails, the legacy heuristic
// reconstructs approximate drafts from the rendered tools stored on the
// record. Total failure degrades to an empty draft list.
func Decode(commandStr string, renderedTools []models.Tool) DecodeResult {
	if drafts, ok := decodeStructured(commandStr); ok {
		return DecodeResult{Source: DecodeStructured, Drafts: drafts}
	}
	if drafts, ok := decodeLegacy(renderedTools); ok {
		return DecodeResult{Source: DecodeLegacy, Drafts: drafts}
	}
	return DecodeResult{Source: DecodeUnrecoverable, Drafts: []models.ToolDraft{}}
}

func decodeStructured(commandStr string) ([]models.ToolDraft, bool) {
	start := strings.Index(commandStr, toolsFlagMarker)
	if start < 0 {
		return nil, false
	}
	start += len(toolsFlagMarker)
	end := strings.LastIndex(commandStr, "'")
	if end <= start {
		return nil, false
	}

	var drafts []models.ToolDraft
	if err := json.Unmarshal([]byte(commandStr[start:end]), &drafts); err != nil {
		return nil, false
	}
	return drafts, true
}

// decodeLegacy pattern-matches the rendered description of each tool to
// reconstruct the draft fields that shaped it. It cannot recover Python
// code bodies or REST endpoints.
func decodeLegacy(renderedTools []models.Tool) ([]models.ToolDraft, bool) {
	if len(renderedTools) == 0 {
		return nil, false
	}

	drafts := make([]models.ToolDraft, 0, len(renderedTools))
	for _, tool := range renderedTools {
		draft := models.ToolDraft{Name: tool.Name}
		if m := indexPattern.FindStringSubmatch(tool.Description); m != nil {
			draft.IndexName = m[1]
		}
		if m := backendPattern.FindStringSubmatch(tool.Description); m != nil {
			draft.Backend = m[1]
		}
		for _, arg := range tool.Args {
			switch arg.Name {
			case "filter":
				draft.EnableFilter = true
			case "top_k":
				draft.EnableTopK = true
			}
		}
		drafts = append(drafts, draft)
	}
	return drafts, true
}

// Render produces the presented Tool for a draft. The description wording
// is load-bearing: decodeLegacy parses it back out of old records.
func Render(draft models.ToolDraft) models.Tool {
	tool := models.Tool{
		Name:        draft.Name,
		Description: fmt.Sprintf("Retrieves documents from the '%s' index using %s.", draft.IndexName, draft.Backend),
		Args: []models.ToolArg{
			{Name: "query", Type: "string", Description: "Search query text"},
		},
	}
	if draft.EnableFilter {
		tool.Args = append(tool.Args, models.ToolArg{Name: "filter", Type: "string", Description: "Optional filter expression"})
	}
	if draft.EnableTopK {
		tool.Args = append(tool.Args, models.ToolArg{Name: "top_k", Type: "integer", Description: "Maximum number of results"})
	}
	return tool
}

// RenderAll renders every draft in order.
func RenderAll(drafts []models.ToolDraft) []models.Tool {
	tools := make([]models.Tool, 0, len(drafts))
	for _, draft := range drafts {
		tools = append(tools, Render(draft))
	}
	return tools
}

// ValidateDrafts checks tool names against the naming rules: names are
// limited to [A-Za-z0-9_]+ and must be unique case-insensitively.
func ValidateDrafts(drafts []models.ToolDraft) error {
	for i, draft := range drafts {
		if !toolNamePattern.MatchString(draft.Name) {
			return fmt.Errorf("invalid tool name %q: only letters, digits and underscores are allowed", draft.Name)
		}
		for _, other := range drafts[:i] {
			if strings.EqualFold(draft.Name, other.Name) {
				return fmt.Errorf("duplicate tool name %q", draft.Name)
			}
		}
	}
	return nil
}
