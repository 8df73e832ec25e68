package command_test

import (
	"strings"
	"testing"

	"github.com/agentfleet/fleetconsole/internal/console/command"
	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDrafts() []models.ToolDraft {
	return []models.ToolDraft{
		{
			Name:         "search_orders",
			IndexName:    "orders-2026",
			Backend:      models.BackendAzureAISearch,
			EnableFilter: true,
			EnableTopK:   true,
			PythonCode:   "def run(query):\n    return search(query)",
		},
		{
			Name:         "lookup_customer",
			IndexName:    "customers",
			Backend:      models.BackendNeo4j,
			RestEndpoint: "https://internal.example.com/customers",
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	drafts := sampleDrafts()

	encoded, err := command.Encode(drafts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "mcp-sdk-runner --sdk-version 1.4.2 --tools '"))
	assert.True(t, strings.HasSuffix(encoded, "'"))

	result := command.Decode(encoded, nil)
	assert.Equal(t, command.DecodeStructured, result.Source)
	assert.Equal(t, drafts, result.Drafts)
}

func TestEncodeEmptyDrafts(t *testing.T) {
	encoded, err := command.Encode([]models.ToolDraft{})
	require.NoError(t, err)

	result := command.Decode(encoded, nil)
	assert.Equal(t, command.DecodeStructured, result.Source)
	assert.Empty(t, result.Drafts)
}

func TestDecodeStructuredSurvivesQuotesInPayload(t *testing.T) {
	drafts := []models.ToolDraft{{
		Name:       "search_notes",
		IndexName:  "it's-an-index",
		Backend:    models.BackendNeo4j,
		PythonCode: "print('hello')",
	}}

	encoded, err := command.Encode(drafts)
	require.NoError(t, err)

	// the closing quote is found from the end, so single quotes inside the
	// JSON payload do not cut the payload short
	result := command.Decode(encoded, nil)
	assert.Equal(t, command.DecodeStructured, result.Source)
	assert.Equal(t, drafts, result.Drafts)
}

func TestDecodeLegacy(t *testing.T) {
	tools := []models.Tool{
		{
			Name:        "Search_Products",
			Description: "Retrieves documents from the 'products' index using Azure AI Search.",
			Args: []models.ToolArg{
				{Name: "query", Type: "string"},
				{Name: "filter", Type: "string"},
				{Name: "top_k", Type: "integer"},
			},
		},
		{
			Name:        "graph_lookup",
			Description: "Retrieves documents from the 'entities' index using Neo4j.",
			Args: []models.ToolArg{
				{Name: "query", Type: "string"},
			},
		},
	}

	result := command.Decode("python run_server.py --port 8001", tools)
	require.Equal(t, command.DecodeLegacy, result.Source)
	require.Len(t, result.Drafts, 2)

	first := result.Drafts[0]
	assert.Equal(t, "Search_Products", first.Name)
	assert.Equal(t, "products", first.IndexName)
	assert.Equal(t, models.BackendAzureAISearch, first.Backend)
	assert.True(t, first.EnableFilter)
	assert.True(t, first.EnableTopK)
	assert.Empty(t, first.PythonCode)

	second := result.Drafts[1]
	assert.Equal(t, "entities", second.IndexName)
	assert.Equal(t, models.BackendNeo4j, second.Backend)
	assert.False(t, second.EnableFilter)
	assert.False(t, second.EnableTopK)
}

func TestDecodeLegacyUnparseableDescription(t *testing.T) {
	tools := []models.Tool{{Name: "mystery_tool", Description: "Does something unrelated."}}

	result := command.Decode("./start.sh", tools)
	require.Equal(t, command.DecodeLegacy, result.Source)
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, "mystery_tool", result.Drafts[0].Name)
	assert.Empty(t, result.Drafts[0].IndexName)
	assert.Empty(t, result.Drafts[0].Backend)
}

func TestDecodeUnrecoverable(t *testing.T) {
	result := command.Decode("./start.sh --legacy", nil)

	assert.Equal(t, command.DecodeUnrecoverable, result.Source)
	assert.NotNil(t, result.Drafts)
	assert.Empty(t, result.Drafts)
}

func TestDecodeMalformedPayloadFallsBack(t *testing.T) {
	result := command.Decode("mcp-sdk-runner --sdk-version 1.4.2 --tools 'not-json'", nil)
	assert.Equal(t, command.DecodeUnrecoverable, result.Source)
}

func TestRender(t *testing.T) {
	tool := command.Render(models.ToolDraft{
		Name:         "search_orders",
		IndexName:    "orders-2026",
		Backend:      models.BackendAzureAISearch,
		EnableFilter: true,
	})

	assert.Equal(t, "search_orders", tool.Name)
	assert.Equal(t, "Retrieves documents from the 'orders-2026' index using Azure AI Search.", tool.Description)
	require.Len(t, tool.Args, 2)
	assert.Equal(t, "query", tool.Args[0].Name)
	assert.Equal(t, "filter", tool.Args[1].Name)
}

func TestRenderRoundTripsThroughLegacyDecode(t *testing.T) {
	draft := models.ToolDraft{
		Name:       "search_docs",
		IndexName:  "docs",
		Backend:    models.BackendNeo4j,
		EnableTopK: true,
	}

	tool := command.Render(draft)
	result := command.Decode("opaque legacy command", []models.Tool{tool})

	require.Equal(t, command.DecodeLegacy, result.Source)
	require.Len(t, result.Drafts, 1)
	assert.Equal(t, draft, result.Drafts[0])
}

func TestValidateDrafts(t *testing.T) {
	tests := []struct {
		name    string
		drafts  []models.ToolDraft
		wantErr string
	}{
		{
			name:   "valid names",
			drafts: []models.ToolDraft{{Name: "search_orders"}, {Name: "Tool2"}},
		},
		{
			name:    "empty name",
			drafts:  []models.ToolDraft{{Name: ""}},
			wantErr: "invalid tool name",
		},
		{
			name:    "illegal characters",
			drafts:  []models.ToolDraft{{Name: "search-orders"}},
			wantErr: "invalid tool name",
		},
		{
			name:    "duplicate ignoring case",
			drafts:  []models.ToolDraft{{Name: "Search_Products"}, {Name: "search_products"}},
			wantErr: "duplicate tool name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := command.ValidateDrafts(tt.drafts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
