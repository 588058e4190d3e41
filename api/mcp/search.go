package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	apisearch "github.com/omniverolabs/omnivero/api/search"
)

var (
	searchToolName    = "instrument_search"
	searchDescription = "Search archived commercial instruments using semantic search. Returns the most relevant analyzed instruments based on the query text, including creditor, violation risk, and executive summary."
)

// SearchInput represents the input arguments for the instrument search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant instruments"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// handleSearch processes an instrument search request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, apisearch.SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP search request",
		zap.String("query", input.Query),
		zap.Int("topK", input.TopK),
	)

	output, err := apisearch.Search(
		ctx,
		input.Query,
		input.TopK,
		s.config.Embedder,
		s.config.VectorDriver,
		s.config.Archive,
		logger,
	)
	if err != nil {
		logger.Error("search failed", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Search failed: %v", err)},
			},
		}, apisearch.SearchOutput{}, nil
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, apisearch.SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}
