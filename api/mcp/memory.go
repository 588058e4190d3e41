package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omniverolabs/omnivero/pkg/engram"
)

var (
	memoryRecallToolName    = "memory_recall"
	memoryRecallDescription = "Recall facts, entities, and statutes from the omnivero memory layer. Optionally filter by node type (Entity, Statute, Fact) or a case-insensitive substring of the stored value. Use this to retrieve the persistent context that grounds instrument analysis."
)

// MemoryRecallInput represents the input arguments for the MCP memory_recall tool.
type MemoryRecallInput struct {
	Type     string `json:"type,omitempty" jsonschema:"optional node type filter: Entity, Statute, or Fact"`
	Contains string `json:"contains,omitempty" jsonschema:"optional case-insensitive substring to match against stored values"`
}

// MemoryRecallOutput represents the structured output of a memory recall.
type MemoryRecallOutput struct {
	Engrams []engram.Node `json:"engrams"`
	Count   int           `json:"count"`
}

// handleMemoryRecall processes a memory recall request via MCP.
func (s *Server) handleMemoryRecall(ctx context.Context, _ *mcp.CallToolRequest, input MemoryRecallInput) (*mcp.CallToolResult, MemoryRecallOutput, error) {
	if input.Type != "" && !engram.Type(input.Type).Valid() {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "type must be one of Entity, Statute, Fact"},
			},
		}, MemoryRecallOutput{}, nil
	}

	nodes, err := s.config.Engrams.List(ctx)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Memory recall failed: %v", err)},
			},
		}, MemoryRecallOutput{}, nil
	}

	matched := make([]engram.Node, 0, len(nodes))
	needle := strings.ToLower(input.Contains)
	for _, n := range nodes {
		if input.Type != "" && n.Type != engram.Type(input.Type) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(n.Value), needle) {
			continue
		}
		matched = append(matched, n)
	}

	output := MemoryRecallOutput{Engrams: matched, Count: len(matched)}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, MemoryRecallOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
