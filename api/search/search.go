// Package search provides shared semantic-search logic over archived
// instruments. It is used by both the REST API endpoint and the MCP
// server tool.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/embeddings"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/utils"
	"github.com/omniverolabs/omnivero/pkg/vector"
)

// SearchInput represents the input arguments for a search request.
type SearchInput struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	ID       string          `json:"id"`
	Score    float32         `json:"score"`
	Creditor string          `json:"creditor,omitempty"`
	Risk     instrument.Risk `json:"risk"`
	Preview  string          `json:"preview"`

	// Instrument is the full archived record the match resolved to.
	Instrument *instrument.Instrument `json:"instrument"`
}

// SearchOutput represents the output of a search operation.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// Search performs a semantic search over archived instruments. It embeds
// the query text, queries the vector store for similar summaries, then
// loads the full instrument from the archive for each result. Matches
// whose instrument has since been cleared from the archive are dropped.
func Search(
	ctx context.Context,
	query string,
	topK int,
	embedder embeddings.Embedder,
	vectorDriver vector.Driver,
	archiver archive.Driver,
	logger *zap.Logger,
) (*SearchOutput, error) {
	if topK <= 0 {
		topK = 5
	}

	logger.Debug("search request",
		zap.String("query", query),
		zap.Int("topK", topK),
	)

	queryEmbedding, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := vectorDriver.Query(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, result := range results {
		inst, err := archiver.Get(ctx, result.ID)
		if err != nil {
			var notFound archive.ErrNotFound
			if errors.As(err, &notFound) {
				// Stale vector entry; the instrument was cleared.
				continue
			}
			logger.Warn("failed to load instrument for result",
				zap.String("id", result.ID),
				zap.Error(err),
			)
			continue
		}

		searchResults = append(searchResults, BuildSearchResult(result, inst))
	}

	return &SearchOutput{
		Query:   query,
		Results: searchResults,
		Count:   len(searchResults),
	}, nil
}

// BuildSearchResult converts a vector query result and its archived
// instrument into a SearchResult.
func BuildSearchResult(result vector.QueryResult, inst *instrument.Instrument) SearchResult {
	sr := SearchResult{
		ID:         result.ID,
		Score:      result.Score,
		Risk:       instrument.RiskNone,
		Instrument: inst,
	}

	if inst.Extraction != nil {
		sr.Creditor = inst.Extraction.Creditor
		sr.Risk = inst.Extraction.ViolationRisk
		sr.Preview = utils.Preview(inst.Extraction.ExecutiveSummary, 200)
	}

	return sr
}
