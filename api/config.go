// Package api provides the HTTP API server for the omnivero system:
// extraction, archive queries, memory management, trust drafting, and
// semantic search.
package api

import (
	"github.com/omniverolabs/omnivero/pkg/embeddings"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/trust"
	"github.com/omniverolabs/omnivero/pkg/vector"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Extractor runs instrument analysis for POST /instruments.
	Extractor extract.Extractor

	// Drafter generates trust clauses for POST /trusts/draft.
	Drafter trust.Drafter

	// VectorDriver backs semantic search (optional).
	VectorDriver vector.Driver

	// Embedder converts query text to vectors for semantic search with the
	// configured VectorDriver (optional).
	Embedder embeddings.Embedder
}

// ErrorResponse is the JSON error body returned by every failing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
