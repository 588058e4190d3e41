package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/pkg/embeddings"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/vector"
)

// Indexer embeds archived instruments into a vector store so the archive
// can be searched semantically. Indexing is optional; a pipeline without
// an indexer archives instruments exactly the same way.
type Indexer struct {
	embedder embeddings.Embedder
	vectors  vector.Driver
	logger   *zap.Logger
}

// NewIndexer creates an indexer over the given embedder and vector store.
func NewIndexer(embedder embeddings.Embedder, vectors vector.Driver, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		embedder: embedder,
		vectors:  vectors,
		logger:   logger,
	}
}

// Index embeds the instrument's executive summary and stores it keyed by
// the instrument ID. Instruments without an extraction or with an empty
// summary are skipped.
func (ix *Indexer) Index(ctx context.Context, inst *instrument.Instrument) error {
	if inst.Extraction == nil || inst.Extraction.ExecutiveSummary == "" {
		return nil
	}

	embedding, err := ix.embedder.Embed(ctx, inst.Extraction.ExecutiveSummary)
	if err != nil {
		return fmt.Errorf("embed summary: %w", err)
	}

	err = ix.vectors.Add(ctx, []vector.Document{
		{
			ID:          inst.ID,
			Fingerprint: inst.Hash,
			Embedding:   embedding,
		},
	})
	if err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}

	ix.logger.Debug("instrument indexed",
		zap.String("id", inst.ID),
		zap.Int("dimensions", len(embedding)),
	)

	return nil
}
