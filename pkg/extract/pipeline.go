package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/engram"
	"github.com/omniverolabs/omnivero/pkg/hasher"
	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// Submission is the raw material for one pipeline run.
type Submission struct {
	RawText string
	File    *instrument.FileData
}

// Pipeline runs a submission end to end: validate, snapshot memory,
// extract, normalize, fingerprint, archive. A failed engine call leaves
// the archive untouched.
type Pipeline struct {
	extractor Extractor
	engrams   engram.Store
	archive   archive.Driver
	indexer   *Indexer
	logger    *zap.Logger
}

// NewPipeline creates a pipeline. The engram store may be nil when no
// memory context is wanted.
func NewPipeline(extractor Extractor, engrams engram.Store, driver archive.Driver, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor: extractor,
		engrams:   engrams,
		archive:   driver,
		logger:    logger,
	}
}

// WithIndexer enables semantic indexing of archived instruments. Indexing
// is best effort: a failed embedding never fails the pipeline run.
func (p *Pipeline) WithIndexer(ix *Indexer) *Pipeline {
	p.indexer = ix
	return p
}

// Process analyzes one submission and appends the resulting instrument to
// the archive.
func (p *Pipeline) Process(ctx context.Context, sub Submission) (*instrument.Instrument, error) {
	if err := Validate(sub); err != nil {
		return nil, err
	}

	var memory []engram.Node
	if p.engrams != nil {
		var err error
		memory, err = p.engrams.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot memory: %w", err)
		}
	}

	extraction, err := p.extractor.Extract(ctx, Input{
		RawText: sub.RawText,
		File:    sub.File,
		Memory:  memory,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	extraction.Normalize()

	inst := &instrument.Instrument{
		ID:         uuid.NewString(),
		RawText:    sub.RawText,
		FileData:   sub.File,
		Extraction: extraction,
		Hash:       fingerprint(sub),
		Timestamp:  time.Now().UTC(),
	}

	if err := p.archive.Append(ctx, inst); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	if p.indexer != nil {
		if err := p.indexer.Index(ctx, inst); err != nil {
			p.logger.Warn("failed to index instrument",
				zap.String("id", inst.ID),
				zap.Error(err),
			)
		}
	}

	p.logger.Info("instrument analyzed",
		zap.String("id", inst.ID),
		zap.String("creditor", extraction.Creditor),
		zap.String("risk", string(extraction.ViolationRisk)),
	)

	return inst, nil
}

// Validate checks a submission before any engine call is made.
func Validate(sub Submission) error {
	if sub.RawText == "" && sub.File == nil {
		return ErrEmptySubmission
	}
	if sub.File != nil && !instrument.AcceptedMimeType(sub.File.MimeType) {
		return ErrUnsupportedMime{MimeType: sub.File.MimeType}
	}
	return nil
}

// fingerprint hashes the file bytes when present, the raw text otherwise.
func fingerprint(sub Submission) string {
	if sub.File != nil {
		return hasher.Fingerprint(sub.File.Data)
	}
	return hasher.FingerprintString(sub.RawText)
}
