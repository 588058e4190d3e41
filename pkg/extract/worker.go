package extract

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// UpdatableArchive is the slice of archive behavior the worker needs:
// enumerate records and rewrite one in place.
type UpdatableArchive interface {
	List(ctx context.Context) ([]*instrument.Instrument, error)
	Update(ctx context.Context, inst *instrument.Instrument) error
}

// Worker re-runs extraction for archived instruments that have none,
// typically after an engine failure or an import of raw records.
type Worker struct {
	extractor Extractor
	archive   UpdatableArchive
	logger    *zap.Logger

	done  atomic.Int64
	total atomic.Int64
}

// NewWorker creates a backfill worker.
func NewWorker(extractor Extractor, archive UpdatableArchive, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		extractor: extractor,
		archive:   archive,
		logger:    logger,
	}
}

// Progress returns the number of instruments processed and total to process.
func (w *Worker) Progress() (done, total int) {
	return int(w.done.Load()), int(w.total.Load())
}

// Run scans the archive, skips instruments that already carry an
// extraction, and processes the rest with bounded concurrency. It blocks
// until all pending instruments are processed or the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	all, err := w.archive.List(ctx)
	if err != nil {
		w.logger.Warn("backfill: failed to list archive", zap.Error(err))
		return
	}

	var pending []*instrument.Instrument
	for _, inst := range all {
		if ctx.Err() != nil {
			return
		}
		if inst.Extraction != nil {
			continue
		}
		pending = append(pending, inst)
	}

	w.total.Store(int64(len(pending)))
	w.done.Store(0)

	if len(pending) == 0 {
		return
	}

	// Bounded concurrency (2 workers to avoid rate limits)
	const maxConcurrency = 2
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for _, inst := range pending {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(inst *instrument.Instrument) {
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			if err := w.process(ctx, inst); err != nil {
				w.logger.Warn("backfill: extraction failed",
					zap.String("id", inst.ID),
					zap.Error(err),
				)
			}
			w.done.Add(1)
		}(inst)
	}

	wg.Wait()
}

func (w *Worker) process(ctx context.Context, inst *instrument.Instrument) error {
	extraction, err := w.extractor.Extract(ctx, Input{
		RawText: inst.RawText,
		File:    inst.FileData,
	})
	if err != nil {
		return err
	}
	extraction.Normalize()

	updated := *inst
	updated.Extraction = extraction

	return w.archive.Update(ctx, &updated)
}
