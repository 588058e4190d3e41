package extract_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	archiveinmemory "github.com/omniverolabs/omnivero/pkg/archive/inmemory"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/instrument"
)

type countingExtractor struct {
	calls      atomic.Int64
	extraction *instrument.Extraction
	err        error
}

func (c *countingExtractor) Extract(_ context.Context, _ extract.Input) (*instrument.Extraction, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.extraction, nil
}

func rawInstrument(text string) *instrument.Instrument {
	return &instrument.Instrument{
		ID:        uuid.NewString(),
		RawText:   text,
		Hash:      "deadbeef",
		Timestamp: time.Now().UTC(),
	}
}

var _ = Describe("Worker", func() {
	var (
		ctx       context.Context
		extractor *countingExtractor
		driver    *archiveinmemory.Driver
		worker    *extract.Worker
	)

	BeforeEach(func() {
		ctx = context.Background()
		extractor = &countingExtractor{
			extraction: &instrument.Extraction{
				Creditor:      "Acme Corp",
				ViolationRisk: instrument.RiskLow,
			},
		}
		driver = archiveinmemory.NewDriver()
		worker = extract.NewWorker(extractor, driver, nil)
	})

	It("backfills only instruments without an extraction", func() {
		analyzed := rawInstrument("already done")
		analyzed.Extraction = &instrument.Extraction{Creditor: "Done Inc"}
		Expect(driver.Append(ctx, analyzed)).To(Succeed())
		Expect(driver.Append(ctx, rawInstrument("pending one"))).To(Succeed())
		Expect(driver.Append(ctx, rawInstrument("pending two"))).To(Succeed())

		worker.Run(ctx)

		Expect(extractor.calls.Load()).To(Equal(int64(2)))

		done, total := worker.Progress()
		Expect(done).To(Equal(2))
		Expect(total).To(Equal(2))

		list, err := driver.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		for _, inst := range list {
			Expect(inst.Extraction).NotTo(BeNil())
		}
	})

	It("leaves the record untouched when extraction fails", func() {
		extractor.err = errors.New("engine unavailable")
		pending := rawInstrument("pending")
		Expect(driver.Append(ctx, pending)).To(Succeed())

		worker.Run(ctx)

		got, err := driver.Get(ctx, pending.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Extraction).To(BeNil())
	})

	It("is a no-op on an empty archive", func() {
		worker.Run(ctx)
		Expect(extractor.calls.Load()).To(BeZero())

		done, total := worker.Progress()
		Expect(done).To(BeZero())
		Expect(total).To(BeZero())
	})
})
