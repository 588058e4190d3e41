package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/omniverolabs/omnivero/api/search"
	archiveinmemory "github.com/omniverolabs/omnivero/pkg/archive/inmemory"
	engraminmemory "github.com/omniverolabs/omnivero/pkg/engram/inmemory"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/logger"
	testutils "github.com/omniverolabs/omnivero/pkg/utils/test"
	"github.com/omniverolabs/omnivero/pkg/vector"
)

var _ = Describe("handleSearchEndpoint", func() {
	var (
		server       *Server
		driver       *archiveinmemory.Driver
		vectorDriver *testutils.MockVectorDriver
		embedder     *testutils.MockEmbedder
		ctx          context.Context
	)

	BeforeEach(func() {
		driver = archiveinmemory.NewDriver()
		vectorDriver = testutils.NewMockVectorDriver()
		embedder = testutils.NewMockEmbedder()
		ctx = context.Background()

		var err error
		server, err = NewServer(
			Config{
				ListenAddr:   ":0",
				Extractor:    extract.StubExtractor{},
				VectorDriver: vectorDriver,
				Embedder:     embedder,
			},
			driver,
			engraminmemory.NewStore(),
			logger.Nop(),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when search is not configured", func() {
		It("returns 503 when vector driver and embedder are nil", func() {
			noSearchServer, err := NewServer(
				Config{ListenAddr: ":0", Extractor: extract.StubExtractor{}},
				driver,
				engraminmemory.NewStore(),
				logger.Nop(),
			)
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodGet, "/search?q=test", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := noSearchServer.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})
	})

	Context("when the q parameter is missing", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodGet, "/search", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("q parameter is required"))
		})
	})

	Context("when top_k is not a positive integer", func() {
		It("returns 400", func() {
			req, err := http.NewRequest(http.MethodGet, "/search?q=test&top_k=zero", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Context("with indexed instruments", func() {
		BeforeEach(func() {
			Expect(driver.Append(ctx, testutils.NewTestInstrument("a", "ACME Collections", "A demand letter citing FDCPA violations.", instrument.RiskCritical))).To(Succeed())

			vectorDriver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "a", Fingerprint: "fp-a"}, Score: 0.92},
			}
		})

		It("returns hydrated results", func() {
			req, err := http.NewRequest(http.MethodGet, "/search?q=demand+letter", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var output apisearch.SearchOutput
			data, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(data, &output)).To(Succeed())

			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].ID).To(Equal("a"))
			Expect(output.Results[0].Creditor).To(Equal("ACME Collections"))
			Expect(output.Results[0].Risk).To(Equal(instrument.RiskCritical))
			Expect(output.Results[0].Instrument).NotTo(BeNil())
		})

		It("drops matches whose instrument was cleared", func() {
			Expect(driver.Clear(ctx)).To(Succeed())

			req, err := http.NewRequest(http.MethodGet, "/search?q=demand", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var output apisearch.SearchOutput
			data, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(data, &output)).To(Succeed())
			Expect(output.Count).To(BeZero())
		})
	})
})
