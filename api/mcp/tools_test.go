package mcp

import (
	"context"
	"encoding/json"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apisearch "github.com/omniverolabs/omnivero/api/search"
	archiveinmemory "github.com/omniverolabs/omnivero/pkg/archive/inmemory"
	"github.com/omniverolabs/omnivero/pkg/engram"
	engraminmemory "github.com/omniverolabs/omnivero/pkg/engram/inmemory"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/logger"
	testutils "github.com/omniverolabs/omnivero/pkg/utils/test"
	"github.com/omniverolabs/omnivero/pkg/vector"
)

var _ = Describe("tool handlers", func() {
	var (
		server       *Server
		driver       *archiveinmemory.Driver
		engrams      *engraminmemory.Store
		vectorDriver *testutils.MockVectorDriver
		ctx          context.Context
	)

	BeforeEach(func() {
		driver = archiveinmemory.NewDriver()
		engrams = engraminmemory.NewStore()
		vectorDriver = testutils.NewMockVectorDriver()
		ctx = context.Background()

		var err error
		server, err = NewServer(Config{
			Archive:      driver,
			Engrams:      engrams,
			VectorDriver: vectorDriver,
			Embedder:     testutils.NewMockEmbedder(),
			Logger:       logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("instrument_search", func() {
		It("returns hydrated results with serialized JSON content", func() {
			Expect(driver.Append(ctx, testutils.NewTestInstrument("a", "ACME Collections", "A demand letter.", instrument.RiskCritical))).To(Succeed())
			vectorDriver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "a"}, Score: 0.9},
			}

			result, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "demand letter"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].Creditor).To(Equal("ACME Collections"))

			Expect(result.Content).To(HaveLen(1))
			text, ok := result.Content[0].(*mcpsdk.TextContent)
			Expect(ok).To(BeTrue())

			var roundTrip apisearch.SearchOutput
			Expect(json.Unmarshal([]byte(text.Text), &roundTrip)).To(Succeed())
			Expect(roundTrip.Count).To(Equal(1))
		})

		It("returns empty output when nothing matches", func() {
			_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "anything"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(BeZero())
		})
	})

	Describe("memory_recall", func() {
		BeforeEach(func() {
			_, _, err := engrams.Commit(ctx, engram.TypeEntity, "JOHN DOE")
			Expect(err).NotTo(HaveOccurred())
			_, _, err = engrams.Commit(ctx, engram.TypeStatute, "FDCPA 15 USC 1692")
			Expect(err).NotTo(HaveOccurred())
			_, _, err = engrams.Commit(ctx, engram.TypeFact, "Account disputed in writing")
			Expect(err).NotTo(HaveOccurred())
		})

		It("recalls everything without filters", func() {
			result, output, err := server.handleMemoryRecall(ctx, nil, MemoryRecallInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(Equal(3))
		})

		It("filters by type", func() {
			_, output, err := server.handleMemoryRecall(ctx, nil, MemoryRecallInput{Type: "Statute"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(1))
			Expect(output.Engrams[0].Value).To(ContainSubstring("FDCPA"))
		})

		It("filters by substring, case-insensitively", func() {
			_, output, err := server.handleMemoryRecall(ctx, nil, MemoryRecallInput{Contains: "john"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(1))
			Expect(output.Engrams[0].Type).To(Equal(engram.TypeEntity))
		})

		It("rejects an unknown type", func() {
			result, _, err := server.handleMemoryRecall(ctx, nil, MemoryRecallInput{Type: "Rumor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
