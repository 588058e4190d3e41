package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	archiveinmemory "github.com/omniverolabs/omnivero/pkg/archive/inmemory"
	"github.com/omniverolabs/omnivero/pkg/engram"
	engraminmemory "github.com/omniverolabs/omnivero/pkg/engram/inmemory"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/logger"
	"github.com/omniverolabs/omnivero/pkg/trust"
	testutils "github.com/omniverolabs/omnivero/pkg/utils/test"
)

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequest(method, target, &buf)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(resp *http.Response, out any) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	Expect(json.Unmarshal(data, out)).To(Succeed())
}

var _ = Describe("Server", func() {
	var (
		server  *Server
		driver  *archiveinmemory.Driver
		engrams *engraminmemory.Store
		ctx     context.Context
	)

	BeforeEach(func() {
		driver = archiveinmemory.NewDriver()
		engrams = engraminmemory.NewStore()
		ctx = context.Background()

		var err error
		server, err = NewServer(
			Config{
				ListenAddr: ":0",
				Extractor:  extract.StubExtractor{},
				Drafter:    trust.StubDrafter{},
			},
			driver,
			engrams,
			logger.Nop(),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		})
	})

	Describe("POST /instruments", func() {
		It("analyzes a text submission and archives the result", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/instruments", AnalyzeRequest{
				RawText: "NOTICE OF DEBT from MOCK CORP INC.",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			var inst instrument.Instrument
			decodeBody(resp, &inst)
			Expect(inst.ID).NotTo(BeEmpty())
			Expect(inst.Extraction).NotTo(BeNil())

			archived, err := driver.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(archived).To(HaveLen(1))
		})

		It("rejects an empty submission with 400", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/instruments", AnalyzeRequest{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects an unsupported file type with 400", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/instruments", AnalyzeRequest{
				File: &instrument.FileData{MimeType: "text/html", Data: []byte("<html>")},
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var body ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(ContainSubstring("unsupported file type"))
		})
	})

	Describe("GET /instruments", func() {
		BeforeEach(func() {
			Expect(driver.Append(ctx, testutils.NewTestInstrument("a", "ACME Collections", "Demand letter.", instrument.RiskCritical))).To(Succeed())
			Expect(driver.Append(ctx, testutils.NewTestInstrument("b", "Globex Bank", "Account statement.", instrument.RiskLow))).To(Succeed())
		})

		It("lists everything by default", func() {
			req, _ := http.NewRequest(http.MethodGet, "/instruments", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body struct {
				Count       int                      `json:"count"`
				Instruments []*instrument.Instrument `json:"instruments"`
			}
			decodeBody(resp, &body)
			Expect(body.Count).To(Equal(2))
			Expect(body.Instruments[0].ID).To(Equal("b"))
		})

		It("filters by search text and risk", func() {
			req, _ := http.NewRequest(http.MethodGet, "/instruments?search=acme&risk=Critical", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Count       int                      `json:"count"`
				Instruments []*instrument.Instrument `json:"instruments"`
			}
			decodeBody(resp, &body)
			Expect(body.Count).To(Equal(1))
			Expect(body.Instruments[0].ID).To(Equal("a"))
		})
	})

	Describe("GET /instruments/:id", func() {
		It("returns 404 for an unknown id", func() {
			req, _ := http.NewRequest(http.MethodGet, "/instruments/nope", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("returns the instrument when present", func() {
			Expect(driver.Append(ctx, testutils.NewTestInstrument("a", "ACME", "Summary.", instrument.RiskHigh))).To(Succeed())

			req, _ := http.NewRequest(http.MethodGet, "/instruments/a", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var inst instrument.Instrument
			decodeBody(resp, &inst)
			Expect(inst.ID).To(Equal("a"))
		})
	})

	Describe("DELETE /instruments", func() {
		BeforeEach(func() {
			Expect(driver.Append(ctx, testutils.NewTestInstrument("a", "ACME", "Summary.", instrument.RiskHigh))).To(Succeed())
		})

		It("refuses without confirmation", func() {
			req, _ := http.NewRequest(http.MethodDelete, "/instruments", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			archived, _ := driver.List(ctx)
			Expect(archived).To(HaveLen(1))
		})

		It("clears the archive when confirmed", func() {
			req, _ := http.NewRequest(http.MethodDelete, "/instruments?confirm=true", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))

			archived, _ := driver.List(ctx)
			Expect(archived).To(BeEmpty())
		})
	})

	Describe("GET /archive/stats", func() {
		It("counts instruments by risk", func() {
			Expect(driver.Append(ctx, testutils.NewTestInstrument("a", "ACME", "s", instrument.RiskCritical))).To(Succeed())
			Expect(driver.Append(ctx, testutils.NewTestInstrument("b", "Globex", "s", instrument.RiskCritical))).To(Succeed())
			Expect(driver.Append(ctx, testutils.NewTestInstrument("c", "Initech", "s", instrument.RiskLow))).To(Succeed())

			req, _ := http.NewRequest(http.MethodGet, "/archive/stats", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Total  int            `json:"total"`
				ByRisk map[string]int `json:"by_risk"`
			}
			decodeBody(resp, &body)
			Expect(body.Total).To(Equal(3))
			Expect(body.ByRisk["Critical"]).To(Equal(2))
			Expect(body.ByRisk["Low"]).To(Equal(1))
			Expect(body.ByRisk["None"]).To(BeZero())
		})
	})

	Describe("memory endpoints", func() {
		It("commits, lists, removes, and purges engrams", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/memory", CommitMemoryRequest{
				Type:  engram.TypeEntity,
				Value: "JOHN DOE",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			var committed struct {
				Committed bool        `json:"committed"`
				Engram    engram.Node `json:"engram"`
			}
			decodeBody(resp, &committed)
			Expect(committed.Committed).To(BeTrue())
			Expect(committed.Engram.ID).NotTo(BeEmpty())

			req, _ := http.NewRequest(http.MethodGet, "/memory", nil)
			resp, err = server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())

			var listed struct {
				Count   int           `json:"count"`
				Engrams []engram.Node `json:"engrams"`
			}
			decodeBody(resp, &listed)
			Expect(listed.Count).To(Equal(1))

			req, _ = http.NewRequest(http.MethodDelete, "/memory/"+committed.Engram.ID, nil)
			resp, err = server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))

			nodes, _ := engrams.List(ctx)
			Expect(nodes).To(BeEmpty())
		})

		It("reports committed=false for a duplicate value", func() {
			_, ok, err := engrams.Commit(ctx, engram.TypeFact, "UCC 3-603 applies")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/memory", CommitMemoryRequest{
				Type:  engram.TypeFact,
				Value: "UCC 3-603 applies",
			}))
			Expect(err).NotTo(HaveOccurred())

			var committed struct {
				Committed bool `json:"committed"`
			}
			decodeBody(resp, &committed)
			Expect(committed.Committed).To(BeFalse())
		})

		It("rejects an invalid engram type", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/memory", CommitMemoryRequest{
				Type:  "Rumor",
				Value: "something",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("refuses to purge without confirmation", func() {
			_, _, err := engrams.Commit(ctx, engram.TypeFact, "keep me")
			Expect(err).NotTo(HaveOccurred())

			req, _ := http.NewRequest(http.MethodDelete, "/memory", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			nodes, _ := engrams.List(ctx)
			Expect(nodes).To(HaveLen(1))
		})

		It("purges when confirmed", func() {
			_, _, err := engrams.Commit(ctx, engram.TypeFact, "gone soon")
			Expect(err).NotTo(HaveOccurred())

			req, _ := http.NewRequest(http.MethodDelete, "/memory?confirm=true", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))

			nodes, _ := engrams.List(ctx)
			Expect(nodes).To(BeEmpty())
		})
	})

	Describe("POST /trusts/draft", func() {
		It("drafts a deed from a trust definition", func() {
			t := trust.Trust{
				Title:   "DOE FAMILY TRUST",
				Grantor: "JOHN DOE",
				Series:  trust.Series98,
			}

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/trusts/draft", t))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var clause trust.GeneratedClause
			decodeBody(resp, &clause)
			Expect(clause.Markdown).NotTo(BeEmpty())
			Expect(clause.Rationales).NotTo(BeEmpty())
		})

		It("rejects a trust without a title", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/trusts/draft", trust.Trust{Grantor: "JOHN DOE"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 503 when drafting is not configured", func() {
			noDrafter, err := NewServer(
				Config{ListenAddr: ":0", Extractor: extract.StubExtractor{}},
				driver,
				engrams,
				logger.Nop(),
			)
			Expect(err).NotTo(HaveOccurred())

			resp, err := noDrafter.app.Test(jsonRequest(http.MethodPost, "/trusts/draft", trust.Trust{
				Title:   "T",
				Grantor: "G",
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})
	})
})
