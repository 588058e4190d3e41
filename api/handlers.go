package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/engram"
	"github.com/omniverolabs/omnivero/pkg/extract"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/trust"
)

// AnalyzeRequest is the body for POST /instruments.
type AnalyzeRequest struct {
	RawText string               `json:"rawText,omitempty"`
	File    *instrument.FileData `json:"file,omitempty"`
}

// CommitMemoryRequest is the body for POST /memory.
type CommitMemoryRequest struct {
	Type  engram.Type `json:"type"`
	Value string      `json:"value"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAnalyze runs the extraction pipeline on a submission and returns
// the archived instrument.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	sub := extract.Submission{RawText: req.RawText, File: req.File}
	if err := extract.Validate(sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	inst, err := s.pipeline.Process(c.Context(), sub)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(inst)
}

// handleQueryInstruments filters the archive by search text and risk.
func (s *Server) handleQueryInstruments(c *fiber.Ctx) error {
	search := c.Query("search")
	risk := c.Query("risk", instrument.RiskFilterAll)

	instruments, err := s.archive.Query(c.Context(), search, risk)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to query archive"})
	}

	return c.JSON(map[string]any{
		"count":       len(instruments),
		"instruments": instruments,
	})
}

// handleGetInstrument returns a single archived instrument by ID.
func (s *Server) handleGetInstrument(c *fiber.Ctx) error {
	id := c.Params("id")

	inst, err := s.archive.Get(c.Context(), id)
	if err != nil {
		var notFound archive.ErrNotFound
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load instrument"})
	}

	return c.JSON(inst)
}

// handleClearArchive deletes every archived instrument. Destructive, so it
// refuses to run without explicit confirmation.
func (s *Server) handleClearArchive(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "confirm=true is required to clear the archive"})
	}

	if err := s.archive.Clear(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to clear archive"})
	}

	s.logger.Info("archive cleared")
	return c.SendStatus(fiber.StatusNoContent)
}

// handleArchiveStats returns instrument counts grouped by violation risk.
func (s *Server) handleArchiveStats(c *fiber.Ctx) error {
	instruments, err := s.archive.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list archive"})
	}

	byRisk := make(map[string]int, len(instrument.Risks))
	for _, r := range instrument.Risks {
		byRisk[string(r)] = 0
	}
	for _, inst := range instruments {
		if inst.Extraction == nil {
			continue
		}
		byRisk[string(inst.Extraction.ViolationRisk)]++
	}

	return c.JSON(map[string]any{
		"total":   len(instruments),
		"by_risk": byRisk,
	})
}

// handleListMemory returns all engrams in insertion order.
func (s *Server) handleListMemory(c *fiber.Ctx) error {
	nodes, err := s.engrams.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list memory"})
	}

	return c.JSON(map[string]any{
		"count":   len(nodes),
		"engrams": nodes,
	})
}

// handleCommitMemory adds an engram. Duplicate values are a silent no-op
// and report committed=false.
func (s *Server) handleCommitMemory(c *fiber.Ctx) error {
	var req CommitMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if !req.Type.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "type must be one of Entity, Statute, Fact"})
	}
	if req.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "value is required"})
	}

	node, ok, err := s.engrams.Commit(c.Context(), req.Type, req.Value)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to commit engram"})
	}

	return c.Status(fiber.StatusCreated).JSON(map[string]any{
		"committed": ok,
		"engram":    node,
	})
}

// handleRemoveMemory deletes one engram by ID. Removing an absent ID
// succeeds.
func (s *Server) handleRemoveMemory(c *fiber.Ctx) error {
	if err := s.engrams.Remove(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to remove engram"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handlePurgeMemory clears the engram store. Destructive, so it refuses to
// run without explicit confirmation.
func (s *Server) handlePurgeMemory(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "confirm=true is required to purge memory"})
	}

	if err := s.engrams.PurgeAll(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to purge memory"})
	}

	s.logger.Info("memory purged")
	return c.SendStatus(fiber.StatusNoContent)
}

// handleDraftTrust runs the drafting engine over a trust definition.
func (s *Server) handleDraftTrust(c *fiber.Ctx) error {
	if s.config.Drafter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "drafting is not configured"})
	}

	var t trust.Trust
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if t.Title == "" || t.Grantor == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "title and grantor are required"})
	}

	clause, err := s.config.Drafter.Draft(c.Context(), &t)
	if err != nil {
		s.logger.Error("drafting failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(clause)
}
