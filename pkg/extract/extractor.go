// Package extract runs commercial instrument analysis: it validates a
// submission, injects the memory context into the engine prompt, and
// normalizes the structured result before archival.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/omniverolabs/omnivero/pkg/engram"
	"github.com/omniverolabs/omnivero/pkg/instrument"
	"github.com/omniverolabs/omnivero/pkg/llm"
)

// Input is a validated submission plus the memory snapshot taken for it.
type Input struct {
	RawText string
	File    *instrument.FileData
	Memory  []engram.Node
}

// Extractor produces a structured extraction from a submission.
type Extractor interface {
	Extract(ctx context.Context, input Input) (*instrument.Extraction, error)
}

// LLMExtractor analyzes submissions through an LLM caller.
type LLMExtractor struct {
	call llm.CallFunc
}

// NewLLMExtractor creates an extractor backed by the given caller.
func NewLLMExtractor(call llm.CallFunc) *LLMExtractor {
	return &LLMExtractor{call: call}
}

func (e *LLMExtractor) Extract(ctx context.Context, input Input) (*instrument.Extraction, error) {
	prompt := llm.Prompt{Text: buildExtractionPrompt(input)}
	if input.File != nil {
		prompt.Attachments = []llm.Attachment{{
			MimeType: input.File.MimeType,
			Data:     input.File.Data,
		}}
	}

	response, err := e.call(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}

	extraction, err := parseExtractionResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return extraction, nil
}

func buildExtractionPrompt(input Input) string {
	var b strings.Builder

	if input.File != nil {
		b.WriteString("Analyze this document image/PDF.\n\n")
	}
	if input.RawText != "" {
		b.WriteString(input.RawText)
		b.WriteString("\n\n")
	}

	b.WriteString(`Role: You are a sovereign legal auditor and commercial instrument analyzer.

Task: Analyze the provided commercial instrument.

Context / Memory of User's Affairs:
`)
	b.WriteString(engram.ContextLines(input.Memory))
	b.WriteString(`

Requirements:
1. Extract metadata: creditor, accountNumber, amount, date.
2. Analyze for 'violationRisk' (None, Low, High, Critical) based on FDCPA, TILA, and UCC violations.
3. Create an 'executiveSummary' (2-3 sentences max).
4. List 'identifiedEntities' (All caps names, Corporations).
5. List 'riskFactors' (Specific clauses or omissions that are legally dangerous).
6. Recommend a 'strategicAction' (e.g., "Accept for Value", "Conditional Acceptance", "Ignore").

Format: JSON.
`)

	return b.String()
}

func parseExtractionResponse(response string) (*instrument.Extraction, error) {
	// The engine may wrap the JSON in markdown code fences
	jsonStr := response
	if idx := strings.Index(response, "{"); idx >= 0 {
		endIdx := strings.LastIndex(response, "}")
		if endIdx > idx {
			jsonStr = response[idx : endIdx+1]
		}
	}

	var extraction instrument.Extraction
	if err := json.Unmarshal([]byte(jsonStr), &extraction); err != nil {
		return nil, fmt.Errorf("unmarshal extraction JSON: %w", err)
	}

	return &extraction, nil
}

// StubExtractor returns a fixed extraction without any engine call. It
// backs keyless demo runs and tests.
type StubExtractor struct{}

func (StubExtractor) Extract(_ context.Context, _ Input) (*instrument.Extraction, error) {
	amount := 1500.00
	return &instrument.Extraction{
		Creditor:           "MOCK CORP INC.",
		AccountNumber:      "123-456-789",
		Amount:             &amount,
		Date:               "2023-10-27",
		ViolationRisk:      instrument.RiskLow,
		ExecutiveSummary:   "Standard billing statement detected. The document appears to be a monthly statement of account.",
		IdentifiedEntities: []string{"MOCK CORP INC.", "JOHN DOE"},
		RiskFactors:        []string{"No wet-ink signature detected", "Ambiguous interest calculation"},
		StrategicAction:    "Send Request for Validation of Debt (FDCPA 809).",
	}, nil
}
