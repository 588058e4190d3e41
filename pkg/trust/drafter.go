package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/omniverolabs/omnivero/pkg/llm"
)

// Drafter produces a deed of trust from an assembled graph.
type Drafter interface {
	Draft(ctx context.Context, t *Trust) (*GeneratedClause, error)
}

// LLMDrafter drafts deeds through an LLM caller.
type LLMDrafter struct {
	call llm.CallFunc
}

// NewLLMDrafter creates a drafter backed by the given caller.
func NewLLMDrafter(call llm.CallFunc) *LLMDrafter {
	return &LLMDrafter{call: call}
}

// draftProjection is the engine-facing view of a beneficiary: internal
// ids and priority ordering stay out of the prompt.
type draftBeneficiary struct {
	Name       string      `json:"name"`
	Successors []Successor `json:"successors"`
	LapseRule  LapseRule   `json:"lapseRule"`
}

type draftProjection struct {
	Title         string             `json:"title"`
	Grantor       string             `json:"grantor"`
	Trustees      []Trustee          `json:"trustees"`
	Beneficiaries []draftBeneficiary `json:"beneficiaries"`
	Assets        []Asset            `json:"assets"`
}

func (d *LLMDrafter) Draft(ctx context.Context, t *Trust) (*GeneratedClause, error) {
	beneficiaries := make([]draftBeneficiary, 0, len(t.Beneficiaries))
	for _, b := range t.Beneficiaries {
		beneficiaries = append(beneficiaries, draftBeneficiary{
			Name:       b.Name,
			Successors: b.Successors,
			LapseRule:  b.LapseRule,
		})
	}

	projection, err := json.Marshal(draftProjection{
		Title:         t.Title,
		Grantor:       t.Grantor,
		Trustees:      t.Trustees,
		Beneficiaries: beneficiaries,
		Assets:        t.Assets,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal trust projection: %w", err)
	}

	prompt := fmt.Sprintf(`Draft a comprehensive Deed of Trust (Private Express Trust 98 Series style) based on the following structure.

Structure: %s

Requirements:
- Include comprehensive detailed clauses for Trustee powers, Beneficiary protections, and Anti-Lapse rules based on the provided input.
- Ensure the tone is commercial, authoritative, and precise. Avoid "statutory trust" language; prefer "Indenture" and "Contract" terminology.
- Explicitly distinguish between Legal Title (Trustees) and Equitable Title (Beneficiaries).
- Return the Deed content in Markdown format.
- Return a list of 'rationales' explaining key clauses and citations.
`, string(projection))

	response, err := d.call(ctx, llm.Prompt{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}

	clause, err := parseDraftResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return clause, nil
}

func parseDraftResponse(response string) (*GeneratedClause, error) {
	jsonStr := response
	if idx := strings.Index(response, "{"); idx >= 0 {
		endIdx := strings.LastIndex(response, "}")
		if endIdx > idx {
			jsonStr = response[idx : endIdx+1]
		}
	}

	var clause GeneratedClause
	if err := json.Unmarshal([]byte(jsonStr), &clause); err != nil {
		return nil, fmt.Errorf("unmarshal clause JSON: %w", err)
	}
	if clause.Rationales == nil {
		clause.Rationales = []Rationale{}
	}

	return &clause, nil
}

// StubDrafter returns a fixed deed without any engine call. It backs
// keyless demo runs and tests.
type StubDrafter struct{}

func (StubDrafter) Draft(_ context.Context, t *Trust) (*GeneratedClause, error) {
	markdown := fmt.Sprintf(
		"# DEED OF TRUST: %s\n\n**THIS INDENTURE**, made this %s...\n\n### Article I: Trust Purpose\nThe purpose of this Trust is to protect the assets...\n\n### Article II: Trustees\nThe initial Trustee shall be **%s**...",
		t.Title,
		time.Now().Format("1/2/2006"),
		t.PrimaryTrustee(),
	)

	return &GeneratedClause{
		Markdown: markdown,
		Rationales: []Rationale{
			{Summary: "Sovereign structure established", Citations: []string{"Common Law"}, RiskLevel: RationaleLow},
			{Summary: "Beneficiary anti-lapse included", Citations: []string{"Uniform Trust Code § 112"}, RiskLevel: RationaleLow},
		},
	}, nil
}
