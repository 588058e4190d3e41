package testutils

import (
	"time"

	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// NewTestInstrument creates an archived instrument with an extraction for
// testing.
func NewTestInstrument(id, creditor, summary string, risk instrument.Risk) *instrument.Instrument {
	return &instrument.Instrument{
		ID:      id,
		RawText: "test submission for " + creditor,
		Extraction: &instrument.Extraction{
			Creditor:           creditor,
			ViolationRisk:      risk,
			ExecutiveSummary:   summary,
			IdentifiedEntities: []string{creditor},
			RiskFactors:        []string{},
			StrategicAction:    "Review and respond.",
		},
		Hash:      "fp-" + id,
		Timestamp: time.Now().UTC(),
	}
}
