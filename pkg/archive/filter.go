package archive

import (
	"strings"

	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// likeEscaper neutralizes the LIKE metacharacters so a search term always
// matches literally. Drivers using it must declare ESCAPE '\' on the
// LIKE expression.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes %, _, and backslash in a search term for use in a
// SQL LIKE pattern with ESCAPE '\'. Query semantics are literal substring
// match; without this, wildcard characters in the term would widen the
// match beyond what Matches allows.
func EscapeLike(search string) string {
	return likeEscaper.Replace(search)
}

// Matches implements the shared query predicate: case-insensitive substring
// match on creditor OR executive summary, ANDed with an exact risk match.
// Drivers that cannot push the predicate into their backend use this
// directly to guarantee identical semantics.
func Matches(inst *instrument.Instrument, search, riskFilter string) bool {
	var creditor, summary string
	var risk instrument.Risk
	if inst.Extraction != nil {
		creditor = inst.Extraction.Creditor
		summary = inst.Extraction.ExecutiveSummary
		risk = inst.Extraction.ViolationRisk
	}

	if search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(creditor), needle) &&
			!strings.Contains(strings.ToLower(summary), needle) {
			return false
		}
	}

	if riskFilter != "" && riskFilter != instrument.RiskFilterAll {
		if string(risk) != riskFilter {
			return false
		}
	}

	return true
}
