// Package trust models private express trust structures and drafts deed
// documents from them.
package trust

// Series identifies the trust style being drafted.
type Series string

const (
	Series98     Series = "98"
	Series61524  Series = "61524"
	SeriesCustom Series = "Custom"
)

// Valid returns true if s is one of the defined series.
func (s Series) Valid() bool {
	switch s {
	case Series98, Series61524, SeriesCustom:
		return true
	}
	return false
}

// TrusteeRole distinguishes the acting trustee from its successors.
type TrusteeRole string

const (
	RolePrimary   TrusteeRole = "Primary"
	RoleSuccessor TrusteeRole = "Successor"
)

// LapseRule controls what happens to a beneficiary's share when the
// beneficiary predeceases distribution.
type LapseRule string

const (
	PerStirpes    LapseRule = "Per Stirpes"
	PerCapita     LapseRule = "Per Capita"
	LapseToCorpus LapseRule = "Lapse to Corpus"
)

// Trustee holds legal title to the trust corpus.
type Trustee struct {
	ID   string      `json:"id" toml:"id"`
	Name string      `json:"name" toml:"name"`
	Role TrusteeRole `json:"role" toml:"role"`
}

// Successor steps into a beneficiary's position under a named condition.
type Successor struct {
	ID        string `json:"id" toml:"id"`
	Name      string `json:"name" toml:"name"`
	Condition string `json:"condition" toml:"condition"`
}

// Beneficiary holds equitable title. PriorityOrder is its 1-based
// position in the distribution order.
type Beneficiary struct {
	ID            string      `json:"id" toml:"id"`
	Name          string      `json:"name" toml:"name"`
	PriorityOrder int         `json:"priorityOrder" toml:"priority_order"`
	Successors    []Successor `json:"successors" toml:"successors"`
	LapseRule     LapseRule   `json:"lapseRule" toml:"lapse_rule"`
}

// Asset is a corpus entry.
type Asset struct {
	ID           string `json:"id" toml:"id"`
	Description  string `json:"description" toml:"description"`
	InitialValue string `json:"initialValue,omitempty" toml:"initial_value,omitempty"`
}

// Trust is the transient structure a deed is drafted from. It is never
// archived; only the drafting session holds it.
type Trust struct {
	ID            string        `json:"id" toml:"id"`
	Title         string        `json:"title" toml:"title"`
	Grantor       string        `json:"grantor" toml:"grantor"`
	Series        Series        `json:"series" toml:"series"`
	Trustees      []Trustee     `json:"trustees" toml:"trustees"`
	Beneficiaries []Beneficiary `json:"beneficiaries" toml:"beneficiaries"`
	Assets        []Asset       `json:"assets" toml:"assets"`
	CreatedAt     string        `json:"createdAt" toml:"created_at"`
}

// PrimaryTrustee returns the name of the first trustee with the Primary
// role, or "Undesignated" when none exists.
func (t *Trust) PrimaryTrustee() string {
	for _, tr := range t.Trustees {
		if tr.Role == RolePrimary {
			return tr.Name
		}
	}
	return "Undesignated"
}

// RationaleRisk grades a drafted clause.
type RationaleRisk string

const (
	RationaleLow    RationaleRisk = "Low"
	RationaleMedium RationaleRisk = "Medium"
	RationaleHigh   RationaleRisk = "High"
)

// Rationale explains one key clause of a drafted deed.
type Rationale struct {
	Summary   string        `json:"summary"`
	Citations []string      `json:"citations"`
	RiskLevel RationaleRisk `json:"riskLevel"`
}

// GeneratedClause is the drafting output: the deed body in markdown plus
// the rationales for its key clauses.
type GeneratedClause struct {
	Markdown   string      `json:"markdown"`
	Rationales []Rationale `json:"rationales"`
}
