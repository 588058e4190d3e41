// Package instrument defines the core record types for ingested commercial
// instruments: the raw submission, the structured extraction produced by the
// analysis engine, and the accepted file formats.
package instrument

import (
	"time"
)

// Risk is the violation-risk classification assigned by the analysis engine.
type Risk string

const (
	RiskNone     Risk = "None"
	RiskLow      Risk = "Low"
	RiskHigh     Risk = "High"
	RiskCritical Risk = "Critical"

	// RiskFilterAll is the query filter value that passes every record.
	RiskFilterAll = "All"
)

// Risks lists the valid classifications in severity order.
var Risks = []Risk{RiskNone, RiskLow, RiskHigh, RiskCritical}

// Valid returns true if r is one of the four defined classifications.
func (r Risk) Valid() bool {
	switch r {
	case RiskNone, RiskLow, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Extraction is the structured analysis of a single instrument. It is
// produced entirely by the engine; the pipeline only normalizes it.
type Extraction struct {
	Creditor      string   `json:"creditor,omitempty"`
	AccountNumber string   `json:"accountNumber,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Date          string   `json:"date,omitempty"`

	ViolationRisk      Risk     `json:"violationRisk"`
	ExecutiveSummary   string   `json:"executiveSummary"`
	IdentifiedEntities []string `json:"identifiedEntities"`
	RiskFactors        []string `json:"riskFactors"`
	StrategicAction    string   `json:"strategicAction"`
}

// Normalize clamps the extraction to its schema contract: the risk enum
// falls back to RiskNone when the engine returned something outside the
// four-value set, and the array fields are never nil.
func (e *Extraction) Normalize() {
	if !e.ViolationRisk.Valid() {
		e.ViolationRisk = RiskNone
	}
	if e.IdentifiedEntities == nil {
		e.IdentifiedEntities = []string{}
	}
	if e.RiskFactors == nil {
		e.RiskFactors = []string{}
	}
}

// FileData is an encoded file submission.
type FileData struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
	Name     string `json:"name,omitempty"`
}

// Instrument is a single archived submission: the raw inputs, the
// extraction result, and the content fingerprint. Once created it is
// never mutated.
type Instrument struct {
	ID         string      `json:"id"`
	RawText    string      `json:"rawText,omitempty"`
	FileData   *FileData   `json:"fileData,omitempty"`
	Extraction *Extraction `json:"extraction,omitempty"`
	Hash       string      `json:"hash"`
	Timestamp  time.Time   `json:"timestamp"`
}

// acceptedMimeTypes is the fixed set of file formats the extraction
// pipeline accepts.
var acceptedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/webp":      true,
}

// AcceptedMimeType reports whether the given MIME type is in the accepted
// set (PDF, PNG, JPEG, WEBP).
func AcceptedMimeType(mimeType string) bool {
	return acceptedMimeTypes[mimeType]
}
