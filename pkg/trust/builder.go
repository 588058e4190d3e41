package trust

import (
	"time"

	"github.com/google/uuid"
)

// Builder assembles a trust graph incrementally. Beneficiaries receive
// their 1-based priority order as they are added; successors attach to
// the beneficiary they are added under.
type Builder struct {
	trust Trust
}

// NewBuilder starts a trust with the given title, grantor, and series.
func NewBuilder(title, grantor string, series Series) *Builder {
	return &Builder{
		trust: Trust{
			ID:            uuid.NewString(),
			Title:         title,
			Grantor:       grantor,
			Series:        series,
			Trustees:      []Trustee{},
			Beneficiaries: []Beneficiary{},
			Assets:        []Asset{},
			CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// AddTrustee appends a trustee and returns its id.
func (b *Builder) AddTrustee(name string, role TrusteeRole) string {
	t := Trustee{
		ID:   uuid.NewString(),
		Name: name,
		Role: role,
	}
	b.trust.Trustees = append(b.trust.Trustees, t)
	return t.ID
}

// AddBeneficiary appends a beneficiary with the next priority order and
// returns its id.
func (b *Builder) AddBeneficiary(name string, rule LapseRule) string {
	ben := Beneficiary{
		ID:            uuid.NewString(),
		Name:          name,
		PriorityOrder: len(b.trust.Beneficiaries) + 1,
		Successors:    []Successor{},
		LapseRule:     rule,
	}
	b.trust.Beneficiaries = append(b.trust.Beneficiaries, ben)
	return ben.ID
}

// AddSuccessor attaches a successor to the beneficiary with the given id.
// It returns false when no such beneficiary exists.
func (b *Builder) AddSuccessor(beneficiaryID, name, condition string) bool {
	for i := range b.trust.Beneficiaries {
		if b.trust.Beneficiaries[i].ID == beneficiaryID {
			b.trust.Beneficiaries[i].Successors = append(b.trust.Beneficiaries[i].Successors, Successor{
				ID:        uuid.NewString(),
				Name:      name,
				Condition: condition,
			})
			return true
		}
	}
	return false
}

// AddAsset appends a corpus entry and returns its id.
func (b *Builder) AddAsset(description, initialValue string) string {
	a := Asset{
		ID:           uuid.NewString(),
		Description:  description,
		InitialValue: initialValue,
	}
	b.trust.Assets = append(b.trust.Assets, a)
	return a.ID
}

// Build returns the assembled trust.
func (b *Builder) Build() *Trust {
	t := b.trust
	return &t
}
