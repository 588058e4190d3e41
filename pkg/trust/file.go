package trust

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// LoadFile reads a trust definition from a TOML file. Missing ids are
// minted, missing priority orders follow declaration order, and the
// series defaults to Custom.
func LoadFile(path string) (*Trust, error) {
	var t Trust
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("failed to decode trust file: %w", err)
	}

	if t.Series == "" {
		t.Series = SeriesCustom
	}
	if !t.Series.Valid() {
		return nil, fmt.Errorf("invalid trust series: %s", t.Series)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	for i := range t.Trustees {
		if t.Trustees[i].ID == "" {
			t.Trustees[i].ID = uuid.NewString()
		}
	}
	for i := range t.Beneficiaries {
		b := &t.Beneficiaries[i]
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if b.PriorityOrder == 0 {
			b.PriorityOrder = i + 1
		}
		if b.Successors == nil {
			b.Successors = []Successor{}
		}
		for j := range b.Successors {
			if b.Successors[j].ID == "" {
				b.Successors[j].ID = uuid.NewString()
			}
		}
	}
	for i := range t.Assets {
		if t.Assets[i].ID == "" {
			t.Assets[i].ID = uuid.NewString()
		}
	}

	return &t, nil
}
