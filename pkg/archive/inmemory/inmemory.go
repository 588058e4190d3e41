// Package inmemory provides an in-process archive.Driver. Nothing survives
// process exit; it backs tests and keyless demo runs.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// Driver implements archive.Driver using an in-memory slice, newest first.
type Driver struct {
	mu          sync.RWMutex
	instruments []*instrument.Instrument
}

// NewDriver creates an empty in-memory archive.
func NewDriver() *Driver {
	return &Driver{}
}

// Append prepends an instrument.
func (d *Driver) Append(_ context.Context, inst *instrument.Instrument) error {
	if inst == nil {
		return errors.New("cannot archive nil instrument")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.instruments = append([]*instrument.Instrument{inst}, d.instruments...)
	return nil
}

// List returns all instruments, newest first.
func (d *Driver) List(_ context.Context) ([]*instrument.Instrument, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*instrument.Instrument, len(d.instruments))
	copy(result, d.instruments)

	return result, nil
}

// Query filters with the shared archive predicate.
func (d *Driver) Query(_ context.Context, search, riskFilter string) ([]*instrument.Instrument, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*instrument.Instrument, 0)
	for _, inst := range d.instruments {
		if archive.Matches(inst, search, riskFilter) {
			result = append(result, inst)
		}
	}

	return result, nil
}

// Get retrieves one instrument by id.
func (d *Driver) Get(_ context.Context, id string) (*instrument.Instrument, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, inst := range d.instruments {
		if inst.ID == id {
			return inst, nil
		}
	}

	return nil, archive.ErrNotFound{ID: id}
}

// Update replaces the stored record with the same ID.
func (d *Driver) Update(_ context.Context, inst *instrument.Instrument) error {
	if inst == nil {
		return errors.New("cannot archive nil instrument")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, existing := range d.instruments {
		if existing.ID == inst.ID {
			d.instruments[i] = inst
			return nil
		}
	}

	return archive.ErrNotFound{ID: inst.ID}
}

// Clear deletes every record.
func (d *Driver) Clear(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.instruments = nil
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

var _ archive.Driver = (*Driver)(nil)
