// Package archive defines the interface for persisting and querying the
// ordered log of past extraction results.
//
// The archive is newest-first and append-only within a session: records are
// never mutated after creation, and the only deletion is the whole-archive
// Clear. There is no size cap or eviction.
package archive

import (
	"context"

	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// Driver is the primary interface for working with archived instruments.
type Driver interface {
	// Append adds an instrument to the front of the archive (newest-first).
	Append(ctx context.Context, inst *instrument.Instrument) error

	// List returns all instruments, newest first.
	List(ctx context.Context) ([]*instrument.Instrument, error)

	// Query filters the archive. search matches case-insensitively as a
	// substring against the extraction's creditor OR executive summary
	// (empty search matches all); riskFilter "All" passes everything,
	// otherwise it must equal the extraction's violation risk exactly.
	// Both predicates are ANDed. Results remain newest first.
	Query(ctx context.Context, search, riskFilter string) ([]*instrument.Instrument, error)

	// Get retrieves one instrument by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*instrument.Instrument, error)

	// Clear deletes every record. Destructive; confirmation is the
	// caller's responsibility.
	Clear(ctx context.Context) error

	// Close closes the archive and releases any resources.
	Close() error
}
