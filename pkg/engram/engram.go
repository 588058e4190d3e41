// Package engram provides the pluggable memory layer for the omnivero
// system.
//
// Engrams are short, user-curated fact and entity nodes that persist across
// sessions and are replayed into every future extraction or drafting request
// as contextual grounding. The store is append-only apart from explicit
// user deletion and the full purge.
//
// The [Store] interface is intentionally minimal: Commit adds a node with
// value-level deduplication, List returns nodes in insertion order, Remove
// and PurgeAll delete. Drivers are pluggable via configuration:
//
//	[memory]
//	provider = "sqlite"   # or "inmemory"
package engram

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Type classifies what kind of knowledge a node carries.
type Type string

const (
	TypeEntity  Type = "Entity"
	TypeStatute Type = "Statute"
	TypeFact    Type = "Fact"
)

// Valid returns true if t is one of the defined node types.
func (t Type) Valid() bool {
	switch t {
	case TypeEntity, TypeStatute, TypeFact:
		return true
	}
	return false
}

// Node is a single persisted engram.
type Node struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store handles persistence and recall of engrams. Every mutation persists
// synchronously; there is no write queue. Concurrent processes sharing one
// backing store race last-writer-wins, which is unguarded.
type Store interface {
	// Commit creates a node for the given type and value. If the value is
	// already present anywhere in the store, regardless of type, Commit is
	// a no-op and returns ok=false. New nodes get confidence 1.0 and the
	// current timestamp.
	Commit(ctx context.Context, typ Type, value string) (node *Node, ok bool, err error)

	// List returns all nodes in insertion order.
	List(ctx context.Context) ([]Node, error)

	// Remove deletes one node by id. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error

	// PurgeAll clears the store. Destructive and irreversible; user
	// confirmation is the caller's responsibility.
	PurgeAll(ctx context.Context) error

	// Close releases store resources.
	Close() error
}

// GroupByType buckets nodes by type, preserving each node's relative
// insertion order within its group. Used for presentation.
func GroupByType(nodes []Node) map[Type][]Node {
	grouped := make(map[Type][]Node)
	for _, n := range nodes {
		grouped[n.Type] = append(grouped[n.Type], n)
	}
	return grouped
}

// ContextLines renders a memory snapshot as "- {type}: {value}" lines for
// injection into engine prompts. An empty snapshot renders as the literal
// no-context marker so the engine is told, rather than left to guess, that
// there is no prior context.
func ContextLines(nodes []Node) string {
	if len(nodes) == 0 {
		return "No prior context."
	}

	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s", n.Type, n.Value)
	}
	return b.String()
}
