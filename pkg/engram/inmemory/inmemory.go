// Package inmemory provides an in-process implementation of engram.Store.
// Nothing survives process exit; it backs tests and keyless demo runs.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/omniverolabs/omnivero/pkg/engram"
)

// Store implements engram.Store using an in-memory slice.
type Store struct {
	// mu guards nodes; insertion order is the slice order.
	mu    sync.RWMutex
	nodes []engram.Node
}

// NewStore creates an empty in-memory engram store.
func NewStore() *Store {
	return &Store{}
}

// Commit appends a node unless the value is already present.
func (s *Store) Commit(_ context.Context, typ engram.Type, value string) (*engram.Node, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.nodes {
		if n.Value == value {
			return nil, false, nil
		}
	}

	node := engram.Node{
		ID:         uuid.NewString(),
		Type:       typ,
		Value:      value,
		Confidence: 1.0,
		Timestamp:  time.Now().UTC(),
	}
	s.nodes = append(s.nodes, node)

	return &node, true, nil
}

// List returns all nodes in insertion order.
func (s *Store) List(_ context.Context) ([]engram.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to avoid callers mutating internal state.
	result := make([]engram.Node, len(s.nodes))
	copy(result, s.nodes)

	return result, nil
}

// Remove deletes one node by id. Idempotent.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.nodes {
		if n.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return nil
		}
	}
	return nil
}

// PurgeAll clears the store.
func (s *Store) PurgeAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = nil
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

var _ engram.Store = (*Store)(nil)
