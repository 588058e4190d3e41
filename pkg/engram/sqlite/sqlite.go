// Package sqlite provides a SQLite-backed engram store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/omniverolabs/omnivero/pkg/engram"
)

// Store implements engram.Store using SQLite. Every mutation is written
// through synchronously; insertion order is preserved by the seq rowid.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the engram database at dbPath.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal_mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS engrams (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		type       TEXT NOT NULL,
		value      TEXT NOT NULL UNIQUE,
		confidence REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_engrams_type ON engrams(type);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Commit inserts a node unless the value already exists anywhere in the
// store. The dedup check and insert run inside one transaction.
func (s *Store) Commit(ctx context.Context, typ engram.Type, value string) (*engram.Node, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM engrams WHERE value = ?", value).Scan(&exists)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for duplicate value: %w", err)
	}
	if exists > 0 {
		return nil, false, nil
	}

	node := engram.Node{
		ID:         uuid.NewString(),
		Type:       typ,
		Value:      value,
		Confidence: 1.0,
		Timestamp:  time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO engrams (id, type, value, confidence, created_at) VALUES (?, ?, ?, ?, ?)",
		node.ID, string(node.Type), node.Value, node.Confidence, node.Timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert engram: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &node, true, nil
}

// List returns all nodes in insertion order.
func (s *Store) List(ctx context.Context) ([]engram.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, value, confidence, created_at FROM engrams ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query engrams: %w", err)
	}
	defer rows.Close()

	var nodes []engram.Node
	for rows.Next() {
		var n engram.Node
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.Value, &n.Confidence, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan engram: %w", err)
		}
		n.Type = engram.Type(typ)
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}

// Remove deletes one node by id. Deleting an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM engrams WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete engram: %w", err)
	}
	return nil
}

// PurgeAll clears the store.
func (s *Store) PurgeAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM engrams"); err != nil {
		return fmt.Errorf("failed to purge engrams: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ engram.Store = (*Store)(nil)
