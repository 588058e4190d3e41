// Package sqlite provides a SQLite-backed archive driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/omniverolabs/omnivero/pkg/archive"
	"github.com/omniverolabs/omnivero/pkg/instrument"
)

// Driver implements archive.Driver using SQLite. The full instrument is
// stored as a JSON document; creditor, summary, and risk are denormalized
// into columns so queries run in SQL.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (or creates) the archive database at dbPath.
// Use ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
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
	CREATE TABLE IF NOT EXISTS instruments (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		hash       TEXT NOT NULL,
		creditor   TEXT NOT NULL DEFAULT '',
		summary    TEXT NOT NULL DEFAULT '',
		risk       TEXT NOT NULL DEFAULT '',
		record     TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_instruments_risk ON instruments(risk);
	CREATE INDEX IF NOT EXISTS idx_instruments_hash ON instruments(hash);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Append persists an instrument. Newest-first ordering falls out of the
// descending seq scan in List and Query.
func (d *Driver) Append(ctx context.Context, inst *instrument.Instrument) error {
	if inst == nil {
		return errors.New("cannot archive nil instrument")
	}

	record, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("failed to marshal instrument: %w", err)
	}

	var creditor, summary, risk string
	if inst.Extraction != nil {
		creditor = inst.Extraction.Creditor
		summary = inst.Extraction.ExecutiveSummary
		risk = string(inst.Extraction.ViolationRisk)
	}

	_, err = d.db.ExecContext(ctx,
		"INSERT INTO instruments (id, hash, creditor, summary, risk, record, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		inst.ID, inst.Hash, creditor, summary, risk, string(record), inst.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert instrument: %w", err)
	}

	return nil
}

// List returns all instruments, newest first.
func (d *Driver) List(ctx context.Context) ([]*instrument.Instrument, error) {
	return d.scan(ctx, "SELECT record FROM instruments ORDER BY seq DESC")
}

// Query filters in SQL: LOWER/LIKE substring over creditor OR summary,
// ANDed with an exact risk match unless the filter is "All". The search
// term is escaped so LIKE wildcards match literally.
func (d *Driver) Query(ctx context.Context, search, riskFilter string) ([]*instrument.Instrument, error) {
	query := "SELECT record FROM instruments WHERE 1=1"
	args := []any{}

	if search != "" {
		query += ` AND (LOWER(creditor) LIKE '%' || LOWER(?) || '%' ESCAPE '\' OR LOWER(summary) LIKE '%' || LOWER(?) || '%' ESCAPE '\')`
		escaped := archive.EscapeLike(search)
		args = append(args, escaped, escaped)
	}
	if riskFilter != "" && riskFilter != instrument.RiskFilterAll {
		query += " AND risk = ?"
		args = append(args, riskFilter)
	}
	query += " ORDER BY seq DESC"

	return d.scan(ctx, query, args...)
}

// Get retrieves one instrument by id.
func (d *Driver) Get(ctx context.Context, id string) (*instrument.Instrument, error) {
	var record string
	err := d.db.QueryRowContext(ctx, "SELECT record FROM instruments WHERE id = ?", id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, archive.ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument: %w", err)
	}

	return unmarshalRecord(record)
}

// Update replaces the stored record with the same ID.
func (d *Driver) Update(ctx context.Context, inst *instrument.Instrument) error {
	if inst == nil {
		return errors.New("cannot archive nil instrument")
	}

	record, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("failed to marshal instrument: %w", err)
	}

	var creditor, summary, risk string
	if inst.Extraction != nil {
		creditor = inst.Extraction.Creditor
		summary = inst.Extraction.ExecutiveSummary
		risk = string(inst.Extraction.ViolationRisk)
	}

	res, err := d.db.ExecContext(ctx,
		"UPDATE instruments SET hash = ?, creditor = ?, summary = ?, risk = ?, record = ? WHERE id = ?",
		inst.Hash, creditor, summary, risk, string(record), inst.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update instrument: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return archive.ErrNotFound{ID: inst.ID}
	}

	return nil
}

// Clear deletes every record.
func (d *Driver) Clear(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM instruments"); err != nil {
		return fmt.Errorf("failed to clear archive: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) scan(ctx context.Context, query string, args ...any) ([]*instrument.Instrument, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	result := make([]*instrument.Instrument, 0)
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		inst, err := unmarshalRecord(record)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
	}

	return result, rows.Err()
}

func unmarshalRecord(record string) (*instrument.Instrument, error) {
	var inst instrument.Instrument
	if err := json.Unmarshal([]byte(record), &inst); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instrument record: %w", err)
	}
	return &inst, nil
}

var _ archive.Driver = (*Driver)(nil)
