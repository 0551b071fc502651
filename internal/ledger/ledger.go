// Package ledger persists the navigation order of launched documents: an
// ordered list of blob identifiers, readable by any window of the same origin.
// The order is always replaced wholesale by whoever launches a viewing
// session; last writer wins, with no locking or versioning.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Ledger records the sequence in which documents are navigable.
type Ledger interface {
	// SetOrder replaces the full navigation order.
	SetOrder(ctx context.Context, ids []string) error

	// Order returns the most recently set order, or an empty sequence if
	// none has ever been set.
	Order(ctx context.Context) ([]string, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS playlist (
	slot       INTEGER PRIMARY KEY CHECK (slot = 1),
	ids        TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteLedger stores the order as a single JSON row in the shared database.
type SQLiteLedger struct {
	db *sql.DB
}

func NewSQLiteLedger(db *sql.DB) (*SQLiteLedger, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply playlist schema: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) SetOrder(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode playlist: %w", err)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO playlist (slot, ids, updated_at) VALUES (1, ?, ?)`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) Order(ctx context.Context) ([]string, error) {
	var raw string
	err := l.db.QueryRowContext(ctx, `SELECT ids FROM playlist WHERE slot = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
