package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"docbooth/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	mime_hint TEXT NOT NULL DEFAULT '',
	data      BLOB NOT NULL,
	encrypted INTEGER NOT NULL DEFAULT 0,
	stored_at TEXT NOT NULL
);`

// Open opens (creating if needed) the shared database with WAL and a busy
// timeout so concurrent writers from several processes back off instead of
// failing, and applies the schema.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return prepare(db)
}

// OpenMemory opens a throwaway in-memory database for tests.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	return prepare(db)
}

func prepare(db *sql.DB) (*sql.DB, error) {
	// A single connection keeps :memory: databases coherent and is plenty
	// for a single-origin dashboard.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 10000;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// SQLiteStore is the durable Store implementation. When masterKey is set,
// payloads are sealed with AES-GCM before hitting disk.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// NewSQLiteStore wraps an opened database. masterKey may be nil (plaintext
// storage) or 32 bytes (at-rest encryption).
func NewSQLiteStore(db *sql.DB, masterKey []byte) (*SQLiteStore, error) {
	var key []byte
	if len(masterKey) != 0 {
		k, err := DeriveBlobKey(masterKey)
		if err != nil {
			return nil, fmt.Errorf("derive blob key: %w", err)
		}
		key = k
	}
	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec models.Record, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	data := rec.Data
	encrypted := 0
	if s.key != nil {
		sealed, err := EncryptAESGCM(s.key, data)
		if err != nil {
			return "", fmt.Errorf("seal blob %s: %w", id, err)
		}
		data = sealed
		encrypted = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO files (id, name, mime_hint, data, encrypted, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.Name, rec.MimeHint, data, encrypted, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("store blob %s: %w", id, err)
	}
	return id, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Record, error) {
	var (
		rec       models.Record
		encrypted int
		storedAt  string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, mime_hint, data, encrypted, stored_at FROM files WHERE id = ?`, id)
	err := row.Scan(&rec.ID, &rec.Name, &rec.MimeHint, &rec.Data, &encrypted, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load blob %s: %w", id, err)
	}
	if encrypted == 1 {
		if s.key == nil {
			return nil, fmt.Errorf("blob %s is encrypted but no master key is configured", id)
		}
		plain, err := DecryptAESGCM(s.key, rec.Data)
		if err != nil {
			return nil, fmt.Errorf("open blob %s: %w", id, err)
		}
		rec.Data = plain
	}
	if t, err := time.Parse(time.RFC3339, storedAt); err == nil {
		rec.StoredAt = t
	}
	return &rec, nil
}
