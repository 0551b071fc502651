package blobstore

import (
	"context"
	"errors"

	"docbooth/internal/models"
)

// ===== Identity & Blob Store =====
// Durable keyed store for uploaded binaries, shared by the dashboard and every
// viewer window. Callers must treat ErrNotFound as an expected outcome: the
// store persists across restarts but the backing file can be wiped or evicted
// out from under us.

// ErrNotFound is returned by Get when no record exists under the id.
var ErrNotFound = errors.New("document not found")

// Store assigns identities to binaries and resolves them back.
type Store interface {
	// Put stores rec keyed by id, or by a freshly generated identifier when
	// id is empty, overwriting any existing record. Returns the id used.
	// Independent Put calls are safe to issue concurrently.
	Put(ctx context.Context, rec models.Record, id string) (string, error)

	// Get resolves a previously stored record. Returns ErrNotFound when the
	// id is absent or the underlying store was cleared.
	Get(ctx context.Context, id string) (*models.Record, error)
}
