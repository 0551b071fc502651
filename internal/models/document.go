package models

import "time"

// ===== Domain Models =====

// Record is a document as persisted in the blob store: an opaque identifier,
// the raw payload, and display metadata. Immutable once stored except by full
// overwrite under the same id.
type Record struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MimeHint string    `json:"mime_hint"`
	Data     []byte    `json:"-"`
	StoredAt time.Time `json:"stored_at"`
}

// DashboardEntry is a document held only in dashboard memory. It is never
// persisted on its own; persistence happens lazily when a viewing session is
// launched, batching the whole current set.
type DashboardEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeHint string `json:"mime_hint"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}
