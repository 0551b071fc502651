// Package session implements the viewer side of the document hand-off: a
// window launched at ?mode=view&fileId=<id> resolves its document from the
// blob store and walks the persisted navigation order with next/previous.
package session

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"docbooth/internal/blobstore"
	"docbooth/internal/ledger"
	"docbooth/internal/models"
)

// State is the lifecycle of a viewer session's active document.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateResolving     State = "resolving"
	StateReady         State = "ready"
	StateNotFound      State = "not_found"
	StateFailed        State = "failed"
)

// Config is the launch configuration of a window, resolved once at startup.
// Anything other than mode=view with a file id means dashboard mode.
type Config struct {
	Mode   string
	FileID string
}

// ParseLaunchQuery extracts the launch configuration from a raw URL query.
func ParseLaunchQuery(rawQuery string) Config {
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Config{}
	}
	return Config{Mode: v.Get("mode"), FileID: v.Get("fileId")}
}

// IsViewer reports whether the configuration marks the window as a launched
// viewer rather than the dashboard.
func (c Config) IsViewer() bool {
	return c.Mode == "view" && c.FileID != ""
}

// Controller drives one viewer session. The navigation order is read from the
// ledger exactly once at Start and stays fixed for the life of the session; a
// later launch that rewrites the ledger does not propagate here.
type Controller struct {
	store blobstore.Store

	mu     sync.Mutex
	cfg    Config
	order  []string
	active string
	gen    uint64
	state  State
	record *models.Record
	err    error
}

// NewController builds an inert controller for the given launch config.
// Nothing is resolved until Start.
func NewController(cfg Config, store blobstore.Store) *Controller {
	return &Controller{store: store, cfg: cfg, state: StateUninitialized}
}

// Start reads the navigation order and resolves the initial target. On a
// dashboard-mode config it does nothing. A ledger read failure is not fatal:
// the session proceeds with an empty order and navigation stays disabled.
func (s *Controller) Start(ctx context.Context, lg ledger.Ledger) {
	if !s.cfg.IsViewer() {
		return
	}
	order, err := lg.Order(ctx)
	if err != nil {
		order = []string{}
	}
	s.mu.Lock()
	s.order = order
	s.active = s.cfg.FileID
	s.mu.Unlock()
	s.resolve(ctx)
}

// Next moves to the following entry in the order. At the last position it is
// a no-op; the order never wraps around.
func (s *Controller) Next(ctx context.Context) {
	s.step(ctx, +1)
}

// Previous moves to the preceding entry. No-op at position zero.
func (s *Controller) Previous(ctx context.Context) {
	s.step(ctx, -1)
}

func (s *Controller) step(ctx context.Context, delta int) {
	s.mu.Lock()
	idx := indexOf(s.order, s.active)
	next := idx + delta
	if idx < 0 || next < 0 || next >= len(s.order) {
		s.mu.Unlock()
		return
	}
	s.active = s.order[next]
	s.mu.Unlock()
	s.resolve(ctx)
}

// resolve loads the active document from the blob store and applies the
// outcome, unless the active id moved on while the load was in flight (rapid
// navigation); stale completions are ignored.
func (s *Controller) resolve(ctx context.Context) {
	s.mu.Lock()
	id := s.active
	s.gen++
	gen := s.gen
	s.state = StateResolving
	s.record = nil
	s.err = nil
	s.mu.Unlock()

	rec, err := s.store.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.active != id {
		return
	}
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		s.state = StateNotFound
	case err != nil:
		s.state = StateFailed
		s.err = err
	default:
		s.state = StateReady
		s.record = rec
	}
}

// View is a consistent snapshot of the session for presentation.
type View struct {
	State    State
	FileID   string
	Record   *models.Record
	Position int // 1-based position in the order, 0 when not listed
	Total    int
	CanNext  bool
	CanPrev  bool
	Err      error
}

// Snapshot returns the current presentation state.
func (s *Controller) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOf(s.order, s.active)
	return View{
		State:    s.state,
		FileID:   s.active,
		Record:   s.record,
		Position: idx + 1,
		Total:    len(s.order),
		CanNext:  idx >= 0 && idx < len(s.order)-1,
		CanPrev:  idx > 0,
		Err:      s.err,
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
