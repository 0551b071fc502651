package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when no session exists for a token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session has expired.
	ErrSessionExpired = errors.New("session expired")
)

type entry struct {
	ctl       *Controller
	expiresAt time.Time
}

// Registry binds launched viewer windows to their server-side controllers via
// opaque tokens. Sessions are volatile: they expire after the TTL and are
// discarded, matching windows that were simply closed.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, sessions: make(map[string]*entry)}
}

// Add registers a controller and returns its token.
func (r *Registry) Add(ctl *Controller) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.sessions[token] = &entry{ctl: ctl, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()
	return token
}

// Get resolves a token, refreshing its expiry on use.
func (r *Registry) Get(token string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(r.sessions, token)
		return nil, ErrSessionExpired
	}
	e.expiresAt = time.Now().Add(r.ttl)
	return e.ctl, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops expired sessions. StartGC runs it periodically until ctx ends.
func (r *Registry) Sweep() {
	now := time.Now()
	r.mu.Lock()
	for token, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, token)
		}
	}
	r.mu.Unlock()
}

func (r *Registry) StartGC(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				r.Sweep()
			}
		}
	}()
}
