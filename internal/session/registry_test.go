package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddGet(t *testing.T) {
	r := NewRegistry(time.Minute)
	ctl := NewController(Config{Mode: "view", FileID: "x"}, failingStore{})

	token := r.Add(ctl)
	require.NotEmpty(t, token)

	got, err := r.Get(token)
	require.NoError(t, err)
	assert.Same(t, ctl, got)

	_, err = r.Get("bogus")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(time.Millisecond)
	token := r.Add(NewController(Config{}, failingStore{}))

	time.Sleep(5 * time.Millisecond)
	_, err := r.Get(token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, r.Len())
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(time.Millisecond)
	r.Add(NewController(Config{}, failingStore{}))
	r.Add(NewController(Config{}, failingStore{}))

	time.Sleep(5 * time.Millisecond)
	r.Sweep()
	assert.Zero(t, r.Len())
}
