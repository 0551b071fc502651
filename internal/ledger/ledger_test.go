package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbooth/internal/blobstore"
)

func newTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	db, err := blobstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	l, err := NewSQLiteLedger(db)
	require.NoError(t, err)
	return l
}

func TestOrderEmptyWhenNeverSet(t *testing.T) {
	l := newTestLedger(t)

	ids, err := l.Order(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSetOrderReplacesWholesale(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.SetOrder(ctx, []string{"a", "b", "c"}))
	ids, err := l.Order(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	// A later launch overwrites the whole entry, it does not append.
	require.NoError(t, l.SetOrder(ctx, []string{"z"}))
	ids, err = l.Order(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, ids)
}

func TestSetOrderEmptyList(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.SetOrder(ctx, []string{"a"}))
	require.NoError(t, l.SetOrder(ctx, nil))
	ids, err := l.Order(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
