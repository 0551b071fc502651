package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbooth/internal/blobstore"
	"docbooth/internal/launcher"
	"docbooth/internal/ledger"
)

type nopOpener struct{ opened int }

func (o *nopOpener) Open(ctx context.Context, url string, geo launcher.Geometry) error {
	o.opened++
	return nil
}

func (o *nopOpener) ScreenSize() (int, int) { return 1920, 1080 }

func newDashboard(t *testing.T) (*Controller, *blobstore.SQLiteStore, *ledger.SQLiteLedger, *nopOpener) {
	t.Helper()
	db, err := blobstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := blobstore.NewSQLiteStore(db, nil)
	require.NoError(t, err)
	lg, err := ledger.NewSQLiteLedger(db)
	require.NoError(t, err)
	op := &nopOpener{}
	l := &launcher.Launcher{Store: store, Ledger: lg, Opener: op, Origin: "http://localhost:0"}
	return NewController(l), store, lg, op
}

func TestAddFilesAssignsFreshIDsInOrder(t *testing.T) {
	ctl, _, _, _ := newDashboard(t)

	added := ctl.AddFiles(
		Upload{Name: "a.pdf", Data: []byte("a")},
		Upload{Name: "b.png", Data: []byte("b")},
	)
	require.Len(t, added, 2)
	assert.NotEmpty(t, added[0].ID)
	assert.NotEmpty(t, added[1].ID)
	assert.NotEqual(t, added[0].ID, added[1].ID)

	got := ctl.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].Name)
	assert.Equal(t, "b.png", got[1].Name)
}

func TestRemoveFileByIndex(t *testing.T) {
	ctl, store, lg, _ := newDashboard(t)
	ctx := context.Background()
	added := ctl.AddFiles(
		Upload{Name: "a.pdf", Data: []byte("a")},
		Upload{Name: "b.png", Data: []byte("b")},
		Upload{Name: "c.mp4", Data: []byte("c")},
	)

	require.NoError(t, ctl.RemoveFile(1))
	got := ctl.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].Name)
	assert.Equal(t, "c.mp4", got[1].Name)

	assert.Error(t, ctl.RemoveFile(5))
	assert.Error(t, ctl.RemoveFile(-1))

	// Removal never touches the blob store or the ledger.
	_, err := store.Get(ctx, added[1].ID)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	order, err := lg.Order(ctx)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestRequestViewHandsOffEntireSet(t *testing.T) {
	ctl, store, lg, op := newDashboard(t)
	ctx := context.Background()
	added := ctl.AddFiles(
		Upload{Name: "a.pdf", Data: []byte("a")},
		Upload{Name: "b.png", Data: []byte("b")},
	)

	require.NoError(t, ctl.RequestView(ctx, added[0].ID))

	// Both siblings persisted, order matches the dashboard, window opened.
	for _, e := range added {
		_, err := store.Get(ctx, e.ID)
		assert.NoError(t, err)
	}
	order, err := lg.Order(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{added[0].ID, added[1].ID}, order)
	assert.Equal(t, 1, op.opened)
}

func TestRequestViewUnknownID(t *testing.T) {
	ctl, _, _, op := newDashboard(t)
	ctl.AddFiles(Upload{Name: "a.pdf", Data: []byte("a")})

	assert.Error(t, ctl.RequestView(context.Background(), "nope"))
	assert.Zero(t, op.opened)
}
