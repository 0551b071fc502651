package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropWatcherIngestsFiles(t *testing.T) {
	ctl, _, _, _ := newDashboard(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &DropWatcher{Dir: dir, Ctl: ctl, Settle: 50 * time.Millisecond}
	done := make(chan struct{})
	go func() {
		_ = w.Watch(ctx)
		close(done)
	}()

	// Give the watcher a moment to register before dropping the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dropped.pdf"), []byte("%PDF"), 0644))

	deadline := time.Now().Add(3 * time.Second)
	for ctl.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, 1, ctl.Len())
	got := ctl.Entries()[0]
	assert.Equal(t, "dropped.pdf", got.Name)
	assert.Equal(t, []byte("%PDF"), got.Data)

	cancel()
	<-done
}
