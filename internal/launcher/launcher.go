// Package launcher commits the dashboard's current document set to the shared
// store, records the navigation order, and opens a new presentation surface
// pointed at the chosen document.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"docbooth/internal/blobstore"
	"docbooth/internal/ledger"
	"docbooth/internal/models"
)

// Launcher performs the dashboard-to-viewer hand-off. All blob writes finish
// before the ledger write, and the ledger write finishes before the window is
// opened, so a viewer can never resolve before its data exists.
type Launcher struct {
	Store  blobstore.Store
	Ledger ledger.Ledger
	Opener Opener
	Origin string // base URL of the serving origin, e.g. http://localhost:8080
}

// ErrSurface wraps window-open failures. Blob and ledger writes have already
// happened by then, so callers surface it without treating the launch as
// undone.
var ErrSurface = errors.New("presentation surface not acquired")

// Launch persists every entry (batched, concurrent), writes the full order to
// the ledger, then opens a viewer window on targetID. Any persistence failure
// aborts before anything is opened and is reported as one composite error.
func (l *Launcher) Launch(ctx context.Context, targetID string, entries []models.DashboardEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("nothing to launch")
	}

	// Fire all writes, then await all: each put is independent, so total
	// latency is the slowest write rather than the sum.
	var wg sync.WaitGroup
	errs := make([]error, len(entries))
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e models.DashboardEntry) {
			defer wg.Done()
			rec := models.Record{Name: e.Name, MimeHint: e.MimeHint, Data: e.Data}
			if _, err := l.Store.Put(ctx, rec, e.ID); err != nil {
				errs[i] = fmt.Errorf("persist %s: %w", e.Name, err)
			}
		}(i, e)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("launch aborted: %w", err)
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := l.Ledger.SetOrder(ctx, ids); err != nil {
		return fmt.Errorf("launch aborted: record order: %w", err)
	}

	target := l.viewerURL(targetID)
	if err := l.Opener.Open(ctx, target, FitScreen(l.Opener.ScreenSize())); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSurface, target, err)
	}
	return nil
}

func (l *Launcher) viewerURL(id string) string {
	q := url.Values{}
	q.Set("mode", "view")
	q.Set("fileId", id)
	return l.Origin + "/?" + q.Encode()
}
