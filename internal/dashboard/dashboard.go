// Package dashboard owns the in-memory set of uploaded documents and
// delegates viewing requests to the session launcher. Nothing here persists
// on its own: blobs and order are written lazily, at launch time.
package dashboard

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"docbooth/internal/launcher"
	"docbooth/internal/models"
	"docbooth/internal/utils"
)

// Upload is a raw file as it arrives from the input surface.
type Upload struct {
	Name     string
	MimeHint string
	Data     []byte
}

// Controller manages the dashboard's document set.
type Controller struct {
	Launcher *launcher.Launcher

	mu      sync.Mutex
	entries []models.DashboardEntry
}

func NewController(l *launcher.Launcher) *Controller {
	return &Controller{Launcher: l}
}

// AddFiles wraps each upload with a fresh identifier and appends it, in the
// given order. The blob store is not touched here.
func (c *Controller) AddFiles(uploads ...Upload) []models.DashboardEntry {
	added := make([]models.DashboardEntry, 0, len(uploads))
	for _, u := range uploads {
		added = append(added, models.DashboardEntry{
			ID:       uuid.NewString(),
			Name:     u.Name,
			MimeHint: u.MimeHint,
			Size:     int64(len(u.Data)),
			Data:     u.Data,
		})
	}
	c.mu.Lock()
	c.entries = append(c.entries, added...)
	c.mu.Unlock()
	return added
}

// RemoveFile drops the entry at index. Already-launched sessions keep their
// persisted copies; removal is purely an in-memory operation.
func (c *Controller) RemoveFile(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.entries) {
		return utils.New(http.StatusNotFound, "no document at that position")
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	return nil
}

// Entries returns a snapshot of the current set in upload order.
func (c *Controller) Entries() []models.DashboardEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.DashboardEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of held documents.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RequestView launches a viewer session on id, handing the launcher the
// entire current set so the new window can navigate to siblings.
func (c *Controller) RequestView(ctx context.Context, id string) error {
	set := c.Entries()
	found := false
	for _, e := range set {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return utils.New(http.StatusNotFound, "unknown document id "+id)
	}
	return c.Launcher.Launch(ctx, id, set)
}
