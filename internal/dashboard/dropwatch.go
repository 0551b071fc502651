package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"docbooth/internal/utils"
)

// DropWatcher is the drag-and-drop input surface of the headless world: files
// placed in the drop directory are read and added to the dashboard.
type DropWatcher struct {
	Dir     string
	Ctl     *Controller
	Logger  *utils.Logger
	Settle  time.Duration // wait after the last event before reading a file
	pending map[string]time.Time
}

// Watch blocks until ctx is done, feeding dropped files into the controller.
func (w *DropWatcher) Watch(ctx context.Context) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("create drop dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start drop watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}

	settle := w.Settle
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	w.pending = make(map[string]time.Time)
	tick := time.NewTicker(settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) {
				w.pending[ev.Name] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if w.Logger != nil {
				w.Logger.Error("drop watcher: " + err.Error())
			}
		case now := <-tick.C:
			// Ingest files that stopped changing; writers still copying
			// keep bumping their timestamp.
			for path, last := range w.pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(w.pending, path)
				w.ingest(path)
			}
		}
	}
}

func (w *DropWatcher) ingest(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("drop ingest " + path + ": " + err.Error())
		}
		return
	}
	name := filepath.Base(path)
	w.Ctl.AddFiles(Upload{Name: name, Data: data})
	if w.Logger != nil {
		w.Logger.Info("ingested dropped file " + name)
	}
	_ = os.Remove(path)
}
