package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before it is converted, so
// that exporters still writing it are not read half-way.
const settle = 500 * time.Millisecond

// Watch converts binary containers created or rewritten in cfg.InputDir
// until ctx is done, reporting each result through onResult.
func Watch(ctx context.Context, cfg Config, onResult func(Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(cfg.InputDir); err != nil {
		return err
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".fbx") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("batch: watcher error", "err", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				if ok, err := sniff(path); err != nil || !ok {
					if err != nil && !os.IsNotExist(err) {
						slog.Warn("batch: cannot read", "file", path, "err", err)
					}
					continue
				}
				onResult(ProcessFile(cfg, path))
			}
		}
	}
}
