package watch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dshills/recolor/internal/engine/tracking"
)

// Follow reloads the watched file into tr after every change until ctx is
// done or the watcher is closed. fn, if not nil, receives each revision.
// A removed file is skipped until it reappears.
func Follow(ctx context.Context, w *Watcher, tr *tracking.Tracker, fn func(Event, tracking.Revision)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.Path(), err)
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			data, err := os.ReadFile(w.Path())
			if errors.Is(err, os.ErrNotExist) {
				w.logger.Info("%s removed, waiting for it to reappear", w.Path())
				continue
			}
			if err != nil {
				return fmt.Errorf("reload: %w", err)
			}
			rev, err := tr.Sync(string(data))
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			if fn != nil {
				fn(ev, rev)
			}
		}
	}
}
