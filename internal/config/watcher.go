package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle coalesces the write+rename burst an atomic save produces.
const watchSettle = 250 * time.Millisecond

// Watch reloads the file whenever it changes on disk and hands the result
// to onChange. It watches the directory rather than the file so the
// rename-over pattern (and editors doing the same) keeps working. Blocks
// until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(s.path), err)
	}

	var settle *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			slog.Warn("config: watch error", "err", err)
		case ev := <-w.Events:
			if filepath.Base(ev.Name) != filepath.Base(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(watchSettle, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			cfg, err := s.Load()
			if err != nil {
				slog.Warn("config: reload failed", "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", s.path)
			onChange(cfg)
		}
	}
}
