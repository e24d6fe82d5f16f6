package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"insulin_drip/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it changes and passes the new Config to
// onChange. The parent directory is watched so that editors which save by
// renaming a temp file over path keep triggering reloads. A reload that
// fails keeps the previous config. It returns when ctx is cancelled.
func Watch(ctx context.Context, path string, log *logger.Logger, onChange func(*Config)) error {
	target := filepath.Clean(path)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	log.Infow("config_watch_started", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			cfg, err := Load(target)
			if err != nil {
				log.Errorw("config_reload_failed", "path", target, "err", err)
				continue
			}
			log.Infow("config_reloaded", "path", target, "log_level", cfg.Log.Level)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("config_watch_error", "err", err)
		}
	}
}
