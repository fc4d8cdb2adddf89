package config

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	fsnotify "github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it is written or recreated and hands
// every valid result to onChange. An invalid file is logged and skipped, so
// the caller keeps running with what it had. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Join(err, watcher.Close())
	}
	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					slog.Warn("config reload failed, keeping previous", "path", path, "err", err)
					continue
				}
				slog.Info("config reloaded", "path", path, "countries", len(cfg.Countries))
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "err", err)
			}
		}
	}()
	return nil
}
