package config

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Store holds the active configuration and swaps it atomically on reload.
// Readers always observe a complete config, old or new, never a partial one.
type Store struct {
	v atomic.Pointer[Config]
}

// NewStore returns a Store seeded with cfg.
func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.v.Store(cfg)
	return s
}

// Get returns the active configuration. The returned value must be treated
// as read-only; mutations belong in a fresh Config passed to Swap.
func (s *Store) Get() *Config {
	return s.v.Load()
}

// Swap replaces the active configuration.
func (s *Store) Swap(cfg *Config) {
	s.v.Store(cfg)
}

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time the file is written. It runs until ctx is cancelled.
//
// If a reload fails (e.g. invalid YAML), the error is logged, the previous
// config remains active and onChange is not called.
//
// The password gate resolves its secret once at startup, so reloaded configs
// keep active.Auth rather than whatever the file now says.
func Watch(ctx context.Context, path string, active *Config, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	pinned := active.Auth

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only reload on write or create events. Editors often write via
			// rename (atomic save), so also catch fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}
			cfg.Auth = pinned

			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
