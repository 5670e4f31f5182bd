package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay soaks up the burst of filesystem events an editor
// produces for a single save.
const debounceDelay = 100 * time.Millisecond

// Watcher reloads the configuration when the config file changes on
// disk, so the running daemon can apply new settings without a
// restart.
type Watcher struct {
	manager *Manager
	updates chan *Config
	log     *slog.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the manager's config file.
func NewWatcher(manager *Manager) *Watcher {
	return &Watcher{
		manager: manager,
		updates: make(chan *Config, 1),
		log:     slog.With("component", "config"),
	}
}

// Updates delivers each successfully reloaded Config. The channel
// holds one pending update; a newer reload replaces an unconsumed
// older one.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Run watches until ctx is cancelled. The watch is on the config
// file's directory, filtered by name, because editors replace files
// rather than writing them in place.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Error("create watcher", "error", err)
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.manager.ConfigPath())
	if err := watcher.Add(dir); err != nil {
		w.log.Error("watch config directory", "dir", dir, "error", err)
		return
	}

	name := filepath.Base(w.manager.ConfigPath())

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	config, err := w.manager.Load()
	if err != nil {
		w.log.Warn("config reload failed, keeping previous settings", "error", err)
		return
	}

	// Keep only the newest unconsumed update.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- config:
	default:
	}

	w.log.Info("configuration reloaded", "poll_interval_ms", config.PollIntervalMS, "log_level", config.LogLevel)
}
