package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads a config file whenever it changes on disk
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	logger   zerolog.Logger
	onChange func(*Config)
}

// NewWatcher creates a watcher for the config file at path
func NewWatcher(path string, logger zerolog.Logger, onChange func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Editors often replace the file instead of writing it, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  watcher,
		path:     abs,
		logger:   logger.With().Str("component", "config-watcher").Logger(),
		onChange: onChange,
	}, nil
}

// Start watches for changes until ctx is cancelled or the watcher is closed.
// A closed watcher ends the loop without an error.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.shouldReload(event) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				// Log error but continue watching
				w.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

func (w *Watcher) shouldReload(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	cfg, err := LoadConfigFromPath(w.path)
	if err != nil {
		// Keep running with the previous configuration
		w.logger.Warn().Err(err).Str("path", w.path).Msg("ignoring invalid config change")
		return
	}

	w.logger.Info().Str("path", w.path).Msg("config reloaded")
	w.onChange(cfg)
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
