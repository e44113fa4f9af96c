package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ekisa-team/ttsform/internal/xfs"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches for configuration changes.
type Watcher struct {
	path       string
	schemaPath string
	onReload   func(*Config, error)
	current    *Config
	logger     *slog.Logger
	debounce   time.Duration
	fsw        *fsnotify.Watcher
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	reloads    atomic.Uint32
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger used for reload events.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets how long writes must settle before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher loads the config once and then reloads it whenever the file changes.
// onReload is called after every reload attempt, with a nil config on failure.
func NewWatcher(path string, schemaPath string, onReload func(*Config, error), opts ...WatcherOption) (*Watcher, error) {
	watcher := &Watcher{
		path:       filepath.Clean(xfs.ExpandTilde(path)),
		schemaPath: schemaPath,
		onReload:   onReload,
		logger:     slog.Default(),
		debounce:   defaultDebounce,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(watcher)
	}

	cfg, err := LoadAndValidate(watcher.path, schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to load initial config: %w", err)
	}
	watcher.current = cfg

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create file watcher: %w", err)
	}

	// Editors often replace the file instead of writing it, so watch the directory.
	if err := fsw.Add(filepath.Dir(watcher.path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config: failed to watch %s: %w", watcher.path, err)
	}
	watcher.fsw = fsw

	go watcher.watch()

	return watcher, nil
}

// watch watches for configuration changes.
func (cw *Watcher) watch() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-cw.done:
			return

		case event, ok := <-cw.fsw.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != cw.path {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if timer != nil {
					timer.Stop()
				}

				timer = time.AfterFunc(cw.debounce, cw.reload)
			}

		case err, ok := <-cw.fsw.Errors:
			if !ok {
				return
			}

			cw.logger.Error("Watcher error", "error", err)
		}
	}
}

// reload reloads the config file.
func (cw *Watcher) reload() {
	select {
	case <-cw.done:
		return
	default:
	}

	count := cw.reloads.Add(1)
	cw.logger.Info("Reloading config file", "path", cw.path, "count", count)

	cfg, err := LoadAndValidate(cw.path, cw.schemaPath)
	if err != nil {
		cw.logger.Error("Failed to reload config", "error", err)
		cw.onReload(nil, err)
		return
	}

	cw.mu.Lock()
	cw.current = cfg
	cw.mu.Unlock()

	cw.logger.Info("Config reloaded successfully", "count", count)
	cw.onReload(cfg, nil)
}

// Snapshot returns the current config snapshot (thread-safe).
func (cw *Watcher) Snapshot() *Config {
	cw.mu.RLock()
	defer cw.mu.RUnlock()

	return cw.current
}

// ReloadCount returns the number of times the config has been reloaded.
func (cw *Watcher) ReloadCount() uint32 {
	return cw.reloads.Load()
}

// Close stops watching. Pending reloads are dropped.
func (cw *Watcher) Close() error {
	var err error
	cw.closeOnce.Do(func() {
		close(cw.done)
		err = cw.fsw.Close()
	})
	return err
}
