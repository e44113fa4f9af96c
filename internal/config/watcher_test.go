package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reload struct {
	cfg *Config
	err error
}

func newTestWatcher(t *testing.T, path string) (*Watcher, <-chan reload) {
	t.Helper()

	reloads := make(chan reload, 8)
	w, err := NewWatcher(path, "", func(cfg *Config, err error) {
		reloads <- reload{cfg: cfg, err: err}
	},
		WithDebounce(20*time.Millisecond),
		WithWatcherLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	return w, reloads
}

func nextReload(t *testing.T, ch <-chan reload) reload {
	t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
		return reload{}
	}
}

func TestWatcher_InitialSnapshot(t *testing.T) {
	w, _ := newTestWatcher(t, writeConfig(t, validConfig))

	cfg := w.Snapshot()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8000", cfg.Endpoint.URL)
	assert.Zero(t, w.ReloadCount())
}

func TestWatcher_InvalidInitialConfig(t *testing.T) {
	_, err := NewWatcher(writeConfig(t, "version: \"1\"\n"), "", func(*Config, error) {})
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, validConfig)
	w, reloads := newTestWatcher(t, path)

	updated := "version: \"1\"\nendpoint:\n  url: http://speech.internal:9000\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	r := nextReload(t, reloads)
	require.NoError(t, r.err)
	assert.Equal(t, "http://speech.internal:9000", r.cfg.Endpoint.URL)
	assert.Equal(t, r.cfg, w.Snapshot())
	assert.GreaterOrEqual(t, w.ReloadCount(), uint32(1))
}

func TestWatcher_FailedReloadKeepsSnapshot(t *testing.T) {
	path := writeConfig(t, validConfig)
	w, reloads := newTestWatcher(t, path)
	before := w.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\n"), 0o644))

	r := nextReload(t, reloads)
	assert.Error(t, r.err)
	assert.Nil(t, r.cfg)
	assert.Same(t, before, w.Snapshot())
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	path := writeConfig(t, validConfig)
	_, reloads := newTestWatcher(t, path)

	sibling := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(sibling, []byte("hi"), 0o644))

	select {
	case r := <-reloads:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t, writeConfig(t, validConfig))

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
