package stix

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stixnav/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"bundle","objects":[]}`), 0600))

	store := memory.NewDomainStore()
	w, err := NewWatcher(path, "watched", NewDecoder(), store)
	require.NoError(t, err)
	defer w.Close()
	w.WithSettle(20 * time.Millisecond)

	var mu sync.Mutex
	var reloads []*domain.Domain
	w.OnReload(func(d *domain.Domain, err error) {
		assert.NoError(t, err)
		mu.Lock()
		reloads = append(reloads, d)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	data, err := os.ReadFile("testdata/mini-attack.json")
	require.NoError(t, err)
	// Replace the file atomically so the reload never sees a partial write.
	tmp := filepath.Join(dir, "bundle.json.tmp")
	require.NoError(t, os.WriteFile(tmp, data, 0600))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloads) > 0
	}, 2*time.Second, 10*time.Millisecond)

	d, err := store.Domain("watched")
	require.NoError(t, err)
	assert.Len(t, d.Techniques, 3)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"bundle"}`), 0600))

	w, err := NewWatcher(path, "watched", NewDecoder(), memory.NewDomainStore())
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.relevant(fsnotifyEvent(filepath.Join(dir, "other.json"), true)))
	assert.True(t, w.relevant(fsnotifyEvent(path, true)))
	assert.False(t, w.relevant(fsnotifyEvent(path, false)))
}

func TestWatcher_InvalidBundleReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	w, err := NewWatcher(path, "watched", NewDecoder(), memory.NewDomainStore())
	require.NoError(t, err)
	defer w.Close()

	var got error
	w.OnReload(func(_ *domain.Domain, err error) { got = err })
	w.reload()

	assert.ErrorIs(t, got, domain.ErrInvalidBundle)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "bundle.json"), "x", NewDecoder(), memory.NewDomainStore())

	assert.Error(t, err)
}

func fsnotifyEvent(name string, write bool) fsnotify.Event {
	op := fsnotify.Chmod
	if write {
		op = fsnotify.Write
	}
	return fsnotify.Event{Name: name, Op: op}
}
