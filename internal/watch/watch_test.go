package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string, handler Handler) {
	t.Helper()
	w, err := New(path, 50*time.Millisecond, nil, handler)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, started) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	select {
	case <-started:
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}
}

func TestWatcherDebouncesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	var calls atomic.Int32
	called := make(chan string, 10)
	startWatcher(t, path, func(_ context.Context, p string) {
		calls.Add(1)
		called <- p
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"n": 1}`), 0o644))
	}

	select {
	case p := <-called:
		assert.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	called := make(chan string, 1)
	startWatcher(t, path, func(_ context.Context, p string) { called <- p })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	select {
	case p := <-called:
		t.Fatalf("unexpected handler call for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	called := make(chan string, 10)
	startWatcher(t, path, func(_ context.Context, p string) { called <- p })

	tmp := filepath.Join(dir, ".data.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"replaced": true}`), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called after rename")
	}
}

func TestNewDefaults(t *testing.T) {
	w, err := New("data.json", 0, nil, func(context.Context, string) {})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestRunMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "data.json"), 0, nil, func(context.Context, string) {})
	require.NoError(t, err)
	err = w.Run(context.Background(), nil)
	require.Error(t, err)
}
