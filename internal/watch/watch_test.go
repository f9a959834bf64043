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

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	for range 10 {
		d.Trigger()
	}

	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("expected a debounced request")
	}

	select {
	case <-d.C():
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_FireDoesNotQueueTwice(t *testing.T) {
	d := NewDebouncer(time.Hour)
	d.Fire()
	d.Fire()
	<-d.C()
	select {
	case <-d.C():
		t.Fatal("only one request may be pending")
	default:
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	tests := map[string]bool{
		"/p/docs/manifest.json":          false,
		"/p/docs/screenshots/roster.png": false,
		"/p/docs/.manifest.json.swp":     true,
		"/p/docs/manifest.json~":         true,
		"/p/docs/#manifest.json#":        true,
		"/p/docs/screenshots/x.png.tmp":  true,
		"/p/docs/Thumbs.db":              true,
	}
	for path, want := range tests {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestWatcher_Ignored(t *testing.T) {
	w := &Watcher{Ignore: []string{"/p/docs-site/public"}}
	assert.True(t, w.ignored("/p/docs-site/public"))
	assert.True(t, w.ignored(filepath.Join("/p/docs-site/public", "index.html")))
	assert.False(t, w.ignored("/p/docs-site/publications.md"))
}

func TestWatcher_Relevant(t *testing.T) {
	w := &Watcher{
		files: map[string]bool{"/p/docs/manifest.json": true},
		dirs:  []string{"/p/docs/screenshots"},
	}
	assert.True(t, w.relevant("/p/docs/manifest.json"))
	assert.True(t, w.relevant("/p/docs/screenshots/roster.png"))
	assert.True(t, w.relevant("/p/docs/screenshots/booker/roster.png"))
	assert.False(t, w.relevant("/p/docs/notes.md"))
	assert.False(t, w.relevant("/p/docs/manifest.json.bak"))
	assert.False(t, w.relevant("/p/docs/screenshots-old/roster.png"))
}

func TestWatcher_FileSiblingsDoNotTrigger(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte("{}"), 0o600))

	ran := make(chan struct{}, 10)
	w := &Watcher{
		Paths:    []string{manifestPath},
		Debounce: 20 * time.Millisecond,
		Run: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600))
	select {
	case <-ran:
		t.Fatal("a sibling of the manifest triggered a rebuild")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"features":[]}`), 0o600))
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("manifest change did not trigger a rebuild")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	shots := filepath.Join(dir, "screenshots")
	require.NoError(t, os.MkdirAll(shots, 0o750))

	var runs atomic.Int32
	ran := make(chan struct{}, 10)
	w := &Watcher{
		Paths:    []string{dir},
		Debounce: 20 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			ran <- struct{}{}
			return nil
		},
		RunOnStart: true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not happen")
	}

	require.NoError(t, os.WriteFile(filepath.Join(shots, "roster.png"), []byte("png"), 0o600))
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a rebuild")
	}

	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestWatcher_NothingToWatch(t *testing.T) {
	w := &Watcher{Paths: []string{filepath.Join(t.TempDir(), "missing")}, Run: func(context.Context) error { return nil }}
	assert.Error(t, w.Watch(context.Background()))
}
