// Package watch reruns the documentation pipeline when the manifest or the
// screenshots change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/featuredocs/internal/logfields"
)

// DefaultDebounce coalesces bursts of writes (a test run dumping dozens of
// screenshots) into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one rebuild.
type RunFunc func(ctx context.Context) error

// Watcher triggers RunFunc after changes below Paths settle.
type Watcher struct {
	Paths    []string // files or directories; directories are watched recursively
	Ignore   []string // path prefixes whose events are dropped (generated output)
	Debounce time.Duration
	Run      RunFunc
	// RunOnStart performs one rebuild before waiting for changes.
	RunOnStart bool

	files map[string]bool // file paths watched through their parent directory
	dirs  []string        // directories watched recursively
}

// Watch blocks until ctx is canceled. Rebuilds never overlap: changes that
// arrive during a rebuild queue exactly one follow-up run.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	w.files = make(map[string]bool)
	w.dirs = nil
	watched := 0
	for _, p := range w.Paths {
		n, isDir, err := addRecursive(fw, p)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if isDir {
			w.dirs = append(w.dirs, filepath.Clean(p))
		} else {
			w.files[filepath.Clean(p)] = true
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch: none of %s exist", strings.Join(w.Paths, ", "))
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	d := NewDebouncer(debounce)
	defer d.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, d.C())
	}()
	if w.RunOnStart {
		d.Fire()
	}

	slog.Info("Watching for changes", logfields.Count(watched))
	err = w.loop(ctx, fw, d)
	wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, d *Debouncer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, d)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, d *Debouncer) {
	if shouldIgnoreEvent(ev.Name) || w.ignored(ev.Name) || !w.relevant(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_, _, _ = addRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	d.Trigger()
}

// worker runs rebuilds one at a time until ctx ends.
func (w *Watcher) worker(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			slog.Info("Change detected; rebuilding documentation")
			if err := w.Run(ctx); err != nil {
				slog.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	for _, prefix := range w.Ignore {
		if prefix != "" && within(path, prefix) {
			return true
		}
	}
	return false
}

// relevant reports whether path is a watched file or lies below a watched
// directory. Parent directories of watched files report every sibling too.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	for _, dir := range w.dirs {
		if within(path, dir) {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// addRecursive watches root and, for directories, every directory below it.
// A missing root is skipped. It returns the number of watches added and
// whether root is a directory.
func addRecursive(fw *fsnotify.Watcher, root string) (int, bool, error) {
	fi, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("Watch path does not exist", logfields.Path(root))
			return 0, false, nil
		}
		return 0, false, err
	}
	if !fi.IsDir() {
		// Watch the parent: editors replace files, which drops a direct watch.
		if err := fw.Add(filepath.Dir(root)); err != nil {
			return 0, false, err
		}
		return 1, false, nil
	}

	added := 0
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
				return nil
			}
			added++
		}
		return nil
	})
	return added, true, err
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
