package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/host"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
)

// Options configures a Watcher.
type Options struct {
	// Roots are the directories watched recursively. Missing roots are skipped.
	Roots []string
	// Accepts reports whether a changed file should trigger a pass.
	Accepts func(path string) bool
	// Extensions are the source extensions Accepts admits, for logging.
	Extensions []string
	// Pass runs one build pass.
	Pass PassFunc
	// Debounce is the quiet period after the last change before a pass starts.
	Debounce time.Duration
	// Interval schedules additional passes when positive.
	Interval time.Duration
}

// Watcher reruns passes on source changes.
type Watcher struct {
	opts Options
}

// New creates a watcher.
func New(opts Options) *Watcher {
	if opts.Accepts == nil {
		opts.Accepts = func(string) bool { return true }
	}
	return &Watcher{opts: opts}
}

// Run watches until ctx is cancelled. It does not run an initial pass.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	watched := 0
	for _, root := range w.opts.Roots {
		if _, err := os.Stat(root); err != nil {
			slog.Warn("Watched path unavailable", logfields.Path(root), logfields.Error(err))
			continue
		}
		addDirsRecursive(fw, root)
		watched++
	}
	if watched == 0 {
		return ferrors.ValidationError("no watched path exists").
			WithContext("paths", strings.Join(w.opts.Roots, ", ")).
			Build()
	}

	runCtx, cancel := context.WithCancel(ctx)
	wk := newWorker(w.opts.Pass)
	wk.Start(runCtx)
	defer func() {
		cancel()
		wk.Wait()
	}()

	deb := newDebouncer(w.opts.Debounce, wk.Request)
	defer deb.Stop()

	if w.opts.Interval > 0 {
		s, err := newScheduler(w.opts.Interval, wk.Request)
		if err != nil {
			return err
		}
		s.Start()
		defer func() {
			if err := s.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching for changes",
		slog.Any("paths", w.opts.Roots),
		slog.Any("extensions", w.opts.Extensions),
		slog.Duration("debounce", w.opts.Debounce))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(fw, ev) {
				slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				deb.Trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// relevant reports whether ev should trigger a pass. Newly created
// directories are added to the watch list.
func (w *Watcher) relevant(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnore(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if host.SkipDir(fi.Name()) {
				return false
			}
			addDirsRecursive(fw, ev.Name)
			// Files may already exist in a directory moved into place.
			return true
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return w.opts.Accepts(ev.Name)
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && host.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore filters editor temp files and hidden files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
