// Package watcher monitors a vault for markdown changes and hands debounced,
// rate-limited batches to a Handler.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eoinhurrell/mindmeld/internal/validation"
)

// DefaultDebounce is the quiet period before a batch is flushed
const DefaultDebounce = 500 * time.Millisecond

// Change is a markdown file that was written or removed
type Change struct {
	Path    string `json:"path" yaml:"path"` // vault-relative, slash separated
	Removed bool   `json:"removed" yaml:"removed"`
}

// Handler processes a batch of changes
type Handler interface {
	Handle(ctx context.Context, changes []Change) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, changes []Change) error

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, changes []Change) error {
	return f(ctx, changes)
}

// Watcher monitors a directory tree
type Watcher struct {
	root     string
	handler  Handler
	debounce time.Duration
	limiter  *rate.Limiter
	ignored  func(relPath string) bool
	logger   *zap.Logger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period that ends a batch
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithRateLimit allows at most limit batches per second after an initial burst
func WithRateLimit(limit float64, burst int) Option {
	return func(w *Watcher) { w.limiter = rate.NewLimiter(rate.Limit(limit), burst) }
}

// WithIgnore skips vault-relative paths for which ignored returns true
func WithIgnore(ignored func(relPath string) bool) Option {
	return func(w *Watcher) { w.ignored = ignored }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a watcher over root
func New(root string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		handler:  handler,
		debounce: DefaultDebounce,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		ignored:  func(string) bool { return false },
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w
}

// Run watches until ctx is done. Handler errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.logger.Info("watching vault", zap.String("root", w.root), zap.Duration("debounce", w.debounce))

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			change, ok := w.classify(fw, event)
			if !ok {
				continue
			}
			pending[change.Path] = change.Removed
			timer.Reset(w.debounce)
			flush = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-flush:
			flush = nil
			batch := drain(pending)
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.logger.Debug("flushing changes", zap.Int("changes", len(batch)))
			if err := w.handler.Handle(ctx, batch); err != nil {
				w.logger.Error("handling changes", zap.Error(err))
			}
		}
	}
}

// classify maps an event onto a change. New directories are watched and
// produce no change themselves.
func (w *Watcher) classify(fw *fsnotify.Watcher, event fsnotify.Event) (Change, bool) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return Change{}, false
	}
	rel = filepath.ToSlash(rel)
	if w.ignored(rel) {
		return Change{}, false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, event.Name); err != nil {
				w.logger.Warn("watching new directory", zap.String("path", rel), zap.Error(err))
			}
			return Change{}, false
		}
	}

	if validation.ValidateMarkdownExtension(rel) != nil {
		return Change{}, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return Change{Path: rel, Removed: true}, true
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return Change{Path: rel}, true
	default:
		return Change{}, false
	}
}

// addTree watches dir and every non-ignored directory below it
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil && rel != "." && w.ignored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func drain(pending map[string]bool) []Change {
	batch := make([]Change, 0, len(pending))
	for path, removed := range pending {
		batch = append(batch, Change{Path: path, Removed: removed})
		delete(pending, path)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	return batch
}
