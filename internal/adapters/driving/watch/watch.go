// Package watch keeps a directory tree ingested: new and modified files are
// uploaded, and removed files have their documents deleted.
//
// Documents are stored under their slash-separated path relative to the root,
// so a restarted watcher finds the documents a previous run created.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
	"github.com/custodia-labs/codeaid/internal/extractors/filetype"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// DefaultDebounce is how long a path must be quiet before it is processed.
// Editors typically emit several events for one save.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("watch: watcher closed")

type op int

const (
	opUpsert op = iota + 1
	opRemove
)

// Result reports what happened to one path.
type Result struct {
	// Path is the absolute file path.
	Path string

	// Document is the newly stored document. Nil for removals and failures.
	Document *domain.Document

	// ChunksCreated is the number of chunks stored for Document.
	ChunksCreated int

	// Removed is true when the path's document was deleted.
	Removed bool

	// Err is the ingestion or deletion failure, if any.
	Err error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed path is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithInitialScan ingests every existing file before watching begins.
func WithInitialScan(enabled bool) Option {
	return func(w *Watcher) {
		w.initialScan = enabled
	}
}

// WithReporter receives a Result for every processed path.
func WithReporter(fn func(Result)) Option {
	return func(w *Watcher) {
		w.report = fn
	}
}

// Watcher ingests files under a root directory as they change.
type Watcher struct {
	root        string
	ingest      driving.IngestService
	documents   driving.DocumentService
	debounce    time.Duration
	initialScan bool
	report      func(Result)

	mu      sync.Mutex
	closed  bool
	cancel  context.CancelFunc
	tracked map[string]string // path -> document ID
	known   map[string]domain.DocumentSummary
	pending map[string]op
}

// New creates a watcher for root. documents may be nil, in which case
// removed and replaced files leave their old documents in place and
// documents from earlier runs are not recognised.
func New(root string, ingest driving.IngestService, documents driving.DocumentService, opts ...Option) *Watcher {
	w := &Watcher{
		root:      root,
		ingest:    ingest,
		documents: documents,
		debounce:  DefaultDebounce,
		report:    func(Result) {},
		tracked:   make(map[string]string),
		known:     make(map[string]domain.DocumentSummary),
		pending:   make(map[string]op),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Tracked returns the document ID stored for path, if any.
func (w *Watcher) Tracked(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.tracked[path]
	return id, ok
}

// Close stops a running watcher. Run returns nil after Close.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

// Run watches the tree until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", root)
	}
	w.root = root

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	ctx, w.cancel = context.WithCancel(ctx)
	cancel := w.cancel
	w.mu.Unlock()
	defer cancel()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, root); err != nil {
		return err
	}

	w.seed(ctx)

	if w.initialScan {
		w.scan(ctx, root)
	}

	logger.Info("Watching %s", root)

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.isDir(event.Name) && !w.hidden(event.Name) {
				if err := w.addTree(fsw, event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
				continue
			}
			kind, ok := w.classify(event)
			if !ok {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = kind
			w.mu.Unlock()

			path := event.Name
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(timers, path)
			w.mu.Lock()
			kind := w.pending[path]
			delete(w.pending, path)
			w.mu.Unlock()
			w.process(ctx, path, kind)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// classify maps a filesystem event to the work it needs.
// Hidden paths, directories and chmod-only events are ignored.
func (w *Watcher) classify(event fsnotify.Event) (op, bool) {
	if w.hidden(event.Name) {
		return 0, false
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return opRemove, true
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		if w.isDir(event.Name) {
			return 0, false
		}
		return opUpsert, true
	}
	return 0, false
}

func (w *Watcher) process(ctx context.Context, path string, kind op) {
	switch kind {
	case opRemove:
		w.remove(ctx, path)
	case opUpsert:
		w.upsert(ctx, path)
	}
}

func (w *Watcher) upsert(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.remove(ctx, path)
		}
		return
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		w.fail(path, fmt.Errorf("read %s: %w", path, err))
		return
	}

	result, err := w.ingest.Ingest(ctx, domain.UploadedFile{
		Filename:    w.name(path),
		ContentType: filetype.DetectByName(path),
		Data:        data,
	})
	if err != nil {
		w.fail(path, err)
		return
	}

	w.mu.Lock()
	previous, replaced := w.tracked[path]
	w.tracked[path] = result.Document.ID
	delete(w.known, path)
	w.mu.Unlock()

	if replaced && w.documents != nil {
		if err := w.documents.Delete(ctx, previous); err != nil && domain.KindOf(err) != domain.KindNotFound {
			logger.Warn("delete previous version of %s: %v", path, err)
		}
	}

	logger.Info("Ingested %s (%d chunks)", w.rel(path), result.ChunksCreated)
	doc := result.Document
	w.report(Result{Path: path, Document: &doc, ChunksCreated: result.ChunksCreated})
}

func (w *Watcher) remove(ctx context.Context, path string) {
	w.mu.Lock()
	id, ok := w.tracked[path]
	delete(w.tracked, path)
	delete(w.known, path)
	w.mu.Unlock()
	if !ok {
		return
	}

	if w.documents != nil {
		if err := w.documents.Delete(ctx, id); err != nil && domain.KindOf(err) != domain.KindNotFound {
			w.fail(path, err)
			return
		}
	}

	logger.Info("Removed %s", w.rel(path))
	w.report(Result{Path: path, Removed: true})
}

func (w *Watcher) fail(path string, err error) {
	logger.Warn("%s: %v", w.rel(path), err)
	w.report(Result{Path: path, Err: err})
}

func (w *Watcher) scan(ctx context.Context, root string) {
	//nolint:errcheck // walk errors are reported per entry
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || ctx.Err() != nil {
			return nil
		}
		if path != root && w.hidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && !w.unchanged(path) {
			w.upsert(ctx, path)
		}
		return nil
	})
}

// seed adopts documents stored by earlier runs for files that still exist
// under the root. List is newest first, so the newest document for a path is
// tracked and older duplicates are deleted.
func (w *Watcher) seed(ctx context.Context) {
	if w.documents == nil {
		return
	}
	docs, err := w.documents.List(ctx)
	if err != nil {
		logger.Warn("list documents: %v", err)
		return
	}

	for _, doc := range docs {
		if !filepath.IsLocal(filepath.FromSlash(doc.Filename)) {
			continue
		}
		path := filepath.Join(w.root, filepath.FromSlash(doc.Filename))
		if w.hidden(path) {
			continue
		}
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		w.mu.Lock()
		_, seen := w.tracked[path]
		if !seen {
			w.tracked[path] = doc.ID
			w.known[path] = doc
		}
		w.mu.Unlock()

		if seen {
			if err := w.documents.Delete(ctx, doc.ID); err != nil && domain.KindOf(err) != domain.KindNotFound {
				logger.Warn("delete duplicate of %s: %v", doc.Filename, err)
				continue
			}
			logger.Info("Removed duplicate %s (%s)", doc.Filename, doc.ID)
		}
	}
}

// unchanged reports whether path still matches the document adopted by seed:
// same size and not modified since it was stored.
func (w *Watcher) unchanged(path string) bool {
	w.mu.Lock()
	doc, ok := w.known[path]
	w.mu.Unlock()
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == doc.FileSize && !info.ModTime().After(doc.UploadedAt)
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.hidden(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *Watcher) hidden(path string) bool {
	return isHidden(w.rel(path))
}

// name is the filename a path is stored under.
func (w *Watcher) name(path string) string {
	return filepath.ToSlash(w.rel(path))
}

func (w *Watcher) rel(path string) string {
	if r, err := filepath.Rel(w.root, path); err == nil {
		return r
	}
	return path
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
