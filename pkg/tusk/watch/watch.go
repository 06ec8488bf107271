// Package watch re-parses source files whenever they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/logging"
	"github.com/sambeau/tusk/pkg/tusk/parser"
	"github.com/sambeau/tusk/pkg/tusk/tusk"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Result is the outcome of parsing one file after a change.
type Result struct {
	Path    string
	Program *ast.Program // nil when Err is set
	Err     error
	Seq     uint64 // increases by one for every parse
}

// Options configures a Watcher.
type Options struct {
	Debounce      time.Duration
	Extensions    []string // files picked up inside watched directories
	ParserOptions []parser.Option
	Handler       func(Result)
}

// Watcher monitors files and directories and parses changed files once
// writes to them have settled.
type Watcher struct {
	watcher *fsnotify.Watcher
	opts    Options
	log     commonlog.Logger

	files map[string]bool // explicitly named files
	roots []string        // explicitly named directories

	mu      sync.Mutex
	timers  map[string]*time.Timer
	seq     uint64
	stopped bool

	handlerMu sync.Mutex
}

// New creates a watcher over paths, which may be files or directories.
func New(paths []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".php"}
	}
	if opts.Handler == nil {
		opts.Handler = func(Result) {}
	}

	w := &Watcher{
		opts:   opts,
		log:    logging.Get(logging.Watch),
		files:  make(map[string]bool),
		timers: make(map[string]*time.Timer),
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			w.roots = append(w.roots, abs)
		} else {
			w.files[abs] = true
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.watcher = fsWatcher

	return w, nil
}

// Files returns every file currently covered by the watcher, sorted.
func (w *Watcher) Files() []string {
	seen := make(map[string]bool)
	for f := range w.files {
		seen[f] = true
	}
	for _, root := range w.roots {
		filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if w.matchesExtension(path) {
				seen[path] = true
			}
			return nil
		})
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Start registers the watches, parses every covered file once, and begins
// processing events in the background until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	// Files are watched through their directory so editors that save by
	// renaming a temporary file are still seen.
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.log.Infof("watching directory: %s", dir)
	}
	for _, root := range w.roots {
		if err := w.watchDirRecursive(root); err != nil {
			return err
		}
		w.log.Infof("watching tree: %s", root)
	}

	for _, f := range w.Files() {
		w.parse(f)
	}

	go w.eventLoop(ctx)
	return nil
}

// Run is Start followed by waiting for ctx to be cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Close()
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if d.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// eventLoop processes file system events
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories inside a watched tree are watched too
	if event.Has(fsnotify.Create) && w.inRoot(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watchDirRecursive(path); err != nil {
				w.log.Errorf("failed to watch %s: %v", path, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		if event.Has(fsnotify.Remove) && w.covers(path) {
			w.log.Noticef("removed: %s", path)
		}
		return
	}
	if !w.covers(path) {
		return
	}

	w.schedule(path)
}

// schedule parses path once no further events for it have arrived within
// the debounce period.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.opts.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			w.parse(path)
		}
	})
}

func (w *Watcher) parse(path string) {
	program, err := tusk.ParseFile(path, w.opts.ParserOptions...)

	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	if err != nil {
		w.log.Warningf("%s", err)
	} else {
		w.log.Infof("parsed %s: %d statements", path, len(program.Statements))
	}

	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	w.opts.Handler(Result{Path: path, Program: program, Err: err, Seq: seq})
}

// covers reports whether path is a named file or a matching file inside a
// watched directory.
func (w *Watcher) covers(path string) bool {
	if w.files[path] {
		return true
	}
	return w.inRoot(path) && w.matchesExtension(path)
}

func (w *Watcher) inRoot(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) matchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.opts.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.stopTimers()
	return w.watcher.Close()
}
