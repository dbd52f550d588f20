// Package watcher drives incremental re-indexing from file system
// events, coalescing event bursts so one save re-indexes one file once.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/minq/depmap/internal/indexer"
	"github.com/minq/depmap/internal/language"
)

// Watcher watches an indexed project tree and re-indexes changed files.
type Watcher struct {
	root      string
	svc       *indexer.Service
	fsWatcher *fsnotify.Watcher

	// Debouncing
	debounceDelay time.Duration
	pendingFiles  map[string]struct{}
	pendingMu     sync.Mutex
	debounceTimer *time.Timer

	exclude map[string]struct{}

	// Callbacks
	onReindexed func(path string, res *indexer.ReindexResult)
	onError     func(error)

	// Control
	done chan struct{}
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceDelay sets how long events are coalesced before re-indexing.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnReindexed sets the callback invoked after each file re-index.
func WithOnReindexed(fn func(path string, res *indexer.ReindexResult)) Option {
	return func(w *Watcher) {
		w.onReindexed = fn
	}
}

// WithOnError sets the callback for watch and re-index errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithExcludeDirs sets directory names never watched.
func WithExcludeDirs(names []string) Option {
	return func(w *Watcher) {
		w.exclude = make(map[string]struct{}, len(names))
		for _, n := range names {
			w.exclude[n] = struct{}{}
		}
	}
}

// New creates a Watcher over root, feeding changed files to svc. The
// service must already hold a full index of root.
func New(root string, svc *indexer.Service, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:          root,
		svc:           svc,
		fsWatcher:     fsWatcher,
		debounceDelay: 500 * time.Millisecond,
		pendingFiles:  make(map[string]struct{}),
		done:          make(chan struct{}),
	}
	for _, n := range indexer.DefaultConfig().ExcludeDirs {
		if w.exclude == nil {
			w.exclude = make(map[string]struct{})
		}
		w.exclude[n] = struct{}{}
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDirs(); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("adding directories to watch: %w", err)
	}

	return w, nil
}

// addDirs recursively registers every watchable directory under root.
func (w *Watcher) addDirs() error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if path != w.root {
			if _, skip := w.exclude[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
		}
		return w.fsWatcher.Add(path)
	})
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	go w.eventLoop()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// New directories must be registered or their files go unseen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			name := info.Name()
			if _, skip := w.exclude[name]; !skip && !strings.HasPrefix(name, ".") {
				w.fsWatcher.Add(event.Name)
			}
			return
		}
	}

	if !language.Recognized(event.Name) {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pendingFiles[event.Name] = struct{}{}

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.flush)
}

// flush re-indexes every file whose events have settled.
func (w *Watcher) flush() {
	w.pendingMu.Lock()
	files := make([]string, 0, len(w.pendingFiles))
	for f := range w.pendingFiles {
		files = append(files, f)
	}
	w.pendingFiles = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, f := range files {
		res, err := w.svc.ReindexFile(f)
		if err != nil {
			if w.onError != nil {
				w.onError(fmt.Errorf("re-indexing %s: %w", f, err))
			}
			continue
		}
		if w.onReindexed != nil {
			w.onReindexed(f, res)
		}
	}
}
