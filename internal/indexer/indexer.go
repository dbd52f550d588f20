// Package indexer orchestrates whole-project indexing and single-file
// incremental re-indexing, keeping the file record store and the
// dependency graph consistent with each other.
package indexer

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

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/minq/depmap/internal/extract"
	"github.com/minq/depmap/internal/graph"
	"github.com/minq/depmap/internal/language"
	"github.com/minq/depmap/internal/record"
	"github.com/minq/depmap/internal/resolver"
)

// ErrNoIndex is returned by every operation that needs a project index
// before the first successful whole-project index has completed.
var ErrNoIndex = errors.New("no index available: run a full project index first")

// Config controls indexing behavior.
type Config struct {
	// ExcludeDirs are directory names never descended into.
	ExcludeDirs []string
	// Concurrency bounds parallel file reads during a project walk.
	Concurrency int
	// SelfEdgeCycles makes a self-import count as a circular dependency.
	SelfEdgeCycles bool
	// UseGitignore additionally honors the project's .gitignore.
	UseGitignore bool
}

// DefaultConfig returns the standard exclusion set and concurrency bound.
func DefaultConfig() Config {
	return Config{
		ExcludeDirs: []string{
			".git", "node_modules", "vendor", "dist", "build", "out",
			"target", "__pycache__", ".next", "coverage", "testdata",
		},
		Concurrency:  8,
		UseGitignore: true,
	}
}

// Diagnostic is a soft, per-file problem collected during indexing.
// Diagnostics never abort a walk.
type Diagnostic struct {
	Path   string
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Path, d.Detail)
}

// Summary reports the outcome of a whole-project index.
type Summary struct {
	Root        string
	Files       int
	Edges       int
	Duration    time.Duration
	Diagnostics []Diagnostic
}

// projectIndex is the aggregate built by a full index and mutated in
// place by incremental re-indexing.
type projectIndex struct {
	root      string // absolute
	store     *record.Store
	graph     *graph.Graph
	indexedAt time.Time
}

// Service is the explicitly constructed, explicitly owned indexing
// engine. One Service owns one project index; writes are serialized and
// reads see a consistent state through the embedded RWMutex.
type Service struct {
	mu  sync.RWMutex
	cfg Config
	idx *projectIndex

	exclude map[string]struct{}
}

// New creates a Service with the given configuration.
func New(cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	exclude := make(map[string]struct{}, len(cfg.ExcludeDirs))
	for _, name := range cfg.ExcludeDirs {
		exclude[name] = struct{}{}
	}
	return &Service{cfg: cfg, exclude: exclude}
}

// IndexFile reads and stats one file and runs extraction on it, producing
// a record not yet linked into any graph. Read or stat failure is a
// recoverable per-file condition: the result is nil, never a panic or a
// hard error.
func (s *Service) IndexFile(path, basePath string) *record.Record {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(basePath, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	identity := filepath.ToSlash(rel)

	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return nil
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil
	}

	lang := language.Detect(identity)
	res := extract.Scan(content, lang)

	return &record.Record{
		Identity: identity,
		AbsPath:  absPath,
		Name:     filepath.Base(absPath),
		Ext:      strings.ToLower(filepath.Ext(absPath)),
		Language: lang,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Imports:  res.Imports,
		Exports:  res.Exports,
	}
}

// IndexProject walks the tree under rootPath and rebuilds the project
// index wholesale: every file with a recognized extension is read and
// extracted (in parallel, up to the configured bound), records are merged
// one by one as extraction completes, and a final pass resolves imports
// into graph edges once the full record set is known. Individual file
// failures become diagnostics; only the root disappearing or context
// cancellation aborts the walk. The new index is built off to the side
// and installed only on success: an aborted walk discards the partial
// build and leaves any previously installed index serving queries.
func (s *Service) IndexProject(ctx context.Context, rootPath string) (*Summary, error) {
	started := time.Now()

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", rootPath)
	}

	var matcher *ignore.GitIgnore
	if s.cfg.UseGitignore {
		matcher, _ = ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	}

	paths, err := s.collectFiles(ctx, root, matcher)
	if err != nil {
		return nil, err
	}

	next := &projectIndex{
		root:  root,
		store: record.NewStore(),
		graph: graph.New(graph.WithSelfEdgeCycles(s.cfg.SelfEdgeCycles)),
	}

	var (
		mergeMu sync.Mutex
		diags   []Diagnostic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := s.IndexFile(p, root)

			// Merge per file, not batched at the end, so the merge is
			// the single serialization point per file.
			mergeMu.Lock()
			defer mergeMu.Unlock()
			if rec == nil {
				diags = append(diags, Diagnostic{
					Path:   p,
					Detail: "unreadable, skipped",
				})
				return nil
			}
			next.store.Put(rec)
			next.graph.AddNode(rec.Identity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project walk aborted: %w", err)
	}

	// Second pass: resolve imports against the complete record set, so a
	// file indexed early still links to one indexed late.
	for _, rec := range next.store.Records() {
		diags = append(diags, linkRecord(next, rec)...)
	}

	next.indexedAt = time.Now()

	s.mu.Lock()
	s.idx = next
	s.mu.Unlock()

	return &Summary{
		Root:        root,
		Files:       next.store.Len(),
		Edges:       next.graph.EdgeCount(),
		Duration:    time.Since(started),
		Diagnostics: diags,
	}, nil
}

// collectFiles gathers indexable file paths, skipping excluded and hidden
// directories and gitignored entries. The walk stops with an error when
// the root itself disappears or the context is canceled.
func (s *Service) collectFiles(ctx context.Context, root string, matcher *ignore.GitIgnore) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("project root vanished: %w", err)
			}
			return nil // per-file problem, skip
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p == root {
				return nil
			}
			name := d.Name()
			if _, excluded := s.exclude[name]; excluded || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		if !language.Recognized(p) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// linkRecord resolves one record's imports and adds an edge per
// intra-project resolution. Unresolvable relative imports come back as
// diagnostics; externals are silently ignored.
func linkRecord(idx *projectIndex, rec *record.Record) []Diagnostic {
	var diags []Diagnostic
	for _, spec := range rec.Imports {
		target, outcome := resolver.Resolve(spec, rec.Identity, rec.Language, idx.store.Has)
		switch outcome {
		case resolver.Resolved:
			idx.graph.AddEdge(rec.Identity, target)
		case resolver.NotFound:
			diags = append(diags, Diagnostic{
				Path:   rec.Identity,
				Detail: fmt.Sprintf("unresolved import %q", spec),
			})
		}
	}
	return diags
}

// ReindexResult is the outcome of one incremental re-index.
type ReindexResult struct {
	// Record is the fresh file record, or nil when the file is gone and
	// was dropped from the index.
	Record *record.Record
	// Impacted is the reverse transitive closure of the file: everything
	// that may need re-examination because it changed.
	Impacted []string
	// Diagnostics are soft problems from import resolution.
	Diagnostics []Diagnostic
}

// ReindexFile incrementally updates the index for exactly one file. The
// file's previous outgoing edges are replaced; edges other files hold
// toward it stay untouched, since their source did not change. A file
// that no longer exists is removed from both the store and the graph.
// Fails with ErrNoIndex before the first full index.
func (s *Service) ReindexFile(path string) (*ReindexResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == nil {
		return nil, ErrNoIndex
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	rel, err := filepath.Rel(s.idx.root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%s is outside the indexed project %s", path, s.idx.root)
	}
	identity := filepath.ToSlash(rel)

	rec := s.IndexFile(absPath, s.idx.root)
	if rec == nil {
		// Deleted or unreadable: drop it. Dependents keep their records
		// (their sources did not change), but RemoveNode takes their
		// edges into this file with it; re-indexing a dependent restores
		// nothing, since the target no longer resolves.
		impacted := s.idx.graph.ImpactedFiles(identity)
		s.idx.store.Delete(identity)
		s.idx.graph.RemoveNode(identity)
		return &ReindexResult{Impacted: impacted}, nil
	}

	s.idx.graph.RemoveOutgoingEdges(identity)
	s.idx.graph.AddNode(identity)
	s.idx.store.Put(rec)
	diags := linkRecord(s.idx, rec)

	return &ReindexResult{
		Record:      rec,
		Impacted:    s.idx.graph.ImpactedFiles(identity),
		Diagnostics: diags,
	}, nil
}
