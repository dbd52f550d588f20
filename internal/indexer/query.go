package indexer

import (
	"fmt"
	"time"

	"github.com/minq/depmap/internal/graph"
	"github.com/minq/depmap/internal/record"
)

// withIndex runs fn with the current project index under the read lock.
func (s *Service) withIndex(fn func(idx *projectIndex) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.idx == nil {
		return ErrNoIndex
	}
	return fn(s.idx)
}

// Root returns the absolute root of the indexed project.
func (s *Service) Root() (string, error) {
	var root string
	err := s.withIndex(func(idx *projectIndex) error {
		root = idx.root
		return nil
	})
	return root, err
}

// Record returns the file record for identity, or an error when the
// identity is not indexed.
func (s *Service) Record(identity string) (*record.Record, error) {
	var rec *record.Record
	err := s.withIndex(func(idx *projectIndex) error {
		rec = idx.store.Get(identity)
		if rec == nil {
			return fmt.Errorf("%s is not in the index", identity)
		}
		return nil
	})
	return rec, err
}

// Records returns every file record, sorted by identity.
func (s *Service) Records() ([]*record.Record, error) {
	var recs []*record.Record
	err := s.withIndex(func(idx *projectIndex) error {
		recs = idx.store.Records()
		return nil
	})
	return recs, err
}

// Dependencies returns the files identity directly imports.
func (s *Service) Dependencies(identity string) ([]string, error) {
	var deps []string
	err := s.withIndex(func(idx *projectIndex) error {
		deps = idx.graph.Dependencies(identity)
		return nil
	})
	return deps, err
}

// Dependents returns the files that directly import identity.
func (s *Service) Dependents(identity string) ([]string, error) {
	var deps []string
	err := s.withIndex(func(idx *projectIndex) error {
		deps = idx.graph.Dependents(identity)
		return nil
	})
	return deps, err
}

// AllDependencies returns everything identity transitively depends on.
func (s *Service) AllDependencies(identity string) ([]string, error) {
	var deps []string
	err := s.withIndex(func(idx *projectIndex) error {
		deps = idx.graph.AllDependencies(identity)
		return nil
	})
	return deps, err
}

// ImpactedFiles returns everything that transitively depends on identity.
func (s *Service) ImpactedFiles(identity string) ([]string, error) {
	var deps []string
	err := s.withIndex(func(idx *projectIndex) error {
		deps = idx.graph.ImpactedFiles(identity)
		return nil
	})
	return deps, err
}

// DetectCycles reports every circular dependency in the project.
func (s *Service) DetectCycles() ([][]string, error) {
	var cycles [][]string
	err := s.withIndex(func(idx *projectIndex) error {
		cycles = idx.graph.DetectCycles()
		return nil
	})
	return cycles, err
}

// TopologicalSort returns a dependencies-first ordering of every indexed
// file, with ok false when cycles make such an ordering impossible.
func (s *Service) TopologicalSort() (order []string, ok bool, err error) {
	err = s.withIndex(func(idx *projectIndex) error {
		order, ok = idx.graph.TopologicalSort()
		return nil
	})
	return order, ok, err
}

// Stats summarizes the current index.
type Stats struct {
	Root      string    `json:"root"`
	Files     int       `json:"files"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	IndexedAt time.Time `json:"indexed_at"`
}

// Stats returns counts and timing for the current index.
func (s *Service) Stats() (Stats, error) {
	var st Stats
	err := s.withIndex(func(idx *projectIndex) error {
		st = Stats{
			Root:      idx.root,
			Files:     idx.store.Len(),
			Nodes:     idx.graph.NodeCount(),
			Edges:     idx.graph.EdgeCount(),
			IndexedAt: idx.indexedAt,
		}
		return nil
	})
	return st, err
}

// Snapshot captures the current dependency graph in its portable form.
func (s *Service) Snapshot() (graph.Snapshot, error) {
	var snap graph.Snapshot
	err := s.withIndex(func(idx *projectIndex) error {
		snap = idx.graph.Snapshot()
		return nil
	})
	return snap, err
}

// RestoreSnapshot replaces the dependency graph with a previously
// captured one. When no project has been indexed yet, a graph-only index
// is created so graph queries work without file records.
func (s *Service) RestoreSnapshot(snap graph.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == nil {
		g, err := graph.FromSnapshot(snap, graph.WithSelfEdgeCycles(s.cfg.SelfEdgeCycles))
		if err != nil {
			return err
		}
		s.idx = &projectIndex{
			store:     record.NewStore(),
			graph:     g,
			indexedAt: time.Now(),
		}
		return nil
	}
	return s.idx.graph.Restore(snap)
}
