// Package record holds per-file metadata keyed by canonical file identity.
package record

import (
	"sort"
	"time"
)

// Record is the indexed metadata for one file. A record is created on the
// first successful index of a file and wholly replaced on every re-index;
// fields are never merged.
type Record struct {
	Identity string    `json:"identity"` // project-relative, slash-separated
	AbsPath  string    `json:"absPath"`
	Name     string    `json:"name"`
	Ext      string    `json:"ext"`
	Language string    `json:"language"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`

	// Raw extraction output, exactly as written in the source.
	Imports []string `json:"imports"`
	Exports []string `json:"exports"`
}

// Store maps file identities to their records. At most one record exists
// per identity. Like the graph, it relies on the caller for write
// serialization.
type Store struct {
	records map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Put inserts or wholly replaces the record for its identity.
func (s *Store) Put(r *Record) {
	s.records[r.Identity] = r
}

// Get returns the record for identity, or nil if none exists.
func (s *Store) Get(identity string) *Record {
	return s.records[identity]
}

// Has reports whether identity has a record.
func (s *Store) Has(identity string) bool {
	_, ok := s.records[identity]
	return ok
}

// Delete removes the record for identity, if present.
func (s *Store) Delete(identity string) {
	delete(s.records, identity)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Identities returns all record identities, sorted.
func (s *Store) Identities() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns all records ordered by identity.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, id := range s.Identities() {
		out = append(out, s.records[id])
	}
	return out
}

// Clear removes every record.
func (s *Store) Clear() {
	s.records = make(map[string]*Record)
}
