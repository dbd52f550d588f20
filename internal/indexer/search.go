package indexer

import (
	"sort"
	"strings"
)

// Match is one search hit. Symbol is set when the hit came from an
// exported symbol rather than the file path itself.
type Match struct {
	Identity string `json:"identity"`
	Language string `json:"language"`
	Symbol   string `json:"symbol,omitempty"`
}

// SearchOptions bounds a search.
type SearchOptions struct {
	// Limit caps the number of results. Zero means no cap.
	Limit int
}

// Ranking tiers, best first. Ties within a tier break lexicographically
// by identity, so results are deterministic for a given index.
const (
	rankExactName = iota
	rankNamePrefix
	rankPathSubstring
	rankSymbol
)

// Search finds files by name, path substring, or exported symbol. The
// query is matched case-insensitively.
func (s *Service) Search(query string, opts SearchOptions) ([]Match, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	type ranked struct {
		rank int
		m    Match
	}
	var hits []ranked

	// The blank-query check lives inside withIndex so a missing index is
	// reported even when there is nothing to match.
	err := s.withIndex(func(idx *projectIndex) error {
		if q == "" {
			return nil
		}
		for _, rec := range idx.store.Records() {
			name := strings.ToLower(rec.Name)
			stem := strings.TrimSuffix(name, rec.Ext)
			switch {
			case name == q || stem == q:
				hits = append(hits, ranked{rankExactName, Match{Identity: rec.Identity, Language: rec.Language}})
			case strings.HasPrefix(name, q):
				hits = append(hits, ranked{rankNamePrefix, Match{Identity: rec.Identity, Language: rec.Language}})
			case strings.Contains(strings.ToLower(rec.Identity), q):
				hits = append(hits, ranked{rankPathSubstring, Match{Identity: rec.Identity, Language: rec.Language}})
			default:
				for _, sym := range rec.Exports {
					if strings.Contains(strings.ToLower(sym), q) {
						hits = append(hits, ranked{rankSymbol, Match{Identity: rec.Identity, Language: rec.Language, Symbol: sym}})
						break
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].m.Identity < hits[j].m.Identity
	})

	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	out := make([]Match, len(hits))
	for i, h := range hits {
		out[i] = h.m
	}
	return out, nil
}
