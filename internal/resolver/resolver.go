// Package resolver turns raw import specifiers into canonical file
// identities. Only intra-project structure is modeled: bare package names
// and absolute module paths are classified as external and never become
// edges.
package resolver

import (
	"path"
	"strings"

	"github.com/minq/depmap/internal/language"
)

// Outcome classifies one resolution attempt.
type Outcome int

const (
	// Resolved means the specifier names an indexed project file.
	Resolved Outcome = iota
	// External means the specifier points outside the project
	// (package from a registry, standard library, absolute module path).
	External
	// NotFound means the specifier is relative but no candidate file is
	// known: the file is missing or was never indexed. Callers treat this
	// as a soft diagnostic, not an error.
	NotFound
)

// Resolve maps a specifier written inside fromIdentity to the identity of
// another project file. has reports whether a candidate identity is known
// (typically backed by the file record store). lang is the importing
// file's language tag and selects the candidate-suffix family.
func Resolve(specifier, fromIdentity, lang string, has func(string) bool) (string, Outcome) {
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"), specifier == ".", specifier == "..":
		return resolveRelative(specifier, fromIdentity, lang, has)
	case lang == "python" && strings.HasPrefix(specifier, "."):
		return resolvePythonRelative(specifier, fromIdentity, has)
	default:
		return "", External
	}
}

// resolveRelative joins the specifier against the importing file's
// directory and probes a fixed ordered candidate list: the exact path
// first, then each family suffix appended, then the family's per-directory
// index files. The first known candidate wins.
func resolveRelative(specifier, fromIdentity, lang string, has func(string) bool) (string, Outcome) {
	base := path.Join(path.Dir(fromIdentity), specifier)
	base = path.Clean(base)
	if base == ".." || strings.HasPrefix(base, "../") {
		// Escapes the project root; nothing inside the index can match.
		return "", NotFound
	}

	fam := language.FamilyFor(lang)
	if has(base) {
		return base, Resolved
	}
	for _, suffix := range fam.Suffixes {
		if candidate := base + suffix; has(candidate) {
			return candidate, Resolved
		}
	}
	for _, index := range fam.IndexNames {
		if candidate := path.Join(base, index); has(candidate) {
			return candidate, Resolved
		}
	}
	return "", NotFound
}

// resolvePythonRelative handles dotted relative module paths: one leading
// dot is the importing file's package, each further dot climbs one level.
func resolvePythonRelative(specifier, fromIdentity string, has func(string) bool) (string, Outcome) {
	dots := 0
	for dots < len(specifier) && specifier[dots] == '.' {
		dots++
	}
	dir := path.Dir(fromIdentity)
	for i := 1; i < dots; i++ {
		if dir == "." {
			return "", NotFound
		}
		dir = path.Dir(dir)
	}

	rest := strings.ReplaceAll(specifier[dots:], ".", "/")
	base := dir
	if rest != "" {
		base = path.Join(dir, rest)
	}

	if rest != "" {
		if candidate := base + ".py"; has(candidate) {
			return candidate, Resolved
		}
	}
	if candidate := path.Join(base, "__init__.py"); has(candidate) {
		return candidate, Resolved
	}
	return "", NotFound
}
