// Package export renders the project index into portable formats:
// a Markdown dependency report, Graphviz DOT, and the JSON snapshot.
package export

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minq/depmap/internal/indexer"
	"github.com/minq/depmap/internal/record"
)

// Exporter generates dependency documentation from a project index.
type Exporter struct {
	svc *indexer.Service
}

// NewExporter creates an exporter over svc.
func NewExporter(svc *indexer.Service) *Exporter {
	return &Exporter{svc: svc}
}

// MarkdownOptions configures the Markdown report.
type MarkdownOptions struct {
	IncludeMermaid bool
	IncludeOrder   bool
	ProjectName    string
}

// DefaultMarkdownOptions returns the standard report shape.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		IncludeMermaid: true,
		IncludeOrder:   true,
		ProjectName:    "project",
	}
}

// Markdown writes a full dependency report.
func (e *Exporter) Markdown(w io.Writer, opts MarkdownOptions) error {
	recs, err := e.svc.Records()
	if err != nil {
		return err
	}
	stats, err := e.svc.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# %s dependency map\n\n", opts.ProjectName)
	fmt.Fprintf(w, "> Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "> Files: %d | Dependency edges: %d\n\n", stats.Files, stats.Edges)

	e.writeStructure(w, recs)
	if opts.IncludeMermaid && len(recs) > 0 {
		e.writeDirectoryDiagram(w)
	}
	e.writeFileSections(w, recs)
	e.writeCycles(w)
	if opts.IncludeOrder {
		e.writeOrder(w)
	}
	return nil
}

// writeStructure renders the indexed directory tree.
func (e *Exporter) writeStructure(w io.Writer, recs []*record.Record) {
	fmt.Fprintf(w, "## Structure\n\n```\n")

	dirs := make(map[string]struct{})
	for _, rec := range recs {
		dir := path.Dir(rec.Identity)
		for dir != "." && dir != "/" {
			dirs[dir] = struct{}{}
			dir = path.Dir(dir)
		}
	}
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	for _, dir := range sorted {
		indent := strings.Count(dir, "/")
		prefix := strings.Repeat("│   ", indent)
		fmt.Fprintf(w, "%s├── %s/\n", prefix, path.Base(dir))
	}
	fmt.Fprintf(w, "```\n\n")
}

// writeDirectoryDiagram renders directory-level dependencies as Mermaid.
// File-level edges would swamp the diagram, so edges are collapsed to the
// directories containing their endpoints.
func (e *Exporter) writeDirectoryDiagram(w io.Writer) {
	recs, err := e.svc.Records()
	if err != nil {
		return
	}

	type dirEdge struct{ from, to string }
	edges := make(map[dirEdge]struct{})
	for _, rec := range recs {
		deps, err := e.svc.Dependencies(rec.Identity)
		if err != nil {
			continue
		}
		fromDir := path.Dir(rec.Identity)
		for _, dep := range deps {
			toDir := path.Dir(dep)
			if fromDir != toDir {
				edges[dirEdge{fromDir, toDir}] = struct{}{}
			}
		}
	}
	if len(edges) == 0 {
		return
	}

	sorted := make([]dirEdge, 0, len(edges))
	for de := range edges {
		sorted = append(sorted, de)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].from != sorted[j].from {
			return sorted[i].from < sorted[j].from
		}
		return sorted[i].to < sorted[j].to
	})

	fmt.Fprintf(w, "## Directory dependencies\n\n```mermaid\nflowchart TB\n")
	for _, edge := range sorted {
		fmt.Fprintf(w, "    %s --> %s\n", mermaidID(edge.from), mermaidID(edge.to))
	}
	fmt.Fprintf(w, "```\n\n")
}

func (e *Exporter) writeFileSections(w io.Writer, recs []*record.Record) {
	fmt.Fprintf(w, "---\n\n## Files\n\n")
	for _, rec := range recs {
		fmt.Fprintf(w, "### %s\n\n", rec.Identity)
		fmt.Fprintf(w, "- Language: %s\n", rec.Language)

		if deps, err := e.svc.Dependencies(rec.Identity); err == nil && len(deps) > 0 {
			fmt.Fprintf(w, "- Depends on: %s\n", strings.Join(deps, ", "))
		}
		if dependents, err := e.svc.Dependents(rec.Identity); err == nil && len(dependents) > 0 {
			fmt.Fprintf(w, "- Depended on by: %s\n", strings.Join(dependents, ", "))
		}
		if len(rec.Exports) > 0 {
			fmt.Fprintf(w, "- Exports: %s\n", strings.Join(rec.Exports, ", "))
		}
		fmt.Fprintf(w, "\n")
	}
}

func (e *Exporter) writeCycles(w io.Writer) {
	cycles, err := e.svc.DetectCycles()
	if err != nil {
		return
	}
	fmt.Fprintf(w, "## Circular dependencies\n\n")
	if len(cycles) == 0 {
		fmt.Fprintf(w, "None detected.\n\n")
		return
	}
	for _, cycle := range cycles {
		fmt.Fprintf(w, "- %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
	}
	fmt.Fprintf(w, "\n")
}

func (e *Exporter) writeOrder(w io.Writer) {
	order, ok, err := e.svc.TopologicalSort()
	if err != nil {
		return
	}
	fmt.Fprintf(w, "## Build order\n\n")
	if !ok {
		fmt.Fprintf(w, "No valid ordering: the graph contains cycles.\n")
		return
	}
	for i, id := range order {
		fmt.Fprintf(w, "%d. %s\n", i+1, id)
	}
}

// mermaidID turns a directory path into a Mermaid-safe node identifier.
func mermaidID(dir string) string {
	if dir == "." {
		return "root"
	}
	r := strings.NewReplacer("/", "_", ".", "_", "-", "_")
	return r.Replace(dir)
}
