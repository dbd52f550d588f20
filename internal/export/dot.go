package export

import (
	"fmt"
	"io"
)

// DOT writes the dependency graph in Graphviz dot format. Nodes carry
// their language as a tooltip so renderers can color by it.
func (e *Exporter) DOT(w io.Writer) error {
	recs, err := e.svc.Records()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "digraph dependencies {")
	fmt.Fprintln(w, "    rankdir=LR;")
	fmt.Fprintln(w, "    node [shape=box, fontsize=10];")

	for _, rec := range recs {
		fmt.Fprintf(w, "    %q [tooltip=%q];\n", rec.Identity, rec.Language)
	}
	for _, rec := range recs {
		deps, err := e.svc.Dependencies(rec.Identity)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			fmt.Fprintf(w, "    %q -> %q;\n", rec.Identity, dep)
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}
