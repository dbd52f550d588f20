package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/minq/depmap/internal/graph"
	"github.com/minq/depmap/internal/indexer"
)

// WriteSnapshot serializes the current dependency graph as JSON.
func (e *Exporter) WriteSnapshot(w io.Writer) error {
	snap, err := e.svc.Snapshot()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// SaveSnapshot writes the snapshot to a file.
func (e *Exporter) SaveSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()
	return e.WriteSnapshot(f)
}

// LoadSnapshot reads a JSON snapshot and restores it into svc. The
// restore is validated first, so a malformed snapshot leaves the current
// graph untouched.
func LoadSnapshot(path string, svc *indexer.Service) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot file: %w", err)
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}
	return svc.RestoreSnapshot(snap)
}
