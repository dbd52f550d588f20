package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minq/depmap/internal/indexer"
)

func indexedService(t *testing.T) *indexer.Service {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"main.ts":        `import { run } from "./core/engine";` + "\n",
		"core/engine.ts": `import "./util";` + "\nexport function run() {}\n",
		"core/util.ts":   "export const u = 1;\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	svc := indexer.New(indexer.DefaultConfig())
	_, err := svc.IndexProject(context.Background(), root)
	require.NoError(t, err)
	return svc
}

func TestMarkdownReport(t *testing.T) {
	svc := indexedService(t)
	var buf bytes.Buffer

	err := NewExporter(svc).Markdown(&buf, DefaultMarkdownOptions())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# project dependency map")
	assert.Contains(t, out, "### main.ts")
	assert.Contains(t, out, "Depends on: core/engine.ts")
	assert.Contains(t, out, "Depended on by: main.ts")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "root --> core")
	assert.Contains(t, out, "None detected.")
	assert.Contains(t, out, "1. core/util.ts")
}

func TestMarkdownReportsCycles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte(`import "./b";`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.ts"), []byte(`import "./a";`+"\n"), 0o644))
	svc := indexer.New(indexer.DefaultConfig())
	_, err := svc.IndexProject(context.Background(), root)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(svc).Markdown(&buf, DefaultMarkdownOptions()))

	out := buf.String()
	assert.Contains(t, out, "a.ts -> b.ts -> a.ts")
	assert.Contains(t, out, "No valid ordering")
}

func TestDOT(t *testing.T) {
	svc := indexedService(t)
	var buf bytes.Buffer

	require.NoError(t, NewExporter(svc).DOT(&buf))

	out := buf.String()
	assert.Contains(t, out, "digraph dependencies {")
	assert.Contains(t, out, `"main.ts" -> "core/engine.ts";`)
	assert.Contains(t, out, `"core/engine.ts" -> "core/util.ts";`)
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	svc := indexedService(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	require.NoError(t, NewExporter(svc).SaveSnapshot(path))

	fresh := indexer.New(indexer.DefaultConfig())
	require.NoError(t, LoadSnapshot(path, fresh))

	deps, err := fresh.Dependencies("main.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"core/engine.ts"}, deps)
}

func TestLoadSnapshotRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": ["a", "a"], "edges": []}`), 0o644))

	svc := indexer.New(indexer.DefaultConfig())
	assert.Error(t, LoadSnapshot(path, svc))
}
