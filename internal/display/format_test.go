package display

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minq/depmap/internal/indexer"
)

func TestShortIdentity(t *testing.T) {
	tests := []struct {
		in       string
		segments int
		want     string
	}{
		{"main.ts", 3, "main.ts"},
		{"src/app/main.ts", 3, "src/app/main.ts"},
		{"src/app/features/auth/login/form.ts", 3, "src/…/login/form.ts"},
		{"a/b/c/d.ts", 2, "a/…/d.ts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortIdentity(tt.in, tt.segments), tt.in)
	}
}

func fixtureService(t *testing.T, files map[string]string) *indexer.Service {
	t.Helper()
	root := t.TempDir()
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

func TestDependencyTree(t *testing.T) {
	svc := fixtureService(t, map[string]string{
		"app.ts":    `import "./engine";` + "\n" + `import "./util";` + "\n",
		"engine.ts": `import "./util";` + "\n",
		"util.ts":   "export const u = 1;\n",
	})

	tree, err := DependencyTree(svc, "app.ts", 5, false)
	require.NoError(t, err)

	out := FormatTree(tree)
	assert.Equal(t, "app.ts\n├── engine.ts\n│   └── util.ts\n└── util.ts\n", out)
}

func TestDependencyTreeReverse(t *testing.T) {
	svc := fixtureService(t, map[string]string{
		"app.ts":    `import "./engine";` + "\n",
		"engine.ts": `import "./util";` + "\n",
		"util.ts":   "export const u = 1;\n",
	})

	tree, err := DependencyTree(svc, "util.ts", 5, true)
	require.NoError(t, err)

	out := FormatTree(tree)
	assert.Equal(t, "util.ts\n└── engine.ts\n    └── app.ts\n", out)
}

func TestDependencyTreeMarksCycles(t *testing.T) {
	svc := fixtureService(t, map[string]string{
		"a.ts": `import "./b";` + "\n",
		"b.ts": `import "./a";` + "\n",
	})

	tree, err := DependencyTree(svc, "a.ts", 10, false)
	require.NoError(t, err)

	out := FormatTree(tree)
	assert.Equal(t, "a.ts\n└── b.ts\n    └── a.ts (cycle)\n", out)
}

func TestDependencyTreeRequiresIndex(t *testing.T) {
	svc := indexer.New(indexer.DefaultConfig())
	_, err := DependencyTree(svc, "a.ts", 3, false)
	assert.ErrorIs(t, err, indexer.ErrNoIndex)
}
