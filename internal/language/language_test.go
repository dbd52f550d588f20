package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/app.ts", "typescript"},
		{"src/App.TSX", "typescript"},
		{"main.go", "go"},
		{"scripts/build.py", "python"},
		{"lib.rs", "rust"},
		{"styles/site.scss", "scss"},
		{"config.yaml", "yaml"},
		{"README.md", "markdown"},
		{"Makefile", Generic},
		{"data.bin", Generic},
		{"no-extension", Generic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.path), tt.path)
	}
}

func TestRecognized(t *testing.T) {
	assert.True(t, Recognized("a.js"))
	assert.False(t, Recognized("a.lock"))
	assert.False(t, Recognized("LICENSE"))
}

func TestFamilyFor(t *testing.T) {
	js := FamilyFor("javascript")
	ts := FamilyFor("typescript")
	assert.Equal(t, js.Suffixes, ts.Suffixes, "JS and TS share one family")
	assert.Contains(t, js.IndexNames, "index.js")

	py := FamilyFor("python")
	assert.Equal(t, []string{".py"}, py.Suffixes)
	assert.Equal(t, []string{"__init__.py"}, py.IndexNames)

	generic := FamilyFor(Generic)
	assert.Empty(t, generic.Suffixes)
	assert.Empty(t, generic.IndexNames)
}
