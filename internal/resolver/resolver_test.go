package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func knowing(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestResolveExactMatch(t *testing.T) {
	has := knowing("src/util.ts", "src/app.ts")

	id, out := Resolve("./util.ts", "src/app.ts", "typescript", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "src/util.ts", id)
}

func TestResolveSuffixProbe(t *testing.T) {
	has := knowing("src/util.ts")

	id, out := Resolve("./util", "src/app.ts", "typescript", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "src/util.ts", id)
}

func TestResolveSuffixOrder(t *testing.T) {
	// .ts is probed before .js, so the TypeScript file wins.
	has := knowing("src/util.js", "src/util.ts")

	id, out := Resolve("./util", "src/app.ts", "typescript", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "src/util.ts", id)
}

func TestResolveIndexFile(t *testing.T) {
	has := knowing("src/lib/index.js")

	id, out := Resolve("./lib", "src/app.js", "javascript", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "src/lib/index.js", id)
}

func TestResolveParentDirectory(t *testing.T) {
	has := knowing("shared/config.js")

	id, out := Resolve("../shared/config", "app/main.js", "javascript", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "shared/config.js", id)
}

func TestResolveSelfImport(t *testing.T) {
	has := knowing("src/a.js")

	id, out := Resolve("./a.js", "src/a.js", "javascript", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "src/a.js", id)
}

func TestBareSpecifierIsExternal(t *testing.T) {
	has := knowing("react.js") // would match, but must never be probed

	for _, spec := range []string{"react", "lodash/merge", "fmt", "github.com/spf13/cobra", "/abs/path"} {
		_, out := Resolve(spec, "src/app.js", "javascript", has)
		assert.Equal(t, External, out, spec)
	}
}

func TestUnresolvableRelative(t *testing.T) {
	has := knowing("src/app.js")

	_, out := Resolve("./missing", "src/app.js", "javascript", has)
	assert.Equal(t, NotFound, out)
}

func TestEscapingProjectRoot(t *testing.T) {
	has := knowing("app.js")

	_, out := Resolve("../../outside", "app.js", "javascript", has)
	assert.Equal(t, NotFound, out)
}

func TestPythonRelative(t *testing.T) {
	has := knowing("pkg/helper.py", "pkg/sub/__init__.py", "core/engine.py")

	id, out := Resolve(".helper", "pkg/main.py", "python", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "pkg/helper.py", id)

	id, out = Resolve(".sub", "pkg/main.py", "python", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "pkg/sub/__init__.py", id)

	id, out = Resolve("..core.engine", "pkg/main.py", "python", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "core/engine.py", id)

	_, out = Resolve("os.path", "pkg/main.py", "python", has)
	assert.Equal(t, External, out)
}

func TestGenericLanguageExactOnly(t *testing.T) {
	has := knowing("docs/other.md")

	id, out := Resolve("./other.md", "docs/readme.md", "markdown", has)
	assert.Equal(t, Resolved, out)
	assert.Equal(t, "docs/other.md", id)

	_, out = Resolve("./other", "docs/readme.md", "markdown", has)
	assert.Equal(t, NotFound, out, "no suffix family for generic tags")
}
