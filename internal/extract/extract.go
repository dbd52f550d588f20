// Package extract pulls raw import specifiers and exported symbol names out
// of source files with per-language line heuristics. It does no parsing or
// type checking: specifiers are returned exactly as written, and content
// that matches nothing simply yields empty lists. Scan never fails.
package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// Result is the raw extraction output for one file.
type Result struct {
	Imports []string
	Exports []string
}

// Scan extracts imports and exports from content for the given language
// tag. Unknown tags yield an empty result.
func Scan(content []byte, lang string) Result {
	switch lang {
	case "javascript", "typescript", "vue", "svelte":
		return scanJS(content)
	case "go":
		return scanGo(content)
	case "python":
		return scanPython(content)
	case "rust":
		return scanRust(content)
	case "css", "scss", "less":
		return scanCSS(content)
	default:
		return Result{}
	}
}

var (
	jsImportFrom = regexp.MustCompile(`(?:^|\s)(?:import|export)\s+(?:[\w*{}$,\s]+\s+from\s+)?['"]([^'"]+)['"]`)
	jsRequire    = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDynImport  = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsExportDecl = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var|interface|type|enum|abstract\s+class)\s*\*?\s*([A-Za-z_$][\w$]*)`)
	jsExportList = regexp.MustCompile(`^\s*export\s*\{([^}]+)\}`)
	jsModExports = regexp.MustCompile(`module\.exports\.([A-Za-z_$][\w$]*)\s*=`)
)

func scanJS(content []byte) Result {
	var res Result
	seenImports := make(map[string]struct{})
	addImport := func(spec string) {
		if spec == "" {
			return
		}
		if _, dup := seenImports[spec]; dup {
			return
		}
		seenImports[spec] = struct{}{}
		res.Imports = append(res.Imports, spec)
	}

	sc := newLineScanner(content)
	for sc.Scan() {
		line := sc.Text()
		for _, re := range []*regexp.Regexp{jsImportFrom, jsRequire, jsDynImport} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				addImport(m[1])
			}
		}
		if m := jsExportDecl.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, m[1])
		} else if m := jsExportList.FindStringSubmatch(line); m != nil {
			for _, name := range strings.Split(m[1], ",") {
				name = strings.TrimSpace(name)
				// "foo as bar" exports bar.
				if idx := strings.LastIndex(name, " as "); idx >= 0 {
					name = strings.TrimSpace(name[idx+4:])
				}
				if name != "" {
					res.Exports = append(res.Exports, name)
				}
			}
		}
		for _, m := range jsModExports.FindAllStringSubmatch(line, -1) {
			res.Exports = append(res.Exports, m[1])
		}
	}
	return res
}

var (
	goImportSingle = regexp.MustCompile(`^\s*import\s+(?:\w+\s+|\.\s+|_\s+)?"([^"]+)"`)
	goImportLine   = regexp.MustCompile(`^\s*(?:\w+\s+|\.\s+|_\s+)?"([^"]+)"`)
	goTopDecl      = regexp.MustCompile(`^(?:func|type|var|const)\s+(?:\([^)]*\)\s*)?([A-Z]\w*)`)
)

func scanGo(content []byte) Result {
	var res Result
	inBlock := false

	sc := newLineScanner(content)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case inBlock:
			if strings.HasPrefix(strings.TrimSpace(line), ")") {
				inBlock = false
			} else if m := goImportLine.FindStringSubmatch(line); m != nil {
				res.Imports = append(res.Imports, m[1])
			}
		case strings.HasPrefix(strings.TrimSpace(line), "import ("):
			inBlock = true
		default:
			if m := goImportSingle.FindStringSubmatch(line); m != nil {
				res.Imports = append(res.Imports, m[1])
			} else if m := goTopDecl.FindStringSubmatch(line); m != nil {
				res.Exports = append(res.Exports, m[1])
			}
		}
	}
	return res
}

var (
	pyImport     = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	pyFromImport = regexp.MustCompile(`^\s*from\s+([\w.]+|\.+[\w.]*)\s+import\s+(.+)`)
	pyDef        = regexp.MustCompile(`^(?:def|class)\s+(\w+)`)
	pyConst      = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)\s*=`)
)

func scanPython(content []byte) Result {
	var res Result
	sc := newLineScanner(content)
	for sc.Scan() {
		line := sc.Text()
		if m := pyImport.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, m[1])
		} else if m := pyFromImport.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, m[1])
		} else if m := pyDef.FindStringSubmatch(line); m != nil {
			if !strings.HasPrefix(m[1], "_") {
				res.Exports = append(res.Exports, m[1])
			}
		} else if m := pyConst.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, m[1])
		}
	}
	return res
}

var (
	rustUse = regexp.MustCompile(`^\s*(?:pub\s+)?use\s+([\w:]+)`)
	rustMod = regexp.MustCompile(`^\s*(?:pub\s+)?mod\s+(\w+)\s*;`)
	rustPub = regexp.MustCompile(`^\s*pub\s+(?:fn|struct|enum|trait|const|static|type)\s+(\w+)`)
)

func scanRust(content []byte) Result {
	var res Result
	sc := newLineScanner(content)
	for sc.Scan() {
		line := sc.Text()
		if m := rustUse.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, m[1])
		} else if m := rustMod.FindStringSubmatch(line); m != nil {
			res.Imports = append(res.Imports, m[1])
		}
		if m := rustPub.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, m[1])
		}
	}
	return res
}

var cssImport = regexp.MustCompile(`@(?:import|use)\s+(?:url\()?['"]([^'"]+)['"]`)

func scanCSS(content []byte) Result {
	var res Result
	for _, m := range cssImport.FindAllSubmatch(content, -1) {
		res.Imports = append(res.Imports, string(m[1]))
	}
	return res
}

// newLineScanner builds a scanner with a buffer large enough for long
// minified lines, which would otherwise make bufio give up on the file.
func newLineScanner(content []byte) *bufio.Scanner {
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}
