// Package language maps file extensions to language tags and per-family
// resolution rules.
package language

import (
	"path"
	"strings"
)

// Generic is the tag for files with an unrecognized extension. They still
// get a file record (size and timestamps only) but contribute no edges.
const Generic = "text"

// extTable is the fixed extension-to-language lookup.
var extTable = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".go":    "go",
	".py":    "python",
	".rs":    "rust",
	".rb":    "ruby",
	".java":  "java",
	".kt":    "kotlin",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".vue":   "vue",
	".svelte": "svelte",
	".css":   "css",
	".scss":  "scss",
	".less":  "less",
	".html":  "html",
	".htm":   "html",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".md":    "markdown",
	".sh":    "shell",
	".bash":  "shell",
	".sql":   "sql",
}

// Detect returns the language tag for a file path, based purely on its
// extension. Unrecognized extensions map to Generic.
func Detect(filePath string) string {
	ext := strings.ToLower(path.Ext(filePath))
	if lang, ok := extTable[ext]; ok {
		return lang
	}
	return Generic
}

// Recognized reports whether the extension has a dedicated language tag.
func Recognized(filePath string) bool {
	_, ok := extTable[strings.ToLower(path.Ext(filePath))]
	return ok
}

// Family groups languages that share import-resolution rules.
type Family struct {
	// Suffixes tried, in order, when a relative specifier does not name an
	// existing file directly.
	Suffixes []string
	// IndexNames are per-directory entry files tried when the specifier
	// names a directory.
	IndexNames []string
}

var jsFamily = Family{
	Suffixes:   []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".json", ".css", ".scss", ".vue", ".svelte"},
	IndexNames: []string{"index.ts", "index.tsx", "index.js", "index.jsx"},
}

var familyTable = map[string]Family{
	"javascript": jsFamily,
	"typescript": jsFamily,
	"vue":        jsFamily,
	"svelte":     jsFamily,
	"python":     {Suffixes: []string{".py"}, IndexNames: []string{"__init__.py"}},
	"rust":       {Suffixes: []string{".rs"}, IndexNames: []string{"mod.rs"}},
	"go":         {Suffixes: []string{".go"}},
	"css":        {Suffixes: []string{".css", ".scss", ".less"}},
	"scss":       {Suffixes: []string{".scss", ".css"}},
}

// FamilyFor returns the resolution rules for a language tag. Languages
// without specific rules get an empty family: only exact matches resolve.
func FamilyFor(lang string) Family {
	return familyTable[lang]
}
