// mockgen generates a synthetic TypeScript project with a controlled
// import structure, used to exercise depmap on large trees.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

type Config struct {
	OutputDir     string
	NumDirs       int
	NumFilesPer   int
	MaxDepth      int
	ImportDensity float64 // average imports per file
	InjectCycles  int     // number of deliberate cycles
	Seed          int64
}

// FileInfo is one generated source file.
type FileInfo struct {
	Dir      string
	Name     string
	Identity string
	Depth    int
	DirIdx   int
}

func main() {
	cfg := Config{}
	flag.StringVar(&cfg.OutputDir, "o", "./mock-project", "output directory")
	flag.IntVar(&cfg.NumDirs, "dirs", 20, "number of directories")
	flag.IntVar(&cfg.NumFilesPer, "files", 50, "files per directory")
	flag.IntVar(&cfg.MaxDepth, "depth", 10, "maximum dependency depth")
	flag.Float64Var(&cfg.ImportDensity, "density", 3.0, "average imports per file")
	flag.IntVar(&cfg.InjectCycles, "cycles", 0, "number of deliberate import cycles")
	flag.Int64Var(&cfg.Seed, "seed", 1, "random seed, for reproducible trees")
	flag.Parse()

	fmt.Printf("Generating mock project...\n")
	fmt.Printf("  directories: %d\n", cfg.NumDirs)
	fmt.Printf("  files per directory: %d\n", cfg.NumFilesPer)
	fmt.Printf("  total files: %d\n", cfg.NumDirs*cfg.NumFilesPer)
	fmt.Printf("  max depth: %d\n", cfg.MaxDepth)
	fmt.Printf("  import density: %.1f\n", cfg.ImportDensity)
	if cfg.InjectCycles > 0 {
		fmt.Printf("  injected cycles: %d\n", cfg.InjectCycles)
	}

	if err := generateProject(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nProject generated: %s\n", cfg.OutputDir)
	fmt.Printf("\nNext:\n")
	fmt.Printf("  depmap index %s\n", cfg.OutputDir)
}

func generateProject(cfg *Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	allFiles := buildRegistry(cfg)
	byDepth := organizeByDepth(allFiles, cfg.MaxDepth)

	for dirIdx := 0; dirIdx < cfg.NumDirs; dirIdx++ {
		dirName := fmt.Sprintf("mod%02d", dirIdx)
		if err := generateDir(cfg, rng, dirName, dirIdx, byDepth, allFiles); err != nil {
			return err
		}
		fmt.Printf("  generated %s (%d/%d)\n", dirName, dirIdx+1, cfg.NumDirs)
	}

	if cfg.InjectCycles > 0 {
		if err := injectCycles(cfg, rng, allFiles); err != nil {
			return err
		}
	}
	return nil
}

func buildRegistry(cfg *Config) []*FileInfo {
	var files []*FileInfo
	for dirIdx := 0; dirIdx < cfg.NumDirs; dirIdx++ {
		dirName := fmt.Sprintf("mod%02d", dirIdx)
		for fileIdx := 0; fileIdx < cfg.NumFilesPer; fileIdx++ {
			name := fmt.Sprintf("file%04d", fileIdx)
			files = append(files, &FileInfo{
				Dir:      dirName,
				Name:     name,
				Identity: fmt.Sprintf("%s/%s.ts", dirName, name),
				DirIdx:   dirIdx,
			})
		}
	}
	return files
}

// organizeByDepth spreads files across depth layers. Files only import
// deeper layers, so the generated graph is acyclic by construction.
func organizeByDepth(all []*FileInfo, maxDepth int) [][]*FileInfo {
	byDepth := make([][]*FileInfo, maxDepth+1)
	for i, f := range all {
		depth := i % (maxDepth + 1)
		f.Depth = depth
		byDepth[depth] = append(byDepth[depth], f)
	}
	return byDepth
}

func generateDir(cfg *Config, rng *rand.Rand, dirName string, dirIdx int, byDepth [][]*FileInfo, all []*FileInfo) error {
	dirPath := filepath.Join(cfg.OutputDir, dirName)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return err
	}

	startIdx := dirIdx * cfg.NumFilesPer
	dirFiles := all[startIdx : startIdx+cfg.NumFilesPer]

	for _, f := range dirFiles {
		targets := chooseImports(f, byDepth, cfg, rng)
		content := renderFile(f, targets)
		path := filepath.Join(dirPath, f.Name+".ts")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func chooseImports(f *FileInfo, byDepth [][]*FileInfo, cfg *Config, rng *rand.Rand) []*FileInfo {
	// Leaf layer imports nothing.
	if f.Depth >= len(byDepth)-1 {
		return nil
	}

	numImports := rng.Intn(int(cfg.ImportDensity*2)) + 1
	if numImports > int(cfg.ImportDensity*1.5) {
		numImports = int(cfg.ImportDensity)
	}

	var targets []*FileInfo
	seen := make(map[string]bool)

	nextDepth := f.Depth + 1
	for i := 0; i < numImports; i++ {
		var target *FileInfo
		if rng.Float64() < 0.8 && len(byDepth[nextDepth]) > 0 {
			target = byDepth[nextDepth][rng.Intn(len(byDepth[nextDepth]))]
		} else {
			var deeper []*FileInfo
			for d := nextDepth; d < len(byDepth); d++ {
				deeper = append(deeper, byDepth[d]...)
			}
			if len(deeper) > 0 {
				target = deeper[rng.Intn(len(deeper))]
			}
		}
		if target != nil && target.Identity != f.Identity && !seen[target.Identity] {
			targets = append(targets, target)
			seen[target.Identity] = true
		}
	}
	return targets
}

func renderFile(f *FileInfo, targets []*FileInfo) string {
	var content string
	for i, t := range targets {
		spec := relativeSpecifier(f, t)
		content += fmt.Sprintf("import { value%d as dep%d } from \"%s\";\n", i, i, spec)
	}
	if len(targets) > 0 {
		content += "\n"
	}

	content += fmt.Sprintf("// %s, depth %d\n", f.Name, f.Depth)
	for i := range targets {
		content += fmt.Sprintf("export const value%d = dep%d;\n", i, i)
	}
	content += fmt.Sprintf("export const value%d = %d;\n", len(targets), f.Depth)
	return content
}

// relativeSpecifier builds the import path from f to t without the
// extension, the way hand-written TypeScript does it.
func relativeSpecifier(f, t *FileInfo) string {
	if f.Dir == t.Dir {
		return "./" + t.Name
	}
	return "../" + t.Dir + "/" + t.Name
}

// injectCycles makes a few random file pairs import each other, giving
// cycle detection something to find.
func injectCycles(cfg *Config, rng *rand.Rand, all []*FileInfo) error {
	for i := 0; i < cfg.InjectCycles; i++ {
		a := all[rng.Intn(len(all))]
		b := all[rng.Intn(len(all))]
		if a.Identity == b.Identity {
			continue
		}
		if err := appendImport(cfg, a, b); err != nil {
			return err
		}
		if err := appendImport(cfg, b, a); err != nil {
			return err
		}
	}
	fmt.Printf("  injected up to %d cycles\n", cfg.InjectCycles)
	return nil
}

func appendImport(cfg *Config, from, to *FileInfo) error {
	path := filepath.Join(cfg.OutputDir, from.Dir, from.Name+".ts")
	line := fmt.Sprintf("import { value0 as back } from \"%s\";\nexport const cycle = back;\n",
		relativeSpecifier(from, to))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}
