// Package scm reads change information from git so re-indexing can be
// limited to files a commit range actually touched.
package scm

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minq/depmap/internal/language"
)

// Changes is the set of recognized source files changed against a base.
type Changes struct {
	Base  string
	Files []string // project-relative, slash-separated
	Dirs  []string // directories containing changed files
}

// Changed lists the recognized source files changed in root since base.
// An empty base compares against HEAD (uncommitted work). When the diff
// fails, for example in a repository with no commits yet, modified and
// untracked files are listed instead.
func Changed(root, base string) (*Changes, error) {
	if base == "" {
		base = "HEAD"
	}

	cmd := exec.Command("git", "diff", "--name-only", base)
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		cmd = exec.Command("git", "ls-files", "--modified", "--others", "--exclude-standard")
		cmd.Dir = root
		output, err = cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("listing changed files: %w", err)
		}
	}

	changes := &Changes{Base: base}
	dirSet := make(map[string]struct{})

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		file := strings.TrimSpace(scanner.Text())
		if file == "" || !language.Recognized(file) {
			continue
		}
		file = filepath.ToSlash(file)
		changes.Files = append(changes.Files, file)

		dir := filepath.ToSlash(filepath.Dir(file))
		if _, seen := dirSet[dir]; !seen {
			dirSet[dir] = struct{}{}
			changes.Dirs = append(changes.Dirs, dir)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sort.Strings(changes.Files)
	sort.Strings(changes.Dirs)
	return changes, nil
}

// HasChanges reports whether any recognized file changed.
func (c *Changes) HasChanges() bool {
	return len(c.Files) > 0
}

func (c *Changes) String() string {
	return fmt.Sprintf("%d files changed in %d directories against %s",
		len(c.Files), len(c.Dirs), c.Base)
}

// TrackingBranch returns the remote tracking branch of the current
// branch, such as "origin/main", for use as a diff base.
func TrackingBranch(root string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolving remote tracking branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("current branch has no remote tracking branch")
	}
	return branch, nil
}
