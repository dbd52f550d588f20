// Package display renders dependency information for terminal output.
package display

import (
	"fmt"
	"strings"

	"github.com/minq/depmap/internal/indexer"
)

// ShortIdentity compresses a deep file identity for narrow terminals.
// e.g. "src/app/features/auth/login/form.ts" -> "src/…/login/form.ts"
func ShortIdentity(identity string, maxSegments int) string {
	if maxSegments < 2 {
		maxSegments = 2
	}
	parts := strings.Split(identity, "/")
	if len(parts) <= maxSegments {
		return identity
	}
	kept := append([]string{parts[0], "…"}, parts[len(parts)-maxSegments+1:]...)
	return strings.Join(kept, "/")
}

// TreeNode is one entry in a rendered dependency tree.
type TreeNode struct {
	Identity string
	// Cyclic marks a node already present on the path above it; its
	// children are not expanded again.
	Cyclic   bool
	Children []*TreeNode
}

// DependencyTree expands id's dependencies (or dependents, when reverse
// is true) into a tree up to maxDepth levels. Nodes revisited along the
// same path are marked cyclic instead of expanded, so cyclic graphs
// render finitely.
func DependencyTree(svc *indexer.Service, id string, maxDepth int, reverse bool) (*TreeNode, error) {
	neighbors := svc.Dependencies
	if reverse {
		neighbors = svc.Dependents
	}
	// Probe once up front so a missing index fails instead of
	// rendering an empty tree.
	if _, err := neighbors(id); err != nil {
		return nil, err
	}

	onPath := map[string]struct{}{}
	return expand(id, maxDepth, neighbors, onPath), nil
}

func expand(id string, depth int, neighbors func(string) ([]string, error), onPath map[string]struct{}) *TreeNode {
	node := &TreeNode{Identity: id}
	if _, seen := onPath[id]; seen {
		node.Cyclic = true
		return node
	}
	if depth == 0 {
		return node
	}

	onPath[id] = struct{}{}
	defer delete(onPath, id)

	next, err := neighbors(id)
	if err != nil {
		return node
	}
	for _, n := range next {
		node.Children = append(node.Children, expand(n, depth-1, neighbors, onPath))
	}
	return node
}

// FormatTree renders a tree with box-drawing characters.
func FormatTree(root *TreeNode) string {
	var sb strings.Builder
	sb.WriteString(root.Identity)
	sb.WriteString("\n")
	formatChildren(&sb, root.Children, "")
	return sb.String()
}

func formatChildren(sb *strings.Builder, children []*TreeNode, indent string) {
	for i, child := range children {
		isLast := i == len(children)-1
		prefix := "├──"
		if isLast {
			prefix = "└──"
		}

		label := child.Identity
		if child.Cyclic {
			label += " (cycle)"
		}
		fmt.Fprintf(sb, "%s%s %s\n", indent, prefix, label)

		if len(child.Children) > 0 {
			childIndent := indent + "│   "
			if isLast {
				childIndent = indent + "    "
			}
			formatChildren(sb, child.Children, childIndent)
		}
	}
}
