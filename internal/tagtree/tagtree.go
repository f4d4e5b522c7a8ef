// Package tagtree rebuilds the tag hierarchy implied by "/"-separated tag
// names.
package tagtree

import (
	"sort"
	"strings"

	"github.com/starford/notegraph/internal/models"
)

// Node is one segment of the tag hierarchy. Path is the full tag name up to
// and including this segment. Count is zero for synthesized parents.
type Node struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Count    int     `json:"count"`
	Children []*Node `json:"children,omitempty"`
}

// Build nests tags under their parents by path prefix. Intermediate parents
// that are not tags themselves are synthesized with a zero count. Siblings
// are sorted by name.
func Build(tags []models.TagCount) []*Node {
	byPath := make(map[string]*Node)
	var roots []*Node

	var ensure func(path string) *Node
	ensure = func(path string) *Node {
		if n, ok := byPath[path]; ok {
			return n
		}
		n := &Node{Path: path, Name: path}
		byPath[path] = n
		if i := strings.LastIndex(path, "/"); i >= 0 {
			n.Name = path[i+1:]
			parent := ensure(path[:i])
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
		return n
	}

	for _, tc := range tags {
		path := strings.Trim(tc.Tag, "/")
		if path == "" {
			continue
		}
		ensure(path).Count += tc.Count
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
