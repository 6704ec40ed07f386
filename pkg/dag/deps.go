package dag

import (
	"maps"

	"github.com/matzehuels/fossrepo/pkg/repository"
)

// ProjectRoot is the ID of the virtual root used when a collected graph
// has no root artifact.
const ProjectRoot = "__project__"

// Node metadata keys set by [FromDependencies].
const (
	MetaScope      = "scope"
	MetaOptional   = "optional"
	MetaRepository = "repository"
	MetaVirtual    = "virtual"
)

// FromDependencies converts a collected dependency tree into a graph keyed
// by coordinate. Nodes that appear more than once in the tree are merged;
// cycles the merge produces are broken and rows are assigned by longest
// path. A nil root yields an empty graph.
func FromDependencies(root *repository.DependencyNode) *DAG {
	g := New(nil)
	if root == nil {
		return g
	}

	id := func(n *repository.DependencyNode) string {
		if n.Dependency.IsZero() {
			return ProjectRoot
		}
		return n.Dependency.Artifact.String()
	}

	root.Walk(func(n *repository.DependencyNode, depth int) bool {
		meta := Metadata{}
		if n.Dependency.IsZero() {
			meta[MetaVirtual] = true
		} else {
			if n.Dependency.Scope != "" {
				meta[MetaScope] = n.Dependency.Scope
			}
			if n.Dependency.Optional {
				meta[MetaOptional] = true
			}
			if !n.Repository.IsZero() {
				meta[MetaRepository] = n.Repository.ID
			}
		}
		if existing, ok := g.Node(id(n)); ok {
			maps.Copy(existing.Meta, meta)
		} else {
			_ = g.AddNode(Node{ID: id(n), Row: depth, Meta: meta})
		}
		for _, c := range n.Children {
			_ = g.AddNode(Node{ID: id(c), Row: depth + 1})
			_ = g.AddEdge(Edge{From: id(n), To: id(c)})
		}
		return true
	})

	g.BreakCycles()
	g.AssignLayers()
	return g
}
