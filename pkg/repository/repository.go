package repository

import (
	"fmt"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

// Well-known repository identities.
const (
	PrimaryID         = "foss"
	DefaultPrimaryURL = "file:/usr/share/maven/repository"

	LayoutDefault = "default"
	LayoutLocal   = "local"
)

// Repository identifies one backing store. It is a comparable value.
type Repository struct {
	ID     string `json:"id"`
	Layout string `json:"layout"`
	URL    string `json:"url"`
}

// PrimaryRepository returns the primary store at url. An empty url selects
// [DefaultPrimaryURL].
func PrimaryRepository(url string) Repository {
	if url == "" {
		url = DefaultPrimaryURL
	}
	return Repository{ID: PrimaryID, Layout: LayoutDefault, URL: url}
}

// String renders "id (url)".
func (r Repository) String() string {
	return fmt.Sprintf("%s (%s)", r.ID, r.URL)
}

// IsZero reports whether r is unset.
func (r Repository) IsZero() bool { return r == Repository{} }

// Match describes how a successful result was obtained.
type Match int

const (
	// MatchExact is the requested coordinate from the primary store.
	MatchExact Match = iota
	// MatchLatest is the primary store's LATEST version of the coordinate.
	MatchLatest
	// MatchSecondary came from the javadir store.
	MatchSecondary
)

// String returns "exact", "latest" or "secondary".
func (m Match) String() string {
	switch m {
	case MatchLatest:
		return "latest"
	case MatchSecondary:
		return "secondary"
	default:
		return "exact"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Match) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It accepts exactly the
// names String produces.
func (m *Match) UnmarshalText(text []byte) error {
	switch string(text) {
	case "exact":
		*m = MatchExact
	case "latest":
		*m = MatchLatest
	case "secondary":
		*m = MatchSecondary
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown match %q", text)
	}
	return nil
}

// Degraded reports whether m is anything but an exact match.
func (m Match) Degraded() bool { return m != MatchExact }

// Trace is opaque request provenance. The engine copies it to every
// downstream request and never inspects it.
type Trace struct {
	ID     string `json:"id,omitempty"`
	Parent *Trace `json:"parent,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Child returns a trace whose parent is t.
func (t Trace) Child(id string, data any) Trace {
	parent := t
	return Trace{ID: id, Parent: &parent, Data: data}
}

// Dependency is an edge in a dependency graph.
type Dependency struct {
	Artifact artifact.Coordinate `json:"artifact"`
	Scope    string              `json:"scope,omitempty"`
	Optional bool                `json:"optional,omitempty"`
}

// IsZero reports whether d is unset.
func (d Dependency) IsZero() bool { return d == Dependency{} }

// DependencyNode is one node of a collected dependency graph.
type DependencyNode struct {
	Dependency Dependency        `json:"dependency"`
	Repository Repository        `json:"repository"`
	Children   []*DependencyNode `json:"children,omitempty"`
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *DependencyNode) Walk(fn func(node *DependencyNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *DependencyNode) walk(fn func(*DependencyNode, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
