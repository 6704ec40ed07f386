package repository

import (
	"net/url"
	"slices"

	"github.com/charmbracelet/log"
)

// NoMirror never redirects.
type NoMirror struct{}

func (NoMirror) Mirror(Repository) (Repository, bool) { return Repository{}, false }

// PrimaryMirror redirects every repository other than the primary to the
// primary, so declared repositories in descriptors never widen the set of
// stores that are contacted.
type PrimaryMirror struct {
	Primary Repository
	Logger  *log.Logger
}

// Mirror implements [MirrorSelector].
func (m PrimaryMirror) Mirror(repo Repository) (Repository, bool) {
	if repo == m.Primary {
		return Repository{}, false
	}
	if m.Logger != nil {
		m.Logger.Debug("redirecting repository to primary", "repository", repo.ID, "url", repo.URL, "primary", m.Primary.URL)
	}
	return m.Primary, true
}

// NoProxy connects directly.
type NoProxy struct{}

func (NoProxy) Proxy(Repository) *url.URL { return nil }

// NoAuthentication provides no credentials.
type NoAuthentication struct{}

func (NoAuthentication) Authentication(Repository) (Authentication, bool) {
	return Authentication{}, false
}

// StaticAuthentication hands out credentials by repository id.
type StaticAuthentication map[string]Authentication

func (a StaticAuthentication) Authentication(repo Repository) (Authentication, bool) {
	auth, ok := a[repo.ID]
	return auth, ok
}

// TypeRegistry is a map based [ArtifactTypeRegistry].
type TypeRegistry map[string]ArtifactType

// Get implements [ArtifactTypeRegistry].
func (r TypeRegistry) Get(id string) (ArtifactType, bool) {
	t, ok := r[id]
	return t, ok
}

// DefaultArtifactTypes returns the dependency types Maven knows out of the box.
func DefaultArtifactTypes() TypeRegistry {
	types := []ArtifactType{
		{ID: "jar", Extension: "jar"},
		{ID: "pom", Extension: "pom"},
		{ID: "bundle", Extension: "jar"},
		{ID: "maven-plugin", Extension: "jar"},
		{ID: "ejb", Extension: "jar"},
		{ID: "ejb-client", Extension: "jar", Classifier: "client"},
		{ID: "test-jar", Extension: "jar", Classifier: "tests"},
		{ID: "javadoc", Extension: "jar", Classifier: "javadoc"},
		{ID: "java-source", Extension: "jar", Classifier: "sources"},
		{ID: "war", Extension: "war"},
		{ID: "ear", Extension: "ear"},
		{ID: "rar", Extension: "rar"},
		{ID: "so", Extension: "so"},
	}
	r := make(TypeRegistry, len(types))
	for _, t := range types {
		r[t.ID] = t
	}
	return r
}

// TraverseAll descends into every dependency.
type TraverseAll struct{}

func (TraverseAll) Traverse(Dependency) bool { return true }

// ManagedVersions fills a missing version or scope from the first managed
// dependency with the same group and name.
type ManagedVersions struct{}

func (ManagedVersions) Manage(dep Dependency, managed []Dependency) Dependency {
	for _, m := range managed {
		if m.Artifact.Group != dep.Artifact.Group || m.Artifact.Name != dep.Artifact.Name {
			continue
		}
		if dep.Artifact.Version == "" {
			dep.Artifact.Version = m.Artifact.Version
		}
		if dep.Scope == "" {
			dep.Scope = m.Scope
		}
		break
	}
	return dep
}

// ScopeSelector drops dependencies in excluded scopes and, optionally,
// optional dependencies.
type ScopeSelector struct {
	Exclude      []string
	SkipOptional bool
}

// DefaultScopeSelector excludes test, provided and system scope as well as
// optional dependencies.
func DefaultScopeSelector() ScopeSelector {
	return ScopeSelector{Exclude: []string{"test", "provided", "system"}, SkipOptional: true}
}

func (s ScopeSelector) Select(dep Dependency) bool {
	if s.SkipOptional && dep.Optional {
		return false
	}
	return !slices.Contains(s.Exclude, dep.Scope)
}

// NoTransform returns the graph unchanged.
type NoTransform struct{}

func (NoTransform) Transform(root *DependencyNode) (*DependencyNode, error) { return root, nil }
