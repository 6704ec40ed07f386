package repository

import (
	"github.com/matzehuels/fossrepo/pkg/artifact"
)

// ArtifactRequest asks for one artifact file.
type ArtifactRequest struct {
	Artifact     artifact.Coordinate
	Repositories []Repository
	Context      string
	Trace        Trace
}

// ArtifactResult is a resolved artifact. A result with a Path and non-empty
// Exceptions is successful with warnings.
type ArtifactResult struct {
	Request    ArtifactRequest     `json:"-"`
	Artifact   artifact.Coordinate `json:"artifact"`
	Repository Repository          `json:"repository"`
	Path       string              `json:"path,omitempty"`
	Exceptions []error             `json:"-"`
	Match      Match               `json:"match"`
}

// Resolved reports whether a file was found.
func (r *ArtifactResult) Resolved() bool { return r.Path != "" }

// Degraded reports whether the result is not an exact primary match.
func (r *ArtifactResult) Degraded() bool { return r.Match.Degraded() }

// ArtifactOutcome is one slot of a batch resolution.
type ArtifactOutcome struct {
	Result *ArtifactResult
	Err    error
}

// VersionRangeRequest asks for the versions matching a range.
type VersionRangeRequest struct {
	Artifact     artifact.Coordinate
	Repositories []Repository
	Context      string
	Trace        Trace
}

// VersionRangeResult lists matching versions in ascending order together
// with the repository each version was found in.
type VersionRangeResult struct {
	Request      VersionRangeRequest   `json:"-"`
	Versions     []string              `json:"versions"`
	Repositories map[string]Repository `json:"repositories,omitempty"`
	Exceptions   []error               `json:"-"`
	Match        Match                 `json:"match"`
}

// HighestVersion returns the last version, or "" when there is none.
func (r *VersionRangeResult) HighestVersion() string {
	if len(r.Versions) == 0 {
		return ""
	}
	return r.Versions[len(r.Versions)-1]
}

// Repository returns the repository bound to version.
func (r *VersionRangeResult) Repository(version string) (Repository, bool) {
	repo, ok := r.Repositories[version]
	return repo, ok
}

// SetRepository binds version to repo.
func (r *VersionRangeResult) SetRepository(version string, repo Repository) {
	if r.Repositories == nil {
		r.Repositories = make(map[string]Repository)
	}
	r.Repositories[version] = repo
}

// Degraded reports whether the result is not an exact primary match.
func (r *VersionRangeResult) Degraded() bool { return r.Match.Degraded() }

// DescriptorRequest asks for the descriptor of an artifact.
type DescriptorRequest struct {
	Artifact     artifact.Coordinate
	Repositories []Repository
	Context      string
	Trace        Trace
}

// DescriptorResult is a parsed artifact descriptor.
type DescriptorResult struct {
	Request             DescriptorRequest   `json:"-"`
	Artifact            artifact.Coordinate `json:"artifact"`
	Repository          Repository          `json:"repository"`
	Dependencies        []Dependency        `json:"dependencies,omitempty"`
	ManagedDependencies []Dependency        `json:"managedDependencies,omitempty"`
	Repositories        []Repository        `json:"repositories,omitempty"`
	Exceptions          []error             `json:"-"`
	Match               Match               `json:"match"`
}

// Degraded reports whether the result is not an exact primary match.
func (r *DescriptorResult) Degraded() bool { return r.Match.Degraded() }

// VersionRequest asks to turn LATEST/RELEASE into a concrete version.
type VersionRequest struct {
	Artifact     artifact.Coordinate
	Repositories []Repository
	Context      string
	Trace        Trace
}

// VersionResult is a resolved version.
type VersionResult struct {
	Request    VersionRequest `json:"-"`
	Version    string         `json:"version"`
	Repository Repository     `json:"repository"`
	Exceptions []error        `json:"-"`
}

// CollectRequest asks for the dependency graph below Root, or below the
// given direct Dependencies when Root is zero.
type CollectRequest struct {
	Root                Dependency
	Dependencies        []Dependency
	ManagedDependencies []Dependency
	Repositories        []Repository
	Context             string
	Trace               Trace
}

// CollectResult is a collected dependency graph.
type CollectResult struct {
	Request    CollectRequest  `json:"-"`
	Root       *DependencyNode `json:"root"`
	Exceptions []error         `json:"-"`
	Match      Match           `json:"match"`
}

// Degraded reports whether the graph did not come from the primary store.
func (r *CollectResult) Degraded() bool { return r.Match.Degraded() }

// DependencyRequest collects a graph and resolves every artifact in it.
type DependencyRequest struct {
	Collect CollectRequest
	// Filter limits which nodes are resolved. Nil resolves every node.
	Filter func(node *DependencyNode) bool
}

// DependencyResult is a collected and resolved graph.
type DependencyResult struct {
	Collect   *CollectResult
	Artifacts []ArtifactOutcome
}

// InstallRequest and DeployRequest name artifacts to publish.
type InstallRequest struct {
	Artifacts []artifact.Coordinate
}

type DeployRequest struct {
	Artifacts  []artifact.Coordinate
	Repository Repository
}
