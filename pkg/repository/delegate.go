package repository

import "context"

// ArtifactResolver resolves artifact files.
type ArtifactResolver interface {
	ResolveArtifact(ctx context.Context, s *Session, req ArtifactRequest) (*ArtifactResult, error)
}

// VersionRangeResolver lists versions matching a range.
type VersionRangeResolver interface {
	ResolveVersionRange(ctx context.Context, s *Session, req VersionRangeRequest) (*VersionRangeResult, error)
}

// DescriptorReader reads artifact descriptors.
type DescriptorReader interface {
	ReadDescriptor(ctx context.Context, s *Session, req DescriptorRequest) (*DescriptorResult, error)
}

// DependencyCollector builds dependency graphs.
type DependencyCollector interface {
	CollectDependencies(ctx context.Context, s *Session, req CollectRequest) (*CollectResult, error)
}

// VersionResolver resolves LATEST/RELEASE to concrete versions.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, s *Session, req VersionRequest) (*VersionResult, error)
}

// Delegate is the primary store collaborator. Every request it receives
// is bound to exactly one repository, the primary. It must honour the
// session's LocalRepositoryManager and Offline flag, which is how the
// secondary store is reached.
type Delegate interface {
	ArtifactResolver
	VersionRangeResolver
	DescriptorReader
	DependencyCollector
	VersionResolver
}
