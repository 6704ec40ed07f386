package repository

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

// Properties is a string property map.
type Properties map[string]string

// LocalArtifactRequest asks a local store for one artifact.
type LocalArtifactRequest struct {
	Artifact     artifact.Coordinate
	Repositories []Repository
	Context      string
}

// LocalArtifactResult is the answer of a local store. Path is empty and
// Available false when the store does not hold the artifact.
type LocalArtifactResult struct {
	Request    LocalArtifactRequest
	Path       string
	Available  bool
	Repository Repository
}

// MetadataRequest names a repository metadata document (maven-metadata.xml)
// for a coordinate.
type MetadataRequest struct {
	Artifact artifact.Coordinate
	Type     string
}

// LocalMetadataResult is the answer of a local store for metadata.
type LocalMetadataResult struct {
	Request MetadataRequest
	Path    string
}

// LocalRepositoryManager is the local store a session resolves against
// before touching any remote repository.
type LocalRepositoryManager interface {
	// Repository identifies the local store.
	Repository() Repository
	// Find looks an artifact up. Not found is a result, not an error.
	Find(ctx context.Context, req LocalArtifactRequest) LocalArtifactResult
	// FindVersions lists the versions the store can satisfy.
	FindVersions(ctx context.Context, c artifact.Coordinate) []string
	// FindMetadata looks a metadata document up.
	FindMetadata(ctx context.Context, req MetadataRequest) LocalMetadataResult
}

// MirrorSelector redirects a repository to a mirror.
type MirrorSelector interface {
	Mirror(repo Repository) (Repository, bool)
}

// ProxySelector picks an HTTP proxy for a repository; nil means direct.
type ProxySelector interface {
	Proxy(repo Repository) *url.URL
}

// Authentication holds credentials for a repository.
type Authentication struct {
	Username string
	Password string
}

// AuthenticationSelector picks credentials for a repository.
type AuthenticationSelector interface {
	Authentication(repo Repository) (Authentication, bool)
}

// ArtifactType maps a dependency type ("test-jar") to file naming.
type ArtifactType struct {
	ID         string
	Extension  string
	Classifier string
}

// ArtifactTypeRegistry looks artifact types up by id.
type ArtifactTypeRegistry interface {
	Get(id string) (ArtifactType, bool)
}

// DependencyTraverser decides whether the children of a dependency are
// collected.
type DependencyTraverser interface {
	Traverse(dep Dependency) bool
}

// DependencyManager applies dependency management to a dependency.
type DependencyManager interface {
	Manage(dep Dependency, managed []Dependency) Dependency
}

// DependencySelector decides whether a dependency is included at all.
type DependencySelector interface {
	Select(dep Dependency) bool
}

// DependencyGraphTransformer post-processes a collected graph.
type DependencyGraphTransformer interface {
	Transform(root *DependencyNode) (*DependencyNode, error)
}

// SessionData is a concurrency-safe bag shared by a session and every
// session derived from it.
type SessionData struct {
	mu sync.RWMutex
	m  map[any]any
}

// NewSessionData returns an empty bag.
func NewSessionData() *SessionData {
	return &SessionData{m: make(map[any]any)}
}

// Get returns the value stored under key.
func (d *SessionData) Get(key any) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.m[key]
	return v, ok
}

// Set stores v under key.
func (d *SessionData) Set(key, v any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m[key] = v
}

// Session carries the collaborators a resolution call needs. Sessions are
// caller-owned and read-only during resolution; use [Session.Derive] to
// change a field.
type Session struct {
	Offline bool

	LocalRepositoryManager LocalRepositoryManager

	SystemProperties Properties
	UserProperties   Properties
	ConfigProperties Properties

	MirrorSelector         MirrorSelector
	ProxySelector          ProxySelector
	AuthenticationSelector AuthenticationSelector

	ArtifactTypeRegistry       ArtifactTypeRegistry
	DependencyTraverser        DependencyTraverser
	DependencyManager          DependencyManager
	DependencySelector         DependencySelector
	DependencyGraphTransformer DependencyGraphTransformer

	Data *SessionData
}

// NewSession returns a session over lrm with default collaborators for
// every other field.
func NewSession(lrm LocalRepositoryManager) *Session {
	return &Session{
		LocalRepositoryManager:     lrm,
		SystemProperties:           Properties{},
		UserProperties:             Properties{},
		ConfigProperties:           Properties{},
		MirrorSelector:             NoMirror{},
		ProxySelector:              NoProxy{},
		AuthenticationSelector:     NoAuthentication{},
		ArtifactTypeRegistry:       DefaultArtifactTypes(),
		DependencyTraverser:        TraverseAll{},
		DependencyManager:          ManagedVersions{},
		DependencySelector:         DefaultScopeSelector(),
		DependencyGraphTransformer: NoTransform{},
		Data:                       NewSessionData(),
	}
}

// Derive returns a shallow copy of s. The copy shares Data with s.
func (s *Session) Derive() *Session {
	c := *s
	return &c
}

// SessionError reports every missing session field.
type SessionError struct {
	// Missing lists field names in declaration order. It is empty when
	// the session itself is nil.
	Missing []string
}

func (e *SessionError) Error() string {
	if len(e.Missing) == 0 {
		return "invalid repository system session: the session may not be nil"
	}
	parts := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		parts[i] = name + " is not set"
	}
	return "invalid repository system session: " + strings.Join(parts, "; ")
}

// ErrorCode implements errors.Coder.
func (e *SessionError) ErrorCode() errors.Code { return errors.ErrCodeSessionInvalid }

// ValidateSession checks that every required field of s is set. The
// returned *SessionError names each missing field.
func ValidateSession(s *Session) error {
	if s == nil {
		return &SessionError{}
	}
	checks := []struct {
		name string
		set  bool
	}{
		{"LocalRepositoryManager", s.LocalRepositoryManager != nil},
		{"SystemProperties", s.SystemProperties != nil},
		{"UserProperties", s.UserProperties != nil},
		{"ConfigProperties", s.ConfigProperties != nil},
		{"MirrorSelector", s.MirrorSelector != nil},
		{"ProxySelector", s.ProxySelector != nil},
		{"AuthenticationSelector", s.AuthenticationSelector != nil},
		{"ArtifactTypeRegistry", s.ArtifactTypeRegistry != nil},
		{"DependencyTraverser", s.DependencyTraverser != nil},
		{"DependencyManager", s.DependencyManager != nil},
		{"DependencySelector", s.DependencySelector != nil},
		{"DependencyGraphTransformer", s.DependencyGraphTransformer != nil},
		{"Data", s.Data != nil},
	}
	var missing []string
	for _, c := range checks {
		if !c.set {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return &SessionError{Missing: missing}
	}
	return nil
}
