package repository

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

var testPrimary = PrimaryRepository("file:/srv/primary")

var testSecondaryRepo = Repository{ID: "javadir", Layout: LayoutLocal, URL: "file:/usr/share/java"}

// memStore is an in-memory local repository keyed by group:name.extension,
// ignoring versions like the javadir layout does.
type memStore struct {
	mu    sync.Mutex
	paths map[string]string
	finds int
}

func newMemStore(paths map[string]string) *memStore {
	return &memStore{paths: paths}
}

func (m *memStore) Repository() Repository { return testSecondaryRepo }

func (m *memStore) Find(_ context.Context, req LocalArtifactRequest) LocalArtifactResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	res := LocalArtifactResult{Request: req, Repository: testSecondaryRepo}
	if p, ok := m.paths[req.Artifact.Key()+"."+req.Artifact.Extension]; ok {
		res.Path = p
		res.Available = true
	}
	return res
}

func (m *memStore) FindVersions(context.Context, artifact.Coordinate) []string {
	return []string{"latest"}
}

func (m *memStore) FindMetadata(_ context.Context, req MetadataRequest) LocalMetadataResult {
	return LocalMetadataResult{Request: req}
}

func (m *memStore) findCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finds
}

type fakeCall struct {
	op      string
	coord   artifact.Coordinate
	offline bool
}

// fakeDelegate stands in for the primary store. Online it serves the
// artifacts and descriptors it was given; offline it answers from the
// session's local repository, like a real Maven resolver would.
type fakeDelegate struct {
	t *testing.T

	files       map[artifact.Coordinate]string
	notes       map[artifact.Coordinate][]error
	errs        map[artifact.Coordinate]error
	offlineNote []error
	offlineDeps []Dependency

	descriptors map[artifact.Coordinate][]Dependency

	versionRange func(sess *Session, req VersionRangeRequest) (*VersionRangeResult, error)
	collect      func(sess *Session, req CollectRequest) (*CollectResult, error)
	version      func(sess *Session, req VersionRequest) (*VersionResult, error)

	mu    sync.Mutex
	calls []fakeCall
}

func newFakeDelegate(t *testing.T) *fakeDelegate {
	return &fakeDelegate{
		t:           t,
		files:       make(map[artifact.Coordinate]string),
		notes:       make(map[artifact.Coordinate][]error),
		errs:        make(map[artifact.Coordinate]error),
		descriptors: make(map[artifact.Coordinate][]Dependency),
	}
}

func (d *fakeDelegate) record(op string, sess *Session, c artifact.Coordinate, repos []Repository) {
	d.t.Helper()
	if len(repos) != 1 || repos[0] != testPrimary {
		d.t.Errorf("%s(%s) bound to %v, want exactly [%v]", op, c, repos, testPrimary)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fakeCall{op: op, coord: c, offline: sess.Offline})
}

func (d *fakeDelegate) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *fakeDelegate) versions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.coord.Version
	}
	return out
}

func notFound(c artifact.Coordinate) error {
	return errors.New(errors.ErrCodeNotFound, "%s not found", c)
}

func (d *fakeDelegate) ResolveArtifact(_ context.Context, sess *Session, req ArtifactRequest) (*ArtifactResult, error) {
	c := req.Artifact
	d.record("artifact", sess, c, req.Repositories)
	if sess.Offline {
		local := sess.LocalRepositoryManager.Find(context.Background(), LocalArtifactRequest{Artifact: c})
		if !local.Available {
			return nil, notFound(c)
		}
		return &ArtifactResult{Artifact: c, Repository: local.Repository, Path: local.Path, Exceptions: d.offlineNote}, nil
	}
	if err, ok := d.errs[c]; ok {
		return nil, err
	}
	p, ok := d.files[c]
	if !ok {
		return nil, notFound(c)
	}
	return &ArtifactResult{Artifact: c, Repository: testPrimary, Path: p, Exceptions: d.notes[c]}, nil
}

func (d *fakeDelegate) ReadDescriptor(_ context.Context, sess *Session, req DescriptorRequest) (*DescriptorResult, error) {
	c := req.Artifact
	d.record("descriptor", sess, c, req.Repositories)
	if sess.Offline {
		local := sess.LocalRepositoryManager.Find(context.Background(), LocalArtifactRequest{Artifact: c.Descriptor()})
		if !local.Available {
			return nil, notFound(c)
		}
		return &DescriptorResult{Artifact: c, Repository: local.Repository, Dependencies: d.offlineDeps, Exceptions: d.offlineNote}, nil
	}
	if err, ok := d.errs[c]; ok {
		return nil, err
	}
	deps, ok := d.descriptors[c]
	if !ok {
		return nil, notFound(c)
	}
	return &DescriptorResult{Artifact: c, Repository: testPrimary, Dependencies: deps, Exceptions: d.notes[c]}, nil
}

func (d *fakeDelegate) ResolveVersionRange(_ context.Context, sess *Session, req VersionRangeRequest) (*VersionRangeResult, error) {
	d.record("range", sess, req.Artifact, req.Repositories)
	if d.versionRange == nil {
		return &VersionRangeResult{}, nil
	}
	return d.versionRange(sess, req)
}

func (d *fakeDelegate) CollectDependencies(_ context.Context, sess *Session, req CollectRequest) (*CollectResult, error) {
	d.record("collect", sess, req.Root.Artifact, req.Repositories)
	if d.collect == nil {
		return nil, notFound(req.Root.Artifact)
	}
	return d.collect(sess, req)
}

func (d *fakeDelegate) ResolveVersion(_ context.Context, sess *Session, req VersionRequest) (*VersionResult, error) {
	d.record("version", sess, req.Artifact, req.Repositories)
	if d.version == nil {
		return nil, notFound(req.Artifact)
	}
	return d.version(sess, req)
}

type fakeElider map[string]bool

func (e fakeElider) ShouldElide(group, name, _ string) bool { return e[group+":"+name] }

func newTestSystem(t *testing.T, d *fakeDelegate, secondary LocalRepositoryManager) *System {
	t.Helper()
	cfg := Config{Primary: testPrimary, Logger: log.New(io.Discard)}
	if secondary != nil {
		cfg.UseSecondary = true
		cfg.Secondary = secondary
	}
	s, err := New(d, cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

// testSession returns a valid online session over an empty local store.
func testSession() *Session {
	return NewSession(newMemStore(nil))
}
