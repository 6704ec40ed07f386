package repository

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

var lib10 = artifact.New("org.example", "lib", "1.0")

func TestResolveArtifactPrimary(t *testing.T) {
	d := newFakeDelegate(t)
	d.files[lib10] = "/srv/primary/org/example/lib/1.0/lib-1.0.jar"
	secondary := newMemStore(map[string]string{"org.example:lib.jar": "/usr/share/maven/repository/org.example/lib.jar"})
	s := newTestSystem(t, d, secondary)

	res, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10, Context: "project"})
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if res.Match != MatchExact || res.Degraded() {
		t.Errorf("Match = %v, want exact", res.Match)
	}
	if res.Repository != testPrimary {
		t.Errorf("Repository = %v, want %v", res.Repository, testPrimary)
	}
	if res.Request.Context != "project" {
		t.Errorf("Request.Context = %q, want project", res.Request.Context)
	}
	if got := d.callCount(); got != 1 {
		t.Errorf("delegate calls = %d, want 1", got)
	}
	if got := secondary.findCount(); got != 0 {
		t.Errorf("secondary store consulted %d times, want 0", got)
	}
}

func TestResolveArtifactLatest(t *testing.T) {
	d := newFakeDelegate(t)
	d.files[lib10.WithVersion(artifact.Latest)] = "/srv/primary/lib-2.0.jar"
	s := newTestSystem(t, d, nil)

	res, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10})
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if res.Match != MatchLatest || !res.Degraded() {
		t.Errorf("Match = %v, want latest", res.Match)
	}
	if got, want := d.versions(), []string{"1.0", "LATEST"}; !reflect.DeepEqual(got, want) {
		t.Errorf("attempted versions = %v, want %v", got, want)
	}
}

func TestResolveArtifactReleaseRetriesLatest(t *testing.T) {
	d := newFakeDelegate(t)
	d.files[lib10.WithVersion(artifact.Latest)] = "/srv/primary/lib-2.0.jar"
	s := newTestSystem(t, d, nil)

	res, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10.WithVersion(artifact.Release)})
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if res.Match != MatchLatest {
		t.Errorf("Match = %v, want latest", res.Match)
	}
	if got, want := d.versions(), []string{"RELEASE", "LATEST"}; !reflect.DeepEqual(got, want) {
		t.Errorf("attempted versions = %v, want %v", got, want)
	}
}

func TestResolveArtifactLatestRequested(t *testing.T) {
	latest := lib10.WithVersion(artifact.Latest)
	d := newFakeDelegate(t)
	d.files[latest] = "/srv/primary/lib-2.0.jar"
	secondary := newMemStore(nil)
	s := newTestSystem(t, d, secondary)

	res, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: latest})
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if res.Match != MatchExact {
		t.Errorf("Match = %v, want exact", res.Match)
	}
	if got := d.callCount(); got != 1 {
		t.Errorf("delegate calls = %d, want 1", got)
	}
	if got := secondary.findCount(); got != 0 {
		t.Errorf("secondary store consulted %d times, want 0", got)
	}
}

func TestResolveArtifactSkipsLatestRetry(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    []string
	}{
		{"LATEST", artifact.Latest, []string{"LATEST", "LATEST"}},
		{"empty", "", []string{"", ""}},
		{"concrete", "1.0", []string{"1.0", "LATEST", "1.0"}},
		{"RELEASE", artifact.Release, []string{"RELEASE", "LATEST", "RELEASE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDelegate(t)
			s := newTestSystem(t, d, newMemStore(nil))
			_, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10.WithVersion(tt.version)})
			if err == nil {
				t.Fatal("ResolveArtifact() succeeded, want error")
			}
			if got := d.versions(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("attempted versions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveArtifactSecondary(t *testing.T) {
	d := newFakeDelegate(t)
	secondary := newMemStore(map[string]string{"org.example:lib.jar": "/usr/share/maven/repository/org.example/lib.jar"})
	s := newTestSystem(t, d, secondary)
	sess := testSession()

	res, err := s.ResolveArtifact(context.Background(), sess, ArtifactRequest{Artifact: lib10})
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if res.Match != MatchSecondary || !res.Degraded() {
		t.Errorf("Match = %v, want secondary", res.Match)
	}
	if res.Artifact.Version != "1.0" {
		t.Errorf("Artifact.Version = %q, want 1.0", res.Artifact.Version)
	}
	if res.Repository != testSecondaryRepo {
		t.Errorf("Repository = %v, want %v", res.Repository, testSecondaryRepo)
	}
	if res.Path != "/usr/share/maven/repository/org.example/lib.jar" {
		t.Errorf("Path = %q", res.Path)
	}

	d.mu.Lock()
	last := d.calls[len(d.calls)-1]
	d.mu.Unlock()
	if !last.offline || last.coord != lib10 {
		t.Errorf("secondary attempt = %+v, want offline request for %s", last, lib10)
	}
	if sess.Offline {
		t.Error("caller session was switched offline")
	}
	if _, ok := sess.LocalRepositoryManager.(*memStore); !ok || sess.LocalRepositoryManager == LocalRepositoryManager(secondary) {
		t.Error("caller session local repository was replaced")
	}
}

func TestResolveArtifactExhausted(t *testing.T) {
	first := errors.New(errors.ErrCodeNetwork, "primary unreachable")
	d := newFakeDelegate(t)
	d.errs[lib10] = first
	s := newTestSystem(t, d, newMemStore(nil))

	_, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10})
	if err == nil {
		t.Fatal("ResolveArtifact() succeeded, want error")
	}
	var rerr *ResolutionError
	if !stderrors.As(err, &rerr) {
		t.Fatalf("error = %T, want *ResolutionError", err)
	}
	if !errors.Is(err, errors.ErrCodeResolutionExhausted) {
		t.Errorf("error code = %v, want RESOLUTION_EXHAUSTED", errors.GetCode(err))
	}
	if !stderrors.Is(err, first) {
		t.Errorf("error %v does not wrap the first cause", err)
	}
	if len(rerr.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(rerr.Attempts))
	}
	for i, want := range []Attempt{AttemptPrimary, AttemptLatest, AttemptSecondary} {
		if rerr.Attempts[i].Attempt != want {
			t.Errorf("Attempts[%d] = %s, want %s", i, rerr.Attempts[i].Attempt, want)
		}
	}
	if rerr.Attempts[2].Repository != testSecondaryRepo {
		t.Errorf("secondary attempt repository = %v", rerr.Attempts[2].Repository)
	}
	var aerr *AttemptError
	if !stderrors.As(err, &aerr) || aerr.Attempt != AttemptPrimary {
		t.Errorf("cause attempt = %v, want primary", aerr)
	}
}

func TestResolveArtifactPromotesLaterCause(t *testing.T) {
	warning := stderrors.New("checksum mismatch")
	d := newFakeDelegate(t)
	d.files[lib10] = "/srv/primary/lib-1.0.jar"
	d.notes[lib10] = []error{warning}
	s := newTestSystem(t, d, nil)

	_, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10})
	var rerr *ResolutionError
	if !stderrors.As(err, &rerr) {
		t.Fatalf("error = %v, want *ResolutionError", err)
	}
	if !rerr.Attempts[0].Declined {
		t.Error("primary attempt with exceptions should be recorded as declined")
	}
	cause, ok := rerr.Cause().(*AttemptError)
	if !ok || cause.Attempt != AttemptLatest {
		t.Errorf("Cause() = %v, want the latest attempt's error", rerr.Cause())
	}
}

func TestResolveArtifactNotImplementedCause(t *testing.T) {
	d := newFakeDelegate(t)
	d.files[lib10] = "/srv/primary/lib-1.0.jar"
	d.notes[lib10] = []error{stderrors.New("bad")}
	d.files[lib10.WithVersion(artifact.Latest)] = "/srv/primary/lib-2.0.jar"
	d.notes[lib10.WithVersion(artifact.Latest)] = []error{stderrors.New("worse")}
	s := newTestSystem(t, d, nil)

	_, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10})
	if !stderrors.Is(err, ErrNotImplemented) {
		t.Errorf("error = %v, want ErrNotImplemented cause", err)
	}
	if !errors.Is(err, errors.ErrCodeNotImplemented) {
		t.Errorf("error code chain misses NOT_IMPLEMENTED: %v", err)
	}
}

// Artifact lookups accept a secondary result that carries exceptions;
// descriptor lookups do not.
func TestSecondaryExceptionAsymmetry(t *testing.T) {
	d := newFakeDelegate(t)
	d.offlineNote = []error{stderrors.New("found with warnings")}
	secondary := newMemStore(map[string]string{
		"org.example:lib.jar": "/usr/share/maven/repository/org.example/lib.jar",
		"org.example:lib.pom": "/usr/share/maven-poms/org.example-lib.pom",
	})
	s := newTestSystem(t, d, secondary)
	ctx := context.Background()

	res, err := s.ResolveArtifact(ctx, testSession(), ArtifactRequest{Artifact: lib10})
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if res.Match != MatchSecondary || len(res.Exceptions) != 1 {
		t.Errorf("ResolveArtifact() = %v with %d exceptions, want secondary with 1", res.Match, len(res.Exceptions))
	}

	_, err = s.ReadDescriptor(ctx, testSession(), DescriptorRequest{Artifact: lib10})
	if err == nil {
		t.Fatal("ReadDescriptor() accepted a secondary result with exceptions")
	}
	var rerr *ResolutionError
	if !stderrors.As(err, &rerr) {
		t.Fatalf("error = %T, want *ResolutionError", err)
	}
	last := rerr.Attempts[len(rerr.Attempts)-1]
	if last.Attempt != AttemptSecondary || !last.Declined {
		t.Errorf("last attempt = %+v, want declined secondary", last)
	}
}

func TestResolveArtifactInvariantViolationIsHard(t *testing.T) {
	violation := errors.New(errors.ErrCodeInvariantViolation, "two repositories")
	d := newFakeDelegate(t)
	d.errs[lib10] = violation
	s := newTestSystem(t, d, newMemStore(nil))

	_, err := s.ResolveArtifact(context.Background(), testSession(), ArtifactRequest{Artifact: lib10})
	if err != violation {
		t.Errorf("error = %v, want the invariant violation itself", err)
	}
	if got := d.callCount(); got != 1 {
		t.Errorf("delegate calls = %d, want 1 (no retry)", got)
	}
}

func TestResolveArtifactCancelled(t *testing.T) {
	d := newFakeDelegate(t)
	s := newTestSystem(t, d, newMemStore(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ResolveArtifact(ctx, testSession(), ArtifactRequest{Artifact: lib10})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if got := d.callCount(); got != 0 {
		t.Errorf("delegate calls = %d, want 0", got)
	}
}

func TestResolveArtifactInvalidSession(t *testing.T) {
	d := newFakeDelegate(t)
	secondary := newMemStore(nil)
	s := newTestSystem(t, d, secondary)
	sess := testSession()
	sess.LocalRepositoryManager = nil

	_, err := s.ResolveArtifact(context.Background(), sess, ArtifactRequest{Artifact: lib10})
	if !errors.Is(err, errors.ErrCodeSessionInvalid) {
		t.Fatalf("error = %v, want SESSION_INVALID", err)
	}
	if !strings.Contains(err.Error(), "LocalRepositoryManager") {
		t.Errorf("error %q does not name LocalRepositoryManager", err)
	}
	if d.callCount() != 0 || secondary.findCount() != 0 {
		t.Error("a store was touched before session validation")
	}
}

func TestResolveArtifactIdempotent(t *testing.T) {
	d := newFakeDelegate(t)
	secondary := newMemStore(map[string]string{"org.example:lib.jar": "/usr/share/maven/repository/org.example/lib.jar"})
	s := newTestSystem(t, d, secondary)
	req := ArtifactRequest{Artifact: lib10, Trace: Trace{ID: "t1"}}

	first, err := s.ResolveArtifact(context.Background(), testSession(), req)
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	second, err := s.ResolveArtifact(context.Background(), testSession(), req)
	if err != nil {
		t.Fatalf("ResolveArtifact() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestResolveArtifacts(t *testing.T) {
	good := artifact.New("org.example", "good", "1.0")
	other := artifact.New("org.example", "other", "2.0")
	d := newFakeDelegate(t)
	d.files[good] = "/srv/primary/good.jar"
	d.files[other] = "/srv/primary/other.jar"
	s := newTestSystem(t, d, nil)

	reqs := []ArtifactRequest{{Artifact: good}, {Artifact: lib10}, {Artifact: other}}
	out, err := s.ResolveArtifacts(context.Background(), testSession(), reqs)
	if err == nil {
		t.Fatal("ResolveArtifacts() error = nil, want joined failure")
	}
	if len(out) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(out))
	}
	if out[0].Err != nil || out[0].Result.Path != "/srv/primary/good.jar" {
		t.Errorf("outcome[0] = %+v", out[0])
	}
	if out[1].Err == nil || out[1].Result != nil {
		t.Errorf("outcome[1] = %+v, want error", out[1])
	}
	if out[2].Err != nil || out[2].Result.Path != "/srv/primary/other.jar" {
		t.Errorf("outcome[2] = %+v", out[2])
	}
	if !stderrors.Is(err, out[1].Err) {
		t.Errorf("joined error does not contain the failed slot")
	}

	if _, err := s.ResolveArtifacts(context.Background(), nil, reqs); !errors.Is(err, errors.ErrCodeSessionInvalid) {
		t.Errorf("ResolveArtifacts(nil session) error = %v, want SESSION_INVALID", err)
	}
}

func TestNew(t *testing.T) {
	d := newFakeDelegate(t)
	tests := []struct {
		name     string
		delegate Delegate
		cfg      Config
		wantErr  bool
	}{
		{"defaults", d, Config{}, false},
		{"nil delegate", nil, Config{}, true},
		{"secondary without store", d, Config{UseSecondary: true}, true},
		{"primary without url", d, Config{Primary: Repository{ID: "x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.delegate, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.Primary() != PrimaryRepository("") {
				t.Errorf("Primary() = %v, want default", s.Primary())
			}
		})
	}
}

func TestCheckBinding(t *testing.T) {
	s := newTestSystem(t, newFakeDelegate(t), nil)
	other := Repository{ID: "central", Layout: LayoutDefault, URL: "https://repo.maven.apache.org/maven2"}
	tests := []struct {
		name  string
		repos []Repository
		ok    bool
	}{
		{"primary", []Repository{testPrimary}, true},
		{"empty", nil, false},
		{"two", []Repository{testPrimary, testPrimary}, false},
		{"mismatch", []Repository{other}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.checkBinding("test", tt.repos)
			if (err == nil) != tt.ok {
				t.Fatalf("checkBinding() error = %v, want ok %v", err, tt.ok)
			}
			if err != nil && !isHard(context.Background(), err) {
				t.Error("binding violation is not a hard failure")
			}
		})
	}
}
