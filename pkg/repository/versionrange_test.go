package repository

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
)

func rangeResult(bound bool, versions ...string) func(*Session, VersionRangeRequest) (*VersionRangeResult, error) {
	return func(_ *Session, req VersionRangeRequest) (*VersionRangeResult, error) {
		res := &VersionRangeResult{Versions: versions}
		if bound && len(versions) > 0 {
			res.SetRepository(versions[len(versions)-1], req.Repositories[0])
		}
		return res, nil
	}
}

func TestResolveVersionRange(t *testing.T) {
	ranged := artifact.New("org.example", "lib", "[1.0,2.0)")
	probeErr := errors.New(errors.ErrCodeNetwork, "descriptor read failed")

	tests := []struct {
		name         string
		rangeFn      func(*Session, VersionRangeRequest) (*VersionRangeResult, error)
		descriptors  []artifact.Coordinate
		probeErr     bool
		secondary    bool
		wantVersions []string
		wantRepo     Repository
		wantMatch    Match
		wantErr      bool
		wantProbe    bool
	}{
		{
			name:         "bound by primary",
			rangeFn:      rangeResult(true, "1.0", "1.5"),
			secondary:    true,
			wantVersions: []string{"1.0", "1.5"},
			wantRepo:     testPrimary,
		},
		{
			name:         "probe binds primary",
			rangeFn:      rangeResult(false, "1.0", "1.5"),
			descriptors:  []artifact.Coordinate{ranged.WithVersion("1.5")},
			secondary:    true,
			wantVersions: []string{"1.0", "1.5"},
			wantRepo:     testPrimary,
			wantProbe:    true,
		},
		{
			name:         "probe miss falls to secondary",
			rangeFn:      rangeResult(false, "1.0", "1.5"),
			secondary:    true,
			wantVersions: []string{"1.0", "1.5"},
			wantRepo:     testSecondaryRepo,
			wantMatch:    MatchSecondary,
			wantProbe:    true,
		},
		{
			name:         "probe miss without secondary",
			rangeFn:      rangeResult(false, "1.0", "1.5"),
			wantVersions: []string{"1.0", "1.5"},
			wantProbe:    true,
		},
		{
			name:         "empty range uses secondary versions",
			rangeFn:      rangeResult(false),
			secondary:    true,
			wantVersions: []string{"latest"},
			wantRepo:     testSecondaryRepo,
			wantMatch:    MatchSecondary,
		},
		{
			name:    "empty range without secondary",
			rangeFn: rangeResult(false),
		},
		{
			name: "result with exceptions is probed",
			rangeFn: func(_ *Session, req VersionRangeRequest) (*VersionRangeResult, error) {
				res := &VersionRangeResult{Versions: []string{"1.2"}, Exceptions: []error{stderrors.New("stale metadata")}}
				res.SetRepository("1.2", req.Repositories[0])
				return res, nil
			},
			descriptors:  []artifact.Coordinate{ranged.WithVersion("1.2")},
			wantVersions: []string{"1.2"},
			wantRepo:     testPrimary,
			wantProbe:    true,
		},
		{
			name:      "probe error is returned",
			rangeFn:   rangeResult(false, "1.5"),
			probeErr:  true,
			secondary: true,
			wantErr:   true,
			wantProbe: true,
		},
		{
			name: "primary error",
			rangeFn: func(*Session, VersionRangeRequest) (*VersionRangeResult, error) {
				return nil, errors.New(errors.ErrCodeNetwork, "metadata unreachable")
			},
			secondary: true,
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDelegate(t)
			d.versionRange = tt.rangeFn
			for _, c := range tt.descriptors {
				d.descriptors[c] = nil
			}
			if tt.probeErr {
				d.errs[ranged.WithVersion("1.5")] = probeErr
			}
			var secondary LocalRepositoryManager
			if tt.secondary {
				secondary = newMemStore(nil)
			}
			s := newTestSystem(t, d, secondary)

			res, err := s.ResolveVersionRange(context.Background(), testSession(), VersionRangeRequest{Artifact: ranged})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveVersionRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			probed := false
			for _, c := range d.calls {
				probed = probed || c.op == "descriptor"
			}
			if probed != tt.wantProbe {
				t.Errorf("probed = %v, want %v", probed, tt.wantProbe)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(res.Versions, tt.wantVersions) {
				t.Errorf("Versions = %v, want %v", res.Versions, tt.wantVersions)
			}
			repo, _ := res.Repository(res.HighestVersion())
			if repo != tt.wantRepo {
				t.Errorf("Repository(%q) = %v, want %v", res.HighestVersion(), repo, tt.wantRepo)
			}
			if res.Match != tt.wantMatch {
				t.Errorf("Match = %v, want %v", res.Match, tt.wantMatch)
			}
			if res.Request.Artifact != ranged {
				t.Errorf("Request.Artifact = %v, want %v", res.Request.Artifact, ranged)
			}
		})
	}
}

func TestResolveVersionRangeProbeNotFound(t *testing.T) {
	d := newFakeDelegate(t)
	d.versionRange = rangeResult(false, "3.0")
	s := newTestSystem(t, d, nil)

	found, err := s.probe(context.Background(), testSession(), VersionRangeRequest{Artifact: lib10}, "3.0")
	if err != nil || found {
		t.Errorf("probe() = %v, %v, want false, nil", found, err)
	}
	found, err = s.probe(context.Background(), testSession(), VersionRangeRequest{Artifact: lib10}, "")
	if err != nil || found {
		t.Errorf("probe(empty) = %v, %v, want false, nil", found, err)
	}
	if got := d.callCount(); got != 1 {
		t.Errorf("delegate calls = %d, want 1", got)
	}
}
