package repository

import (
	"context"

	"github.com/matzehuels/fossrepo/pkg/artifact"
)

// CollectDependencies builds the dependency graph of req. Unlike the other
// operations the secondary store goes first: it is offline and cheap, and
// its answer only counts when it has a root and no exceptions. The primary
// store is tried after it.
func (s *System) CollectDependencies(ctx context.Context, sess *Session, req CollectRequest) (*CollectResult, error) {
	const op = "collect dependencies"
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}

	call := func(sess *Session, req CollectRequest, needRoot bool) func(context.Context) step[*CollectResult] {
		return func(ctx context.Context) step[*CollectResult] {
			down := req
			down.Repositories = s.primaryRepos()
			if err := s.checkBinding(op, down.Repositories); err != nil {
				return hard[*CollectResult](err)
			}
			res, err := s.delegate.CollectDependencies(ctx, sess, down)
			st := judge(ctx, res, err, false)
			if st.outcome == outcomeSuccess && needRoot && res.Root == nil {
				return soft[*CollectResult](nil)
			}
			return st
		}
	}

	var attempts []attempt[*CollectResult]
	if s.useSecondary {
		attempts = append(attempts, attempt[*CollectResult]{
			name: AttemptSecondary, repo: s.secondary.Repository(), run: call(s.openSecondary(sess), s.elide(req), true),
		})
	}
	attempts = append(attempts, attempt[*CollectResult]{
		name: AttemptPrimary, repo: s.primary, run: call(sess, req, false),
	})

	res, name, err := runAttempts(ctx, s, op, collectCoordinate(req), attempts)
	if err != nil {
		return nil, err
	}
	res.Request = req
	res.Match = matchFor(name)
	s.degraded(ctx, op, collectCoordinate(req), res.Match, s.secondaryRepo())
	return res, nil
}

// elide drops the direct dependencies the remap table marks for elision.
func (s *System) elide(req CollectRequest) CollectRequest {
	if s.elider == nil || len(req.Dependencies) == 0 {
		return req
	}
	kept := make([]Dependency, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		a := d.Artifact
		if s.elider.ShouldElide(a.Group, a.Name, a.Version) {
			s.logger.Debug("eliding dependency", "dependency", a)
			continue
		}
		kept = append(kept, d)
	}
	req.Dependencies = kept
	return req
}

func (s *System) secondaryRepo() Repository {
	if s.secondary == nil {
		return Repository{}
	}
	return s.secondary.Repository()
}

// collectCoordinate names a collect request in logs and errors.
func collectCoordinate(req CollectRequest) artifact.Coordinate {
	if !req.Root.IsZero() {
		return req.Root.Artifact
	}
	if len(req.Dependencies) > 0 {
		return req.Dependencies[0].Artifact
	}
	return artifact.Coordinate{}
}

// ResolveDependencies collects the graph of req.Collect and resolves the
// artifact of every node accepted by req.Filter. Artifact failures are
// recorded per node; the returned error joins them.
func (s *System) ResolveDependencies(ctx context.Context, sess *Session, req DependencyRequest) (*DependencyResult, error) {
	collected, err := s.CollectDependencies(ctx, sess, req.Collect)
	if err != nil {
		return nil, err
	}

	var reqs []ArtifactRequest
	seen := make(map[artifact.Coordinate]bool)
	collected.Root.Walk(func(n *DependencyNode, _ int) bool {
		a := n.Dependency.Artifact
		if a.Name == "" || seen[a] {
			return true
		}
		if req.Filter != nil && !req.Filter(n) {
			return true
		}
		seen[a] = true
		reqs = append(reqs, ArtifactRequest{
			Artifact: a,
			Context:  req.Collect.Context,
			Trace:    req.Collect.Trace,
		})
		return true
	})

	outcomes, err := s.ResolveArtifacts(ctx, sess, reqs)
	return &DependencyResult{Collect: collected, Artifacts: outcomes}, err
}
