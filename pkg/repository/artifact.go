package repository

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/fossrepo/pkg/artifact"
)

// result is implemented by every result type the engine judges.
type result interface {
	comparable
	exceptions() []error
}

func (r *ArtifactResult) exceptions() []error     { return r.Exceptions }
func (r *VersionRangeResult) exceptions() []error { return r.Exceptions }
func (r *DescriptorResult) exceptions() []error   { return r.Exceptions }
func (r *VersionResult) exceptions() []error      { return r.Exceptions }
func (r *CollectResult) exceptions() []error      { return r.Exceptions }

// judge turns a delegate answer into a step. A lenient judge accepts a
// result that carries exceptions.
func judge[R result](ctx context.Context, res R, err error, lenient bool) step[R] {
	var zero R
	switch {
	case err != nil:
		if isHard(ctx, err) {
			return hard[R](err)
		}
		return soft[R](err)
	case res == zero:
		return soft[R](nil)
	case !lenient && len(res.exceptions()) > 0:
		return declined[R](res.exceptions())
	}
	return success(res)
}

// ResolveArtifact resolves one artifact: primary store, then the primary
// store's LATEST version, then the secondary store. The secondary attempt
// accepts a result even when it carries exceptions.
func (s *System) ResolveArtifact(ctx context.Context, sess *Session, req ArtifactRequest) (*ArtifactResult, error) {
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}
	return s.resolveArtifact(ctx, sess, req)
}

func (s *System) resolveArtifact(ctx context.Context, sess *Session, req ArtifactRequest) (*ArtifactResult, error) {
	const op = "resolve artifact"
	c := req.Artifact

	call := func(sess *Session, c artifact.Coordinate, lenient bool) func(context.Context) step[*ArtifactResult] {
		return func(ctx context.Context) step[*ArtifactResult] {
			down := req
			down.Artifact = c
			down.Repositories = s.primaryRepos()
			if err := s.checkBinding(op, down.Repositories); err != nil {
				return hard[*ArtifactResult](err)
			}
			res, err := s.delegate.ResolveArtifact(ctx, sess, down)
			return judge(ctx, res, err, lenient)
		}
	}

	attempts := []attempt[*ArtifactResult]{
		{name: AttemptPrimary, repo: s.primary, run: call(sess, c, false)},
	}
	if c.Version != artifact.Latest && c.Version != "" {
		attempts = append(attempts, attempt[*ArtifactResult]{
			name: AttemptLatest, repo: s.primary, run: call(sess, c.WithVersion(artifact.Latest), false),
		})
	}
	if s.useSecondary {
		attempts = append(attempts, attempt[*ArtifactResult]{
			name: AttemptSecondary, repo: s.secondary.Repository(), run: call(s.openSecondary(sess), c, true),
		})
	}

	res, name, err := runAttempts(ctx, s, op, c, attempts)
	if err != nil {
		return nil, err
	}
	res.Request = req
	res.Match = matchFor(name)
	s.degraded(ctx, op, c, res.Match, res.Repository)
	return res, nil
}

// ResolveArtifacts resolves each request independently and in order. The
// session is validated once up front; after that a failing request records
// its error in its slot and the remaining requests still run. The returned
// error joins every per-request failure.
func (s *System) ResolveArtifacts(ctx context.Context, sess *Session, reqs []ArtifactRequest) ([]ArtifactOutcome, error) {
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}
	out := make([]ArtifactOutcome, len(reqs))
	var errs []error
	for i, req := range reqs {
		res, err := s.resolveArtifact(ctx, sess, req)
		out[i] = ArtifactOutcome{Result: res, Err: err}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, stderrors.Join(errs...)
}

func matchFor(a Attempt) Match {
	switch a {
	case AttemptLatest:
		return MatchLatest
	case AttemptSecondary:
		return MatchSecondary
	default:
		return MatchExact
	}
}
