package repository

import (
	"context"
	"time"

	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/observability"
)

// ResolveVersionRange lists the versions matching req.Artifact's range.
//
// The primary store's answer is used as is when it binds the highest version
// to a repository. Otherwise the primary store is probed for a descriptor
// of the highest version, since a store without metadata lists versions it
// cannot attribute. If the probe fails and the secondary store is enabled,
// the highest version is bound to the secondary store.
func (s *System) ResolveVersionRange(ctx context.Context, sess *Session, req VersionRangeRequest) (*VersionRangeResult, error) {
	const op = "resolve version range"
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}
	c := req.Artifact
	hooks := observability.Resolution()

	down := req
	down.Repositories = s.primaryRepos()
	if err := s.checkBinding(op, down.Repositories); err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := s.delegate.ResolveVersionRange(ctx, sess, down)
	switch {
	case err != nil:
		hooks.OnAttempt(ctx, op, string(AttemptPrimary), outcomeHard.String(), time.Since(start), err)
		return nil, &ResolutionError{Op: op, Artifact: c, Attempts: []*AttemptError{
			{Attempt: AttemptPrimary, Repository: s.primary, Err: err},
		}}
	case res == nil:
		res = &VersionRangeResult{}
	}
	res.Request = req

	highest := res.HighestVersion()
	if len(res.Exceptions) == 0 && highest != "" {
		if _, ok := res.Repository(highest); ok {
			hooks.OnAttempt(ctx, op, string(AttemptPrimary), outcomeSuccess.String(), time.Since(start), nil)
			return res, nil
		}
	}
	hooks.OnAttempt(ctx, op, string(AttemptPrimary), outcomeSoft.String(), time.Since(start), nil)

	found, err := s.probe(ctx, sess, req, highest)
	if err != nil {
		return nil, err
	}
	if found {
		res.SetRepository(highest, s.primary)
		return res, nil
	}

	if !s.useSecondary {
		return res, nil
	}

	if highest == "" {
		versions := s.secondary.FindVersions(ctx, c)
		if len(versions) == 0 {
			return res, nil
		}
		res.Versions = versions
		highest = res.HighestVersion()
	}
	res.SetRepository(highest, s.secondary.Repository())
	res.Match = MatchSecondary
	s.logger.Warn("could not resolve version range, using secondary store", "artifact", c, "version", highest)
	observability.Resolution().OnDegraded(ctx, op, c.String(), res.Match.String())
	return res, nil
}

// probe reads the descriptor of version from the primary store. A store
// answering NOT_FOUND is a negative probe; any other error is returned.
func (s *System) probe(ctx context.Context, sess *Session, req VersionRangeRequest, version string) (bool, error) {
	const op = "probe descriptor"
	if version == "" {
		return false, nil
	}
	down := DescriptorRequest{
		Artifact:     req.Artifact.WithVersion(version),
		Repositories: s.primaryRepos(),
		Context:      req.Context,
		Trace:        req.Trace,
	}
	if err := s.checkBinding(op, down.Repositories); err != nil {
		return false, err
	}

	start := time.Now()
	res, err := s.delegate.ReadDescriptor(ctx, sess, down)
	st := judge(ctx, res, err, false)
	observability.Resolution().OnAttempt(ctx, op, string(AttemptProbe), st.outcome.String(), time.Since(start), st.err)

	switch {
	case err == nil:
		return st.outcome == outcomeSuccess, nil
	case errors.Is(err, errors.ErrCodeNotFound):
		return false, nil
	default:
		return false, errors.Wrap(errors.ErrCodeAttemptFailed, err, "probing %s for %s", s.primary.ID, down.Artifact)
	}
}
