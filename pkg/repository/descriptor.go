package repository

import (
	"context"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/remap"
)

// ReadDescriptor reads the descriptor of req.Artifact: primary store, then
// the primary store's LATEST version, then the secondary store. Every
// attempt requires a result without exceptions.
func (s *System) ReadDescriptor(ctx context.Context, sess *Session, req DescriptorRequest) (*DescriptorResult, error) {
	const op = "read descriptor"
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}
	c := req.Artifact

	call := func(sess *Session, c artifact.Coordinate) func(context.Context) step[*DescriptorResult] {
		return func(ctx context.Context) step[*DescriptorResult] {
			down := req
			down.Artifact = c
			down.Repositories = s.primaryRepos()
			if err := s.checkBinding(op, down.Repositories); err != nil {
				return hard[*DescriptorResult](err)
			}
			res, err := s.delegate.ReadDescriptor(ctx, sess, down)
			return judge(ctx, res, err, false)
		}
	}

	attempts := []attempt[*DescriptorResult]{
		{name: AttemptPrimary, repo: s.primary, run: call(sess, c)},
	}
	if c.Version != artifact.Latest && c.Version != "" {
		attempts = append(attempts, attempt[*DescriptorResult]{
			name: AttemptLatest, repo: s.primary, run: call(sess, c.WithVersion(artifact.Latest)),
		})
	}
	if s.useSecondary {
		attempts = append(attempts, attempt[*DescriptorResult]{
			name: AttemptSecondary, repo: s.secondary.Repository(), run: call(s.openSecondary(sess), c),
		})
	}

	res, name, err := runAttempts(ctx, s, op, c, attempts)
	if err != nil {
		return nil, err
	}
	res.Request = req
	res.Match = matchFor(name)
	if res.Match == MatchSecondary {
		s.fixVersions(res)
	}
	s.degraded(ctx, op, c, res.Match, res.Repository)
	return res, nil
}

// fixVersions blanks out placeholder versions of dependencies read from
// the secondary store, whose descriptors are often incomplete.
func (s *System) fixVersions(res *DescriptorResult) {
	for i, d := range res.Dependencies {
		if d.Artifact.Version == "" || d.Artifact.Version == remap.PlaceholderVersion {
			s.logger.Warn("dependency without version in secondary store descriptor",
				"artifact", res.Artifact, "dependency", d.Artifact.Key())
			res.Dependencies[i].Artifact.Version = ""
		}
	}
}
