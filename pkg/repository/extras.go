package repository

import (
	"context"

	"github.com/matzehuels/fossrepo/pkg/artifact"
)

// ResolveVersion turns LATEST/RELEASE into a concrete version. Only the
// primary store can answer; anything else is [ErrNotImplemented].
func (s *System) ResolveVersion(ctx context.Context, sess *Session, req VersionRequest) (*VersionResult, error) {
	const op = "resolve version"
	if err := ValidateSession(sess); err != nil {
		return nil, err
	}

	run := func(ctx context.Context) step[*VersionResult] {
		down := req
		down.Repositories = s.primaryRepos()
		if err := s.checkBinding(op, down.Repositories); err != nil {
			return hard[*VersionResult](err)
		}
		res, err := s.delegate.ResolveVersion(ctx, sess, down)
		st := judge(ctx, res, err, false)
		// A primary store error is returned as is.
		if err != nil && st.outcome == outcomeSoft {
			return hard[*VersionResult](err)
		}
		return st
	}

	res, _, err := runAttempts(ctx, s, op, req.Artifact, []attempt[*VersionResult]{
		{name: AttemptPrimary, repo: s.primary, run: run},
	})
	if err != nil {
		return nil, err
	}
	res.Request = req
	return res, nil
}

// ResolveMetadata is not supported.
func (s *System) ResolveMetadata(ctx context.Context, sess *Session, reqs []MetadataRequest) ([]LocalMetadataResult, error) {
	return nil, unsupported("metadata resolution")
}

// Install is not supported.
func (s *System) Install(ctx context.Context, sess *Session, req InstallRequest) error {
	return unsupported("install")
}

// Deploy is not supported.
func (s *System) Deploy(ctx context.Context, sess *Session, req DeployRequest) error {
	return unsupported("deploy")
}

// PluginVersion returns the version to use for a build plugin that has no
// version. The system always picks RELEASE.
func (s *System) PluginVersion(group, name string) string {
	s.logger.Warn("plugin has no version, using RELEASE", "plugin", group+":"+name)
	return artifact.Release
}

// Mirror returns a [MirrorSelector] that redirects every repository to the
// primary repository.
func (s *System) Mirror() MirrorSelector {
	return PrimaryMirror{Primary: s.primary, Logger: s.logger}
}
