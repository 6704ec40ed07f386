package repository

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/observability"
)

// Elider reports whether a dependency must be dropped before it reaches
// the secondary store. *remap.Table satisfies it.
type Elider interface {
	ShouldElide(group, name, version string) bool
}

// Config configures a [System].
type Config struct {
	// Primary is the only repository the delegate is ever asked to use.
	// The zero value selects [PrimaryRepository] with the default URL.
	Primary Repository
	// UseSecondary enables the secondary store attempts.
	UseSecondary bool
	// Secondary is the javadir store. Required when UseSecondary is set.
	Secondary LocalRepositoryManager
	// Elider drops remapped-away dependencies before collection against
	// the secondary store. Optional.
	Elider Elider
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// System is the fallback resolution engine. It is safe for concurrent use.
type System struct {
	delegate     Delegate
	primary      Repository
	useSecondary bool
	secondary    LocalRepositoryManager
	elider       Elider
	logger       *log.Logger
}

// New returns a System resolving through delegate.
func New(delegate Delegate, cfg Config) (*System, error) {
	if delegate == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "primary store delegate is required")
	}
	if cfg.Primary.IsZero() {
		cfg.Primary = PrimaryRepository("")
	}
	if cfg.Primary.URL == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "primary repository %q has no URL", cfg.Primary.ID)
	}
	if cfg.UseSecondary && cfg.Secondary == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "secondary store enabled but not configured")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &System{
		delegate:     delegate,
		primary:      cfg.Primary,
		useSecondary: cfg.UseSecondary,
		secondary:    cfg.Secondary,
		elider:       cfg.Elider,
		logger:       cfg.Logger,
	}, nil
}

// Primary returns the primary repository.
func (s *System) Primary() Repository { return s.primary }

// SecondaryEnabled reports whether the secondary store is consulted.
func (s *System) SecondaryEnabled() bool { return s.useSecondary }

// primaryRepos is the repository list bound to every downstream request.
func (s *System) primaryRepos() []Repository { return []Repository{s.primary} }

// checkBinding enforces that a downstream request is bound to exactly the
// primary repository.
func (s *System) checkBinding(op string, repos []Repository) error {
	if len(repos) == 1 && repos[0] == s.primary {
		return nil
	}
	err := errors.New(errors.ErrCodeInvariantViolation,
		"%s: downstream request must be bound to exactly the primary repository %s, got %v", op, s.primary, repos)
	s.logger.Error("repository binding violated", "op", op, "repositories", repos)
	return err
}

// openSecondary derives a session whose local store is the javadir store
// and which never goes online.
func (s *System) openSecondary(sess *Session) *Session {
	d := sess.Derive()
	d.Offline = true
	d.LocalRepositoryManager = s.secondary
	return d
}

// degraded reports a successful match that is not exact.
func (s *System) degraded(ctx context.Context, op string, requested artifact.Coordinate, match Match, repo Repository) {
	if !match.Degraded() {
		return
	}
	observability.Resolution().OnDegraded(ctx, op, requested.String(), match.String())
	switch match {
	case MatchLatest:
		s.logger.Warn("exact version unavailable, using latest", "op", op, "requested", requested, "repository", repo.ID)
	case MatchSecondary:
		s.logger.Warn("resolved from secondary store", "op", op, "requested", requested, "repository", repo.ID)
	}
}
