package mavenrepo

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/cache"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/observability"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// DefaultTTL is how long remote metadata and descriptors stay cached.
const DefaultTTL = 24 * time.Hour

// Config configures a [Resolver]. Zero fields take the defaults.
type Config struct {
	// Fs backs "file:" repositories and local repository paths. It
	// defaults to the OS filesystem.
	Fs afero.Fs
	// HTTP serves remote repositories. It defaults to NewHTTPTransport(nil).
	HTTP *HTTPTransport
	// Cache holds remote metadata and descriptors. Nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
	// Parallelism bounds concurrent descriptor reads during collection.
	Parallelism int
	Logger      *log.Logger
}

// Resolver is the reference primary store. It implements
// repository.Delegate over a single default-layout repository and is safe
// for concurrent use.
type Resolver struct {
	fs          afero.Fs
	file        *FileTransport
	http        *HTTPTransport
	cache       cache.Cache
	keyer       cache.Keyer
	ttl         time.Duration
	parallelism int
	logger      *log.Logger
}

var _ repository.Delegate = (*Resolver)(nil)

// New returns a resolver over cfg.
func New(cfg Config) *Resolver {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.HTTP == nil {
		cfg.HTTP = NewHTTPTransport(nil)
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 8
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Resolver{
		fs:          cfg.Fs,
		file:        NewFileTransport(cfg.Fs),
		http:        cfg.HTTP,
		cache:       cfg.Cache,
		keyer:       cfg.Keyer,
		ttl:         cfg.TTL,
		parallelism: cfg.Parallelism,
		logger:      cfg.Logger,
	}
}

// ResolveArtifact finds the artifact in the session's local repository or,
// when online, in the requested repository.
func (r *Resolver) ResolveArtifact(ctx context.Context, s *repository.Session, req repository.ArtifactRequest) (*repository.ArtifactResult, error) {
	repo, err := r.target(s, req.Repositories)
	if err != nil {
		return nil, err
	}
	c := req.Artifact
	res := &repository.ArtifactResult{Request: req, Artifact: c}

	if local := r.findLocal(ctx, s, repo, c, req.Context); local.Available {
		res.Path, res.Repository = local.Path, local.Repository
		return res, nil
	}
	if s.Offline {
		return nil, errors.New(errors.ErrCodeNotFound, "%s not found in %s (offline)", c, s.LocalRepositoryManager.Repository().ID)
	}

	if c.Unresolved() {
		v, err := r.resolveSentinel(ctx, s, repo, c)
		if err != nil {
			return nil, err
		}
		c = c.WithVersion(v)
		res.Artifact = c
	}
	t, err := r.transport(repo)
	if err != nil {
		return nil, err
	}
	loc, err := t.Locate(ctx, s, repo, ArtifactPath(c))
	if err != nil {
		return nil, err
	}
	res.Path, res.Repository = loc, repo
	return res, nil
}

// ResolveVersion turns LATEST and RELEASE into the version the
// repository metadata names. Concrete versions are returned unchanged.
func (r *Resolver) ResolveVersion(ctx context.Context, s *repository.Session, req repository.VersionRequest) (*repository.VersionResult, error) {
	repo, err := r.target(s, req.Repositories)
	if err != nil {
		return nil, err
	}
	c := req.Artifact
	if !c.Unresolved() {
		return &repository.VersionResult{Request: req, Version: c.Version}, nil
	}
	if s.Offline {
		versions := s.LocalRepositoryManager.FindVersions(ctx, c)
		if len(versions) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "no local versions of %s", c.Key())
		}
		return &repository.VersionResult{
			Request:    req,
			Version:    versions[len(versions)-1],
			Repository: s.LocalRepositoryManager.Repository(),
		}, nil
	}
	v, err := r.resolveSentinel(ctx, s, repo, c)
	if err != nil {
		return nil, err
	}
	return &repository.VersionResult{Request: req, Version: v, Repository: repo}, nil
}

// ResolveVersionRange lists the versions of the artifact inside its
// version range, each bound to the repository that lists it. A bare
// version is returned as the only candidate without a binding.
func (r *Resolver) ResolveVersionRange(ctx context.Context, s *repository.Session, req repository.VersionRangeRequest) (*repository.VersionRangeResult, error) {
	repo, err := r.target(s, req.Repositories)
	if err != nil {
		return nil, err
	}
	res := &repository.VersionRangeResult{Request: req}
	spec := req.Artifact.Version
	if !artifact.IsRange(spec) {
		if spec != "" {
			res.Versions = []string{spec}
		}
		return res, nil
	}
	rng, err := artifact.ParseRange(spec)
	if err != nil {
		return nil, err
	}

	var (
		candidates []string
		from       = repo
	)
	if s.Offline {
		candidates = s.LocalRepositoryManager.FindVersions(ctx, req.Artifact)
		from = s.LocalRepositoryManager.Repository()
	} else {
		md, err := r.metadata(ctx, s, repo, req.Artifact)
		switch {
		case errors.Is(err, errors.ErrCodeNotFound):
		case err != nil:
			res.Exceptions = append(res.Exceptions, err)
		default:
			candidates = md.Versioning.Versions
		}
	}
	res.Versions = rng.Filter(candidates)
	for _, v := range res.Versions {
		res.SetRepository(v, from)
	}
	return res, nil
}

// ReadDescriptor reads and parses the POM of the artifact.
func (r *Resolver) ReadDescriptor(ctx context.Context, s *repository.Session, req repository.DescriptorRequest) (*repository.DescriptorResult, error) {
	repo, err := r.target(s, req.Repositories)
	if err != nil {
		return nil, err
	}
	c := req.Artifact.Descriptor()
	if c.Unresolved() && !s.Offline {
		v, err := r.resolveSentinel(ctx, s, repo, c)
		if err != nil {
			return nil, err
		}
		c = c.WithVersion(v)
	}

	data, from, err := r.readDescriptor(ctx, s, repo, c, req.Context)
	if err != nil {
		return nil, err
	}
	pom, err := parsePOM(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "descriptor of %s", c)
	}

	props := pom.properties()
	deps, skipped := convertDependencies(pom.Dependencies, props, s.ArtifactTypeRegistry)
	managed, skippedManaged := convertDependencies(pom.Managed, props, s.ArtifactTypeRegistry)
	res := &repository.DescriptorResult{
		Request:             req,
		Artifact:            req.Artifact,
		Repository:          from,
		Dependencies:        deps,
		ManagedDependencies: managed,
		Repositories:        pom.repositories(),
	}
	for _, d := range append(skipped, skippedManaged...) {
		res.Exceptions = append(res.Exceptions,
			errors.New(errors.ErrCodeInvalidInput, "descriptor of %s: dependency %s has unresolved properties", c, d))
	}
	if len(res.Exceptions) > 0 {
		r.logger.Debug("skipped dependencies with unresolved properties", "artifact", c, "count", len(res.Exceptions))
	}
	return res, nil
}

func (r *Resolver) readDescriptor(ctx context.Context, s *repository.Session, repo repository.Repository, c artifact.Coordinate, reqCtx string) ([]byte, repository.Repository, error) {
	if local := r.findLocal(ctx, s, repo, c, reqCtx); local.Available {
		data, err := afero.ReadFile(r.fs, local.Path)
		return data, local.Repository, err
	}
	if s.Offline {
		return nil, repository.Repository{}, errors.New(errors.ErrCodeNotFound,
			"descriptor of %s not found in %s (offline)", c, s.LocalRepositoryManager.Repository().ID)
	}
	data, err := r.fetch(ctx, s, repo, ArtifactPath(c), "descriptor", r.keyer.DescriptorKey(repo.URL, c.String()))
	return data, repo, err
}

func (r *Resolver) findLocal(ctx context.Context, s *repository.Session, repo repository.Repository, c artifact.Coordinate, reqCtx string) repository.LocalArtifactResult {
	return s.LocalRepositoryManager.Find(ctx, repository.LocalArtifactRequest{
		Artifact:     c,
		Repositories: []repository.Repository{repo},
		Context:      reqCtx,
	})
}

func (r *Resolver) resolveSentinel(ctx context.Context, s *repository.Session, repo repository.Repository, c artifact.Coordinate) (string, error) {
	md, err := r.metadata(ctx, s, repo, c)
	if err != nil {
		return "", err
	}
	v := md.Latest()
	if c.Version == artifact.Release {
		v = md.Release()
	}
	if v == "" {
		return "", errors.New(errors.ErrCodeNotFound, "no %s version of %s in %s", c.Version, c.Key(), repo.ID)
	}
	r.logger.Debug("resolved version", "artifact", c.Key(), "requested", c.Version, "version", v)
	return v, nil
}

func (r *Resolver) metadata(ctx context.Context, s *repository.Session, repo repository.Repository, c artifact.Coordinate) (*Metadata, error) {
	data, err := r.fetch(ctx, s, repo, MetadataPath(c.Group, c.Name), "metadata", r.keyer.MetadataKey(repo.URL, c.Group, c.Name))
	if err != nil {
		return nil, err
	}
	return ParseMetadata(data)
}

// fetch reads rel through the transport for repo. Remote documents go
// through the cache.
func (r *Resolver) fetch(ctx context.Context, s *repository.Session, repo repository.Repository, rel, keyType, key string) ([]byte, error) {
	t, err := r.transport(repo)
	if err != nil {
		return nil, err
	}
	_, local := t.(*FileTransport)
	cacheable := r.cache != nil && !local
	if cacheable {
		if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, keyType)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	data, err := t.Fetch(ctx, s, repo, rel)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Debug("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return data, nil
}

// target picks the single requested repository and applies the
// session's mirror selector.
func (r *Resolver) target(s *repository.Session, repos []repository.Repository) (repository.Repository, error) {
	if len(repos) == 0 {
		return repository.Repository{}, errors.New(errors.ErrCodeInvalidInput, "request names no repository")
	}
	if len(repos) > 1 {
		return repository.Repository{}, errors.New(errors.ErrCodeInvariantViolation, "request names %d repositories, want exactly one", len(repos))
	}
	repo := repos[0]
	if m, ok := s.MirrorSelector.Mirror(repo); ok {
		if m.URL == "" {
			return repository.Repository{}, errors.New(errors.ErrCodeInvariantViolation, "mirror of %s has no url", repo.ID)
		}
		repo = m
	}
	return repo, nil
}

func (r *Resolver) transport(repo repository.Repository) (Transport, error) {
	switch scheme(repo.URL) {
	case "file":
		return r.file, nil
	case "http", "https":
		return r.http, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported repository url %q", repo.URL)
	}
}
