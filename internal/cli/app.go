package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/fossrepo/pkg/cache"
	"github.com/matzehuels/fossrepo/pkg/config"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/javadir"
	"github.com/matzehuels/fossrepo/pkg/mavenrepo"
	"github.com/matzehuels/fossrepo/pkg/remap"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// cacheScope prefixes document cache keys. Bump it when the cached
// representation changes.
const cacheScope = "v1:"

// app is the wired resolver stack a command runs against.
type app struct {
	cfg    *config.Config
	logger *log.Logger

	depmap *remap.Lazy
	store  *javadir.Store
	local  repository.LocalRepositoryManager
	cache  cache.Cache
	sys    *repository.System
}

// newApp wires config, depmap, javadir store, primary resolver and engine.
func (c *CLI) newApp(ctx context.Context, noCache bool) (*app, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	docCache, err := newCache(ctx, c.Fs, cfg, noCache)
	if err != nil {
		return nil, err
	}

	depmap := c.newDepmap(cfg)

	jc := cfg.JavadirConfig()
	jc.Fs = c.Fs
	jc.Depmap = depmap
	jc.Logger = c.Logger
	store := javadir.New(jc)

	localDir, err := localRepoDir(cfg)
	if err != nil {
		_ = docCache.Close()
		return nil, err
	}

	resolver := mavenrepo.New(mavenrepo.Config{
		Fs:     c.Fs,
		Cache:  docCache,
		Keyer:  cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheScope),
		TTL:    cfg.Cache.TTL,
		Logger: c.Logger,
	})
	sys, err := repository.New(resolver, repository.Config{
		Primary:      cfg.Primary(),
		UseSecondary: cfg.UseSecondary,
		Secondary:    store,
		Elider:       depmap,
		Logger:       c.Logger,
	})
	if err != nil {
		_ = docCache.Close()
		return nil, err
	}

	c.Logger.Debug("resolver ready",
		"primary", cfg.PrimaryURL,
		"secondary", cfg.UseSecondary,
		"local", localDir,
		"cache", cfg.Cache.Backend)

	return &app{
		cfg:    cfg,
		logger: c.Logger,
		depmap: depmap,
		store:  store,
		local:  mavenrepo.NewLocalRepository(c.Fs, localDir),
		cache:  docCache,
		sys:    sys,
	}, nil
}

func (c *CLI) newDepmap(cfg *config.Config) *remap.Lazy {
	return remap.NewLazySources(cfg.Sources(), remap.Options{
		Mode:   cfg.Mode(),
		Fs:     c.Fs,
		Logger: c.Logger,
	})
}

// config returns the configuration loaded by the root pre-run, loading
// it on first use otherwise.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadFs(c.Fs, c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// session returns a fresh session over the local repository.
func (a *app) session() *repository.Session {
	return repository.NewSession(a.local)
}

func (a *app) Close() error {
	return a.cache.Close()
}

// newCache returns the document cache for remote repositories.
func newCache(ctx context.Context, fs afero.Fs, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, Prefix: appName + ":"})
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCacheFs(fs, dir)
}

// cacheDir returns the configured cache directory, defaulting to the XDG
// standard location (~/.cache/fossrepo/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// localRepoDir returns the configured local repository, defaulting to
// ~/.m2/repository.
func localRepoDir(cfg *config.Config) (string, error) {
	if cfg.LocalRepo != "" {
		return cfg.LocalRepo, nil
	}
	dir, err := mavenrepo.DefaultLocalDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "locate local repository (set local_repo)")
	}
	return dir, nil
}
