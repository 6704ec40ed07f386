// Package config loads process-wide settings.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional fossrepo.toml or fossrepo.yaml file, and environment variables.
// Every key has a FOSSREPO_ variable (dots become underscores); a few also
// honour the variable names older installations used.
//
// Load is meant to run once at startup. The returned [Config] is a plain
// value and is never re-read.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/javadir"
	"github.com/matzehuels/fossrepo/pkg/remap"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "FOSSREPO"

// FileName is the config file base name looked up in the search path.
const FileName = "fossrepo"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// legacyEnv maps keys to the variables they were read from before the
// FOSSREPO_ prefix existed. The prefixed name always wins.
var legacyEnv = map[string]string{
	"use_secondary": "FRE_USEJPP",
	"primary_url":   "FRE_REPO",
	"depmap_file":   "FRE_DEPMAP_FILE",
	"debug":         "MAVEN_LOCAL_DEBUG",
}

// Config holds every setting.
type Config struct {
	UseSecondary bool   `mapstructure:"use_secondary"`
	PrimaryURL   string `mapstructure:"primary_url"`
	// DepmapFile is an extra fragment applied after every other source.
	DepmapFile   string `mapstructure:"depmap_file"`
	VersionAware bool   `mapstructure:"version_aware"`
	// LocalRepo is the directory of the Maven local repository.
	LocalRepo string `mapstructure:"local_repo"`
	Debug     bool   `mapstructure:"debug"`

	Depmap  Depmap  `mapstructure:"depmap"`
	Javadir Javadir `mapstructure:"javadir"`
	Cache   Cache   `mapstructure:"cache"`
	Server  Server  `mapstructure:"server"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// Depmap locates mapping fragments.
type Depmap struct {
	Base     string `mapstructure:"base"`
	EtcDir   string `mapstructure:"etc_dir"`
	ShareDir string `mapstructure:"share_dir"`
}

// Javadir locates the secondary filesystem store.
type Javadir struct {
	BaseDir         string   `mapstructure:"base_dir"`
	DescriptorRoots []string `mapstructure:"descriptor_roots"`
	FallbackRoot    string   `mapstructure:"fallback_root"`
	BinaryRoots     []string `mapstructure:"binary_roots"`
}

// Cache selects the document cache used for remote repositories.
type Cache struct {
	Backend   string        `mapstructure:"backend"`
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Load reads settings from the OS filesystem. path names a config file;
// when empty the search path is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is [Load] over fs.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envName(key), legacy); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind %s", key)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		for _, dir := range searchPath() {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("use_secondary", false)
	v.SetDefault("primary_url", repository.DefaultPrimaryURL)
	v.SetDefault("depmap_file", "")
	v.SetDefault("version_aware", false)
	v.SetDefault("local_repo", "")
	v.SetDefault("debug", false)

	v.SetDefault("depmap.base", remap.DefaultBase)
	v.SetDefault("depmap.etc_dir", remap.DefaultEtcDir)
	v.SetDefault("depmap.share_dir", remap.DefaultShareDir)

	v.SetDefault("javadir.base_dir", javadir.DefaultBaseDir)
	v.SetDefault("javadir.descriptor_roots", javadir.DefaultDescriptorRoots())
	v.SetDefault("javadir.fallback_root", javadir.FallbackDescriptorRoot)
	v.SetDefault("javadir.binary_roots", javadir.DefaultBinaryRoots())

	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("server.addr", "127.0.0.1:8080")
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// searchPath lists directories probed for fossrepo.{toml,yaml}.
func searchPath() []string {
	var dirs []string
	if d, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(d, FileName))
	}
	return append(dirs, "/etc/"+FileName, ".")
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.PrimaryURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "primary_url must not be empty")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// Mode returns the remap table mode.
func (c *Config) Mode() remap.Mode {
	if c.VersionAware {
		return remap.VersionAware
	}
	return remap.Versionless
}

// Sources returns the mapping fragment locations.
func (c *Config) Sources() remap.Sources {
	return remap.Sources{
		Base:     c.Depmap.Base,
		EtcDir:   c.Depmap.EtcDir,
		ShareDir: c.Depmap.ShareDir,
		Override: c.DepmapFile,
	}
}

// JavadirConfig returns the secondary store settings. Fs, Depmap and
// Logger are left for the caller.
func (c *Config) JavadirConfig() javadir.Config {
	return javadir.Config{
		BaseDir:                c.Javadir.BaseDir,
		DescriptorRoots:        c.Javadir.DescriptorRoots,
		FallbackDescriptorRoot: c.Javadir.FallbackRoot,
		BinaryRoots:            c.Javadir.BinaryRoots,
	}
}

// Primary returns the primary repository.
func (c *Config) Primary() repository.Repository {
	return repository.PrimaryRepository(c.PrimaryURL)
}
