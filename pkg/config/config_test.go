package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/javadir"
	"github.com/matzehuels/fossrepo/pkg/remap"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFs(afero.NewMemMapFs(), "")
	if err != nil {
		t.Fatalf("LoadFs() error: %v", err)
	}
	if cfg.UseSecondary {
		t.Error("UseSecondary = true, want false")
	}
	if cfg.PrimaryURL != repository.DefaultPrimaryURL {
		t.Errorf("PrimaryURL = %q, want %q", cfg.PrimaryURL, repository.DefaultPrimaryURL)
	}
	if cfg.Mode() != remap.Versionless {
		t.Errorf("Mode() = %v, want versionless", cfg.Mode())
	}
	if got, want := cfg.Sources(), remap.DefaultSources(); got != want {
		t.Errorf("Sources() = %+v, want %+v", got, want)
	}
	if got := cfg.JavadirConfig().BinaryRoots; !reflect.DeepEqual(got, javadir.DefaultBinaryRoots()) {
		t.Errorf("BinaryRoots = %v", got)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"toml", "/cfg/fossrepo.toml", `
use_secondary = true
primary_url = "https://repo.example.org/maven2"
version_aware = true

[javadir]
binary_roots = ["/opt/jars"]

[cache]
backend = "none"
ttl = "2h"
`},
		{"yaml", "/cfg/fossrepo.yaml", `
use_secondary: true
primary_url: https://repo.example.org/maven2
version_aware: true
javadir:
  binary_roots: [/opt/jars]
cache:
  backend: none
  ttl: 2h
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, tt.path, tt.content)

			cfg, err := LoadFs(fs, tt.path)
			if err != nil {
				t.Fatalf("LoadFs() error: %v", err)
			}
			if !cfg.UseSecondary || !cfg.VersionAware {
				t.Errorf("toggles = %v/%v, want true/true", cfg.UseSecondary, cfg.VersionAware)
			}
			if cfg.Primary().URL != "https://repo.example.org/maven2" {
				t.Errorf("Primary().URL = %q", cfg.Primary().URL)
			}
			if !reflect.DeepEqual(cfg.Javadir.BinaryRoots, []string{"/opt/jars"}) {
				t.Errorf("BinaryRoots = %v", cfg.Javadir.BinaryRoots)
			}
			if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL != 2*time.Hour {
				t.Errorf("Cache = %+v", cfg.Cache)
			}
			if cfg.File != tt.path {
				t.Errorf("File = %q, want %q", cfg.File, tt.path)
			}
			// Unset keys keep their defaults.
			if cfg.Depmap.Base != remap.DefaultBase {
				t.Errorf("Depmap.Base = %q", cfg.Depmap.Base)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*Config) bool
	}{
		{"prefixed", map[string]string{"FOSSREPO_USE_SECONDARY": "true"},
			func(c *Config) bool { return c.UseSecondary }},
		{"legacy use secondary", map[string]string{"FRE_USEJPP": "true"},
			func(c *Config) bool { return c.UseSecondary }},
		{"legacy repo", map[string]string{"FRE_REPO": "file:/srv/repo"},
			func(c *Config) bool { return c.PrimaryURL == "file:/srv/repo" }},
		{"prefixed beats legacy", map[string]string{"FOSSREPO_PRIMARY_URL": "file:/a", "FRE_REPO": "file:/b"},
			func(c *Config) bool { return c.PrimaryURL == "file:/a" }},
		{"legacy depmap file", map[string]string{"FRE_DEPMAP_FILE": "/tmp/extra.xml"},
			func(c *Config) bool { return c.Sources().Override == "/tmp/extra.xml" }},
		{"legacy debug", map[string]string{"MAVEN_LOCAL_DEBUG": "1"},
			func(c *Config) bool { return c.Debug }},
		{"nested key", map[string]string{"FOSSREPO_CACHE_BACKEND": "none"},
			func(c *Config) bool { return c.Cache.Backend == CacheNone }},
		{"list", map[string]string{"FOSSREPO_JAVADIR_DESCRIPTOR_ROOTS": "/a,/b"},
			func(c *Config) bool { return reflect.DeepEqual(c.Javadir.DescriptorRoots, []string{"/a", "/b"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadFs(afero.NewMemMapFs(), "")
			if err != nil {
				t.Fatalf("LoadFs() error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("config = %+v", cfg)
			}
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/cfg/fossrepo.toml", `primary_url = "file:/from/file"`)
	t.Setenv("FOSSREPO_PRIMARY_URL", "file:/from/env")

	cfg, err := LoadFs(fs, "/cfg/fossrepo.toml")
	if err != nil {
		t.Fatalf("LoadFs() error: %v", err)
	}
	if cfg.PrimaryURL != "file:/from/env" {
		t.Errorf("PrimaryURL = %q, want env value", cfg.PrimaryURL)
	}
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/cfg/bad.toml", `use_secondary = [`)
	writeFile(t, fs, "/cfg/redis.toml", "[cache]\nbackend = \"redis\"\n")
	writeFile(t, fs, "/cfg/backend.toml", "[cache]\nbackend = \"memcached\"\n")

	for _, path := range []string{"/cfg/missing.toml", "/cfg/bad.toml", "/cfg/redis.toml", "/cfg/backend.toml"} {
		t.Run(path, func(t *testing.T) {
			_, err := LoadFs(fs, path)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("LoadFs(%q) = %v, want INVALID_INPUT", path, err)
			}
		})
	}
}
