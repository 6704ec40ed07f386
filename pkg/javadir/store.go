package javadir

import (
	"context"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/remap"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// Default layout of a javadir system.
const (
	DefaultBaseDir = "/usr/share/java"

	// FallbackDescriptorRoot is used when no descriptor root holds the
	// file. The path is returned only if the file exists there.
	FallbackDescriptorRoot = "/usr/share/maven2/default_poms"

	// RepositoryID identifies the store in results and logs.
	RepositoryID = "javadir"
)

// DefaultDescriptorRoots lists where descriptors (POMs) live, in priority
// order.
func DefaultDescriptorRoots() []string {
	return []string{"/usr/share/maven2/poms", "/usr/share/maven/poms", "/usr/share/maven-poms"}
}

// DefaultBinaryRoots lists where binaries live, in priority order.
func DefaultBinaryRoots() []string {
	return []string{"/usr/share/maven/repository", "/usr/share/maven/repository-java-jni", "/usr/share/maven/repository-jni"}
}

// Config configures a [Store]. Zero fields take the defaults.
type Config struct {
	BaseDir                string
	DescriptorRoots        []string
	FallbackDescriptorRoot string
	BinaryRoots            []string
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Depmap translates coordinates before lookup. Nil disables remapping.
	Depmap *remap.Lazy
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Store is the javadir filesystem store. It implements
// repository.LocalRepositoryManager and is safe for concurrent use.
type Store struct {
	baseDir         string
	descriptorRoots []string
	fallbackRoot    string
	binaryRoots     []string
	fs              afero.Fs
	depmap          *remap.Lazy
	logger          *log.Logger
}

var _ repository.LocalRepositoryManager = (*Store)(nil)

// New returns a store over cfg.
func New(cfg Config) *Store {
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultBaseDir
	}
	if cfg.DescriptorRoots == nil {
		cfg.DescriptorRoots = DefaultDescriptorRoots()
	}
	if cfg.FallbackDescriptorRoot == "" {
		cfg.FallbackDescriptorRoot = FallbackDescriptorRoot
	}
	if cfg.BinaryRoots == nil {
		cfg.BinaryRoots = DefaultBinaryRoots()
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Store{
		baseDir:         cfg.BaseDir,
		descriptorRoots: cfg.DescriptorRoots,
		fallbackRoot:    cfg.FallbackDescriptorRoot,
		binaryRoots:     cfg.BinaryRoots,
		fs:              cfg.Fs,
		depmap:          cfg.Depmap,
		logger:          cfg.Logger,
	}
}

// Repository reports the store's base directory.
func (s *Store) Repository() repository.Repository {
	return repository.Repository{ID: RepositoryID, Layout: repository.LayoutLocal, URL: "file:" + s.baseDir}
}

// Find looks req.Artifact up. A miss is reported as an unavailable result.
func (s *Store) Find(ctx context.Context, req repository.LocalArtifactRequest) repository.LocalArtifactResult {
	res := repository.LocalArtifactResult{Request: req, Repository: s.Repository()}
	if p, ok := s.Path(ctx, req.Artifact); ok {
		res.Path = p
		res.Available = true
	}
	return res
}

// Path returns the file holding c, if any.
func (s *Store) Path(ctx context.Context, c artifact.Coordinate) (string, bool) {
	group, name := s.translate(ctx, c)

	var candidates []string
	if c.Kind() == artifact.KindDescriptor {
		file := strings.ReplaceAll(group, "/", ".") + "-" + name + ".pom"
		for _, root := range s.descriptorRoots {
			candidates = append(candidates, path.Join(root, file))
		}
		candidates = append(candidates, path.Join(s.fallbackRoot, file))
	} else {
		rel := group + "/" + name + "." + c.Extension
		for _, root := range s.binaryRoots {
			candidates = append(candidates, path.Join(root, rel))
		}
	}

	for _, p := range candidates {
		if s.isFile(p) {
			s.logger.Debug("javadir hit", "artifact", c, "path", p)
			return p, true
		}
	}
	s.logger.Debug("javadir miss", "artifact", c, "group", group, "name", name)
	return "", false
}

// translate applies the depmap unless the group is already repackaged.
func (s *Store) translate(ctx context.Context, c artifact.Coordinate) (group, name string) {
	if s.depmap == nil || strings.HasPrefix(c.Group, remap.RepackagedPrefix) {
		return c.Group, c.Name
	}
	table, err := s.depmap.Get(ctx)
	if err != nil {
		s.logger.Warn("depmap unavailable, using coordinates as is", "error", err)
		return c.Group, c.Name
	}
	t := table.Lookup(c.Group, c.Name, c.Version)
	return t.Group, t.Name
}

func (s *Store) isFile(p string) bool {
	fi, err := s.fs.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// FindVersions always reports the single synthetic version "latest": the
// store holds one unversioned copy of everything it has.
func (s *Store) FindVersions(context.Context, artifact.Coordinate) []string {
	return []string{"latest"}
}

// FindMetadata always misses; the store has no repository metadata.
func (s *Store) FindMetadata(_ context.Context, req repository.MetadataRequest) repository.LocalMetadataResult {
	return repository.LocalMetadataResult{Request: req}
}
