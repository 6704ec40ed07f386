package mavenrepo

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// LocalRepositoryID identifies a [LocalRepository] in results.
const LocalRepositoryID = "local"

// DefaultLocalDir returns ~/.m2/repository.
func DefaultLocalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// LocalRepository is a read-only default-layout local repository such as
// ~/.m2/repository. It implements repository.LocalRepositoryManager and
// never writes: downloads are not installed into it.
type LocalRepository struct {
	fs   afero.Fs
	root string
}

var _ repository.LocalRepositoryManager = (*LocalRepository)(nil)

// NewLocalRepository returns the repository rooted at root on fs. A nil
// fs is the OS filesystem.
func NewLocalRepository(fs afero.Fs, root string) *LocalRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &LocalRepository{fs: fs, root: root}
}

// Repository reports the root directory.
func (l *LocalRepository) Repository() repository.Repository {
	return repository.Repository{ID: LocalRepositoryID, Layout: repository.LayoutDefault, URL: "file:" + l.root}
}

// Find looks req.Artifact up by its default-layout path.
func (l *LocalRepository) Find(_ context.Context, req repository.LocalArtifactRequest) repository.LocalArtifactResult {
	res := repository.LocalArtifactResult{Request: req, Repository: l.Repository()}
	if req.Artifact.Version == "" {
		return res
	}
	p := path.Join(l.root, ArtifactPath(req.Artifact))
	if fi, err := l.fs.Stat(p); err == nil && fi.Mode().IsRegular() {
		res.Path = p
		res.Available = true
	}
	return res
}

// FindVersions lists the version directories of c in ascending order.
func (l *LocalRepository) FindVersions(_ context.Context, c artifact.Coordinate) []string {
	entries, err := afero.ReadDir(l.fs, path.Join(l.root, ArtifactDir(c.Group, c.Name)))
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	artifact.SortVersions(versions)
	return versions
}

// FindMetadata looks for the maven-metadata-local.xml that install
// tooling writes next to the version directories.
func (l *LocalRepository) FindMetadata(_ context.Context, req repository.MetadataRequest) repository.LocalMetadataResult {
	res := repository.LocalMetadataResult{Request: req}
	p := path.Join(l.root, ArtifactDir(req.Artifact.Group, req.Artifact.Name), "maven-metadata-local.xml")
	if fi, err := l.fs.Stat(p); err == nil && fi.Mode().IsRegular() {
		res.Path = p
	}
	return res
}
