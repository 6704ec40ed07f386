package mavenrepo

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// Transport reads files from one kind of repository root. rel is a
// default-layout path relative to the root. A missing file is a
// NOT_FOUND error.
type Transport interface {
	// Fetch returns the content of rel.
	Fetch(ctx context.Context, s *repository.Session, repo repository.Repository, rel string) ([]byte, error)
	// Locate returns where rel can be read from: a filesystem path for
	// local roots, a URL for remote ones.
	Locate(ctx context.Context, s *repository.Session, repo repository.Repository, rel string) (string, error)
}

// FileTransport serves "file:" repository roots.
type FileTransport struct {
	fs afero.Fs
}

// NewFileTransport returns a transport over fs. A nil fs is the OS
// filesystem.
func NewFileTransport(fs afero.Fs) *FileTransport {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileTransport{fs: fs}
}

// Fetch reads rel below the repository root.
func (t *FileTransport) Fetch(ctx context.Context, s *repository.Session, repo repository.Repository, rel string) ([]byte, error) {
	p, err := t.Locate(ctx, s, repo, rel)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(t.fs, p)
}

// Locate returns the filesystem path of rel if it is a regular file.
func (t *FileTransport) Locate(_ context.Context, _ *repository.Session, repo repository.Repository, rel string) (string, error) {
	root, err := fileRoot(repo.URL)
	if err != nil {
		return "", err
	}
	p := path.Join(root, rel)
	fi, err := t.fs.Stat(p)
	switch {
	case os.IsNotExist(err):
		return "", errors.New(errors.ErrCodeNotFound, "%s not found in %s", rel, repo.ID)
	case err != nil:
		return "", err
	case !fi.Mode().IsRegular():
		return "", errors.New(errors.ErrCodeNotFound, "%s in %s is not a file", rel, repo.ID)
	}
	return p, nil
}

// fileRoot turns "file:/srv/repo" or "file:///srv/repo" into "/srv/repo".
func fileRoot(url string) (string, error) {
	rest, ok := strings.CutPrefix(url, "file:")
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "not a file repository url: %q", url)
	}
	rest = strings.TrimPrefix(rest, "//")
	if rest == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "empty file repository url")
	}
	return rest, nil
}

func scheme(url string) string {
	if i := strings.Index(url, ":"); i > 0 {
		return strings.ToLower(url[:i])
	}
	return ""
}
