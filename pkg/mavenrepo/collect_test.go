package mavenrepo

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// tree renders a graph as "name:version" paths for comparison.
func tree(root *repository.DependencyNode) []string {
	var out []string
	root.Walk(func(n *repository.DependencyNode, depth int) bool {
		if depth > 0 {
			a := n.Dependency.Artifact
			out = append(out, string(rune('0'+depth))+" "+a.Name+":"+a.Version)
		}
		return true
	})
	return out
}

func TestCollectDependencies(t *testing.T) {
	r, fs := newFixture(t)
	res, err := r.CollectDependencies(context.Background(), newSession(fs), repository.CollectRequest{
		Root:         repository.Dependency{Artifact: artifact.New("org.example", "app", "1.0")},
		Repositories: []repository.Repository{testRepo},
	})
	if err != nil {
		t.Fatalf("CollectDependencies() error: %v", err)
	}

	// util is managed to 3.0 at depth 1, so lib's util 1.0 loses; junit
	// and the test-jar are test scoped.
	want := []string{"1 lib:2.1", "2 leaf:1.0", "1 util:3.0"}
	if got := tree(res.Root); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	if len(res.Exceptions) != 1 || !errors.Is(res.Exceptions[0], errors.ErrCodeNotFound) {
		t.Errorf("Exceptions = %v, want the missing leaf descriptor", res.Exceptions)
	}
	if res.Root.Repository != testRepo {
		t.Errorf("root Repository = %v", res.Root.Repository)
	}
}

func TestCollectDirectDependencies(t *testing.T) {
	r, fs := newFixture(t)
	res, err := r.CollectDependencies(context.Background(), newSession(fs), repository.CollectRequest{
		Dependencies: []repository.Dependency{
			{Artifact: artifact.New("org.example", "util", "3.0")},
			{Artifact: artifact.New("org.example", "util", "2.0")},
		},
		Repositories: []repository.Repository{testRepo},
	})
	if err != nil {
		t.Fatalf("CollectDependencies() error: %v", err)
	}
	if !res.Root.Dependency.IsZero() {
		t.Errorf("root = %+v, want zero dependency", res.Root.Dependency)
	}
	if got, want := tree(res.Root), []string{"1 util:3.0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	if len(res.Exceptions) != 0 {
		t.Errorf("Exceptions = %v", res.Exceptions)
	}
}

func TestCollectMissingRoot(t *testing.T) {
	r, fs := newFixture(t)
	_, err := r.CollectDependencies(context.Background(), newSession(fs), repository.CollectRequest{
		Root:         repository.Dependency{Artifact: artifact.New("org.example", "absent", "1.0")},
		Repositories: []repository.Repository{testRepo},
	})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

type noTraverse struct{}

func (noTraverse) Traverse(repository.Dependency) bool { return false }

func TestCollectHonoursTraverser(t *testing.T) {
	r, fs := newFixture(t)
	s := newSession(fs)
	s.DependencyTraverser = noTraverse{}

	res, err := r.CollectDependencies(context.Background(), s, repository.CollectRequest{
		Root:         repository.Dependency{Artifact: artifact.New("org.example", "app", "1.0")},
		Repositories: []repository.Repository{testRepo},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tree(res.Root), []string{"1 lib:2.1", "1 util:3.0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
}
