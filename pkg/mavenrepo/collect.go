package mavenrepo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// CollectDependencies builds the dependency graph breadth first. The
// session decides which dependencies are included (DependencySelector),
// how they are managed (DependencyManager) and whether their own
// dependencies are followed (DependencyTraverser). The first occurrence
// of a coordinate wins; later ones, whatever their version, are dropped.
// Descriptors that cannot be read are recorded as exceptions and leave
// their node without children.
func (r *Resolver) CollectDependencies(ctx context.Context, s *repository.Session, req repository.CollectRequest) (*repository.CollectResult, error) {
	repo, err := r.target(s, req.Repositories)
	if err != nil {
		return nil, err
	}
	res := &repository.CollectResult{Request: req}
	managed := append([]repository.Dependency(nil), req.ManagedDependencies...)

	root := &repository.DependencyNode{Dependency: req.Root, Repository: repo}
	direct := req.Dependencies
	seen := make(map[string]bool)
	if !req.Root.IsZero() {
		desc, err := r.ReadDescriptor(ctx, s, r.descriptorRequest(req, repo, req.Root.Artifact))
		if err != nil {
			return nil, err
		}
		root.Repository = desc.Repository
		direct = append(append([]repository.Dependency(nil), desc.Dependencies...), req.Dependencies...)
		managed = append(managed, desc.ManagedDependencies...)
		seen[conflictKey(req.Root.Artifact)] = true
	}

	type pending struct {
		parent *repository.DependencyNode
		deps   []repository.Dependency
	}
	level := []pending{{root, direct}}
	for len(level) > 0 {
		var nodes []*repository.DependencyNode
		for _, p := range level {
			for _, d := range p.deps {
				d = s.DependencyManager.Manage(d, managed)
				if !s.DependencySelector.Select(d) {
					continue
				}
				k := conflictKey(d.Artifact)
				if seen[k] {
					continue
				}
				seen[k] = true
				n := &repository.DependencyNode{Dependency: d, Repository: repo}
				p.parent.Children = append(p.parent.Children, n)
				nodes = append(nodes, n)
			}
		}

		children := make([][]repository.Dependency, len(nodes))
		errs := make([]error, len(nodes))
		var g errgroup.Group
		g.SetLimit(r.parallelism)
		for i, n := range nodes {
			if !s.DependencyTraverser.Traverse(n.Dependency) {
				continue
			}
			if n.Dependency.Artifact.Version == "" && !s.Offline {
				r.logger.Debug("not traversing unversioned dependency", "dependency", n.Dependency.Artifact)
				continue
			}
			g.Go(func() error {
				desc, err := r.ReadDescriptor(ctx, s, r.descriptorRequest(req, repo, n.Dependency.Artifact))
				if err != nil {
					errs[i] = err
					return nil
				}
				n.Repository = desc.Repository
				children[i] = desc.Dependencies
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		level = level[:0]
		for i, n := range nodes {
			if errs[i] != nil {
				res.Exceptions = append(res.Exceptions, errs[i])
			}
			if len(children[i]) > 0 {
				level = append(level, pending{n, children[i]})
			}
		}
	}

	out, err := s.DependencyGraphTransformer.Transform(root)
	if err != nil {
		res.Exceptions = append(res.Exceptions, err)
		out = root
	}
	res.Root = out
	return res, nil
}

func (r *Resolver) descriptorRequest(req repository.CollectRequest, repo repository.Repository, c artifact.Coordinate) repository.DescriptorRequest {
	return repository.DescriptorRequest{
		Artifact:     c,
		Repositories: []repository.Repository{repo},
		Context:      req.Context,
		Trace:        req.Trace,
	}
}

// conflictKey identifies a dependency regardless of its version.
func conflictKey(c artifact.Coordinate) string {
	return c.Key() + ":" + c.Extension + ":" + c.Classifier
}
