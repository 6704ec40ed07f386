package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/dag"
	"github.com/matzehuels/fossrepo/pkg/javadir"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// collectCommand creates the collect command.
func (c *CLI) collectCommand() *cobra.Command {
	var (
		noCache  bool
		format   string
		output   string
		detailed bool
		resolve  bool
	)

	cmd := &cobra.Command{
		Use:   "collect <coordinate>",
		Short: "Collect the dependency graph of an artifact",
		Long: `Collect the transitive dependency graph of an artifact.

With use_secondary enabled the javadir store is asked first; its graph is
used only when it is complete. Otherwise the primary repository builds the
graph, nearest declaration first.

Formats: text prints an indented tree, dot and svg render the graph with
javadir nodes dashed, json and yaml dump the tree.`,
		Example: `  fossrepo collect org.example:app:1.0
  fossrepo collect org.example:app:1.0 --format svg -o app.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatDOT, formatSVG, formatJSON, formatYAML); err != nil {
				return err
			}
			co, err := artifact.Parse(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := c.newApp(ctx, noCache)
			if err != nil {
				return err
			}
			defer a.Close()

			req := repository.CollectRequest{
				Root:    repository.Dependency{Artifact: co},
				Context: requestContext,
			}

			spin := newSpinner(ctx, cmd.ErrOrStderr(), "Collecting "+co.String())
			spin.Start()
			var (
				collected *repository.CollectResult
				outcomes  []repository.ArtifactOutcome
			)
			if resolve {
				var res *repository.DependencyResult
				res, err = a.sys.ResolveDependencies(ctx, a.session(), repository.DependencyRequest{Collect: req})
				if res != nil {
					collected, outcomes = res.Collect, res.Artifacts
				}
			} else {
				collected, err = a.sys.CollectDependencies(ctx, a.session(), req)
			}
			spin.Stop()
			if collected == nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case formatText:
				writeTree(&buf, collected.Root, outcomes)
			case formatJSON, formatYAML:
				if werr := writeStructured(&buf, format, newTreeView(collected.Root)); werr != nil {
					return werr
				}
			case formatDOT, formatSVG:
				g := dag.FromDependencies(collected.Root)
				dot := dag.ToDOT(g, dag.DOTOptions{Detailed: detailed, Dashed: []string{javadir.RepositoryID}})
				if format == formatDOT {
					buf.WriteString(dot)
					break
				}
				svg, rerr := dag.RenderSVG(ctx, dot)
				if rerr != nil {
					return rerr
				}
				buf.Write(svg)
			}

			status := cmd.ErrOrStderr()
			if output != "" {
				if werr := afero.WriteFile(c.Fs, output, buf.Bytes(), 0o644); werr != nil {
					return fmt.Errorf("write %s: %w", output, werr)
				}
				printMatch(status, "Collected "+co.String(), collected.Match, collectRepo(a, collected))
				printFile(status, output)
			} else {
				if _, werr := cmd.OutOrStdout().Write(buf.Bytes()); werr != nil {
					return werr
				}
				if collected.Degraded() {
					printMatch(status, "Collected "+co.String(), collected.Match, collectRepo(a, collected))
				}
			}
			printExceptions(status, collected.Exceptions)
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, dot, svg, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add node metadata to dot and svg labels")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "also resolve every collected artifact to a file")

	return cmd
}

func collectRepo(a *app, res *repository.CollectResult) repository.Repository {
	if res.Match == repository.MatchSecondary {
		return a.store.Repository()
	}
	return a.sys.Primary()
}

// writeTree prints root as an indented tree. Nodes served by a store other
// than the primary are tagged with its ID; with outcomes, each node also
// shows its resolved file or error.
func writeTree(w io.Writer, root *repository.DependencyNode, outcomes []repository.ArtifactOutcome) {
	resolved := make(map[artifact.Coordinate]repository.ArtifactOutcome, len(outcomes))
	for _, o := range outcomes {
		if o.Result != nil {
			resolved[o.Result.Request.Artifact] = o
		}
	}

	root.Walk(func(n *repository.DependencyNode, depth int) bool {
		if n.Dependency.IsZero() {
			return true
		}
		line := strings.Repeat("  ", depth) + n.Dependency.Artifact.String()
		if n.Dependency.Scope != "" && n.Dependency.Scope != "compile" {
			line += " " + StyleDim.Render("("+n.Dependency.Scope+")")
		}
		if n.Repository.ID != "" && n.Repository.ID != repository.PrimaryID {
			line += " " + StyleWarning.Render("["+n.Repository.ID+"]")
		}
		if o, ok := resolved[n.Dependency.Artifact]; ok {
			line += " " + StyleDim.Render(iconArrow+" "+o.Result.Path)
		}
		fmt.Fprintln(w, line)
		return true
	})
}

// treeView is the structured form of a collected tree.
type treeView struct {
	Coordinate string     `json:"coordinate,omitempty" yaml:"coordinate,omitempty"`
	Scope      string     `json:"scope,omitempty" yaml:"scope,omitempty"`
	Optional   bool       `json:"optional,omitempty" yaml:"optional,omitempty"`
	Repository string     `json:"repository,omitempty" yaml:"repository,omitempty"`
	Children   []treeView `json:"children,omitempty" yaml:"children,omitempty"`
}

func newTreeView(n *repository.DependencyNode) treeView {
	if n == nil {
		return treeView{}
	}
	v := treeView{
		Scope:      n.Dependency.Scope,
		Optional:   n.Dependency.Optional,
		Repository: n.Repository.ID,
	}
	if !n.Dependency.IsZero() {
		v.Coordinate = n.Dependency.Artifact.String()
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, newTreeView(c))
	}
	return v
}
