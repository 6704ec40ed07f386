package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fossrepo/pkg/artifact"
	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// requestContext tags requests issued by the CLI.
const requestContext = "cli"

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		noCache bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "resolve <coordinate>...",
		Short: "Resolve artifacts to files",
		Long: `Resolve one or more artifacts to files.

Coordinates have the form group:name[:extension[:classifier]]:version.
Each artifact is looked up in the primary repository, then as its LATEST
version, then in the javadir store when use_secondary is enabled.
Degraded matches are flagged with a warning.`,
		Example: `  fossrepo resolve org.apache.commons:commons-lang3:3.14.0
  fossrepo resolve junit:junit:pom:4.13.2 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			coords, err := parseCoordinates(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := c.newApp(ctx, noCache)
			if err != nil {
				return err
			}
			defer a.Close()

			reqs := make([]repository.ArtifactRequest, len(coords))
			for i, co := range coords {
				reqs[i] = repository.ArtifactRequest{Artifact: co, Context: requestContext}
			}

			prog := newProgress(loggerFromContext(ctx))
			outcomes, err := a.sys.ResolveArtifacts(ctx, a.session(), reqs)
			if outcomes == nil {
				return err
			}
			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
				}
			}
			prog.done(fmt.Sprintf("Resolved %d of %d artifacts", len(outcomes)-failed, len(outcomes)))

			out := cmd.OutOrStdout()
			if format != formatText {
				view := artifactsView{Artifacts: make([]artifactView, len(outcomes))}
				for i, o := range outcomes {
					view.Artifacts[i] = newArtifactView(coords[i].String(), o)
				}
				if err := writeStructured(out, format, view); err != nil {
					return err
				}
			} else {
				for i, o := range outcomes {
					if o.Err != nil {
						printError(out, "%s", coords[i])
						printDetail(out, "%v", o.Err)
						continue
					}
					printMatch(out, o.Result.Artifact.String(), o.Result.Match, o.Result.Repository)
					printFile(out, o.Result.Path)
					printExceptions(out, o.Result.Exceptions)
				}
			}

			if failed > 0 {
				return errors.New(errors.ErrCodeResolutionExhausted, "%d of %d artifacts could not be resolved", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")

	return cmd
}

// rangeCommand creates the range command.
func (c *CLI) rangeCommand() *cobra.Command {
	var (
		noCache bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "range <coordinate>",
		Short: "List the versions matching a version range",
		Long: `List the versions of an artifact matching a version range.

The version part of the coordinate is a Maven range such as [1.0,2.0) or
a single version. If the primary repository cannot serve the highest
match and use_secondary is enabled, that version is bound to the javadir
store.`,
		Example: `  fossrepo range 'org.slf4j:slf4j-api:[1.7,2.0)'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML); err != nil {
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

			res, err := a.sys.ResolveVersionRange(ctx, a.session(), repository.VersionRangeRequest{
				Artifact: co,
				Context:  requestContext,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return writeStructured(out, format, newVersionsView(args[0], res))
			}
			if len(res.Versions) == 0 {
				printInfo(out, "No versions of %s match %s", co.Group+":"+co.Name, co.Version)
				return nil
			}
			repo, _ := res.Repository(res.HighestVersion())
			printMatch(out, fmt.Sprintf("%d versions match %s", len(res.Versions), co.Version), res.Match, repo)
			rows := make([][]string, len(res.Versions))
			for i, v := range res.Versions {
				r, _ := res.Repository(v)
				rows[i] = []string{v, r.ID}
			}
			fmt.Fprintln(out, renderTable([]string{"Version", "Repository"}, rows))
			printExceptions(out, res.Exceptions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")

	return cmd
}

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "version <coordinate>",
		Short: "Resolve LATEST or RELEASE to a concrete version",
		Long: `Resolve a LATEST or RELEASE version to the concrete version named by the
primary repository's metadata. Concrete versions are printed unchanged.
Only the primary repository is consulted.`,
		Example: `  fossrepo version org.example:lib:RELEASE`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			co, err := artifact.Parse(args[0])
			if err != nil {
				return err
			}
			if co.Version == "" {
				co = co.WithVersion(artifact.Latest)
			}

			ctx := cmd.Context()
			a, err := c.newApp(ctx, noCache)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.sys.ResolveVersion(ctx, a.session(), repository.VersionRequest{
				Artifact: co,
				Context:  requestContext,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "%s %s %s", co, iconArrow, res.Version)
			if !res.Repository.IsZero() {
				printDetail(out, "from %s", res.Repository)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")

	return cmd
}

// describeCommand creates the describe command.
func (c *CLI) describeCommand() *cobra.Command {
	var (
		noCache bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "describe <coordinate>",
		Short: "Read an artifact descriptor and list its dependencies",
		Long: `Read the descriptor (POM) of an artifact and list its direct and managed
dependencies. Descriptors found only in the javadir store have missing
dependency versions filled in.`,
		Example: `  fossrepo describe org.apache.maven:maven-core:3.9.6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML, formatTOML); err != nil {
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

			res, err := a.sys.ReadDescriptor(ctx, a.session(), repository.DescriptorRequest{
				Artifact: co,
				Context:  requestContext,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return writeStructured(out, format, newDescriptorView(res))
			}
			printMatch(out, res.Artifact.String(), res.Match, res.Repository)
			printKeyValue(out, "repository", res.Repository.String())
			printKeyValue(out, "dependencies", fmt.Sprint(len(res.Dependencies)))
			if len(res.Dependencies) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Dependency", "Scope", "Optional"}, dependencyRows(res.Dependencies)))
			}
			if len(res.ManagedDependencies) > 0 {
				printKeyValue(out, "managed", fmt.Sprint(len(res.ManagedDependencies)))
				fmt.Fprintln(out, renderTable([]string{"Managed", "Scope", "Optional"}, dependencyRows(res.ManagedDependencies)))
			}
			printExceptions(out, res.Exceptions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml, toml")

	return cmd
}

func dependencyRows(deps []repository.Dependency) [][]string {
	rows := make([][]string, len(deps))
	for i, d := range deps {
		optional := ""
		if d.Optional {
			optional = "yes"
		}
		rows[i] = []string{d.Artifact.String(), d.Scope, optional}
	}
	return rows
}

// parseCoordinates parses every argument, reporting all invalid ones.
func parseCoordinates(args []string) ([]artifact.Coordinate, error) {
	coords := make([]artifact.Coordinate, 0, len(args))
	var bad []string
	for _, arg := range args {
		co, err := artifact.Parse(arg)
		if err != nil {
			bad = append(bad, arg)
			continue
		}
		coords = append(coords, co)
	}
	if len(bad) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid coordinate(s) %s (expected group:name[:extension[:classifier]]:version)", strings.Join(bad, ", "))
	}
	return coords, nil
}
