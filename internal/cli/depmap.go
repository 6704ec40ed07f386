package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fossrepo/pkg/remap"
)

// depmapCommand creates the depmap inspection command.
func (c *CLI) depmapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depmap",
		Short: "Inspect the depmap remap table",
		Long: `Inspect the remap table built from the depmap fragments.

The table is read from the base depmap file (versionless mode only), the
fragment directories in sorted order and the optional depmap_file, with
later entries overriding earlier ones.`,
	}

	cmd.AddCommand(c.depmapLookupCommand())
	cmd.AddCommand(c.depmapDumpCommand())
	cmd.AddCommand(c.depmapDigestCommand())

	return cmd
}

// depmapLookupCommand creates the "depmap lookup" subcommand.
func (c *CLI) depmapLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <group:name[:version]>...",
		Short:   "Translate coordinates through the remap table",
		Example: `  fossrepo depmap lookup commons-lang:commons-lang`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := parseCoordinates(args)
			if err != nil {
				return err
			}
			table, err := c.loadDepmap(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, co := range coords {
				target, ok := table.Find(co.Group, co.Name, co.Version)
				subject := co.Group + ":" + co.Name
				if table.Mode() == remap.VersionAware && co.Version != "" {
					subject += ":" + co.Version
				}
				switch {
				case !ok:
					printInfo(out, "%s is not mapped", subject)
				case target.Elided():
					printWarning(out, "%s is elided", subject)
				default:
					printSuccess(out, "%s %s %s", subject, iconArrow, target)
				}
			}
			return nil
		},
	}
}

// depmapDumpCommand creates the "depmap dump" subcommand.
func (c *CLI) depmapDumpCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every entry of the remap table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatText, formatJSON, formatYAML, formatTOML); err != nil {
				return err
			}
			table, err := c.loadDepmap(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := table.Entries()
			if format != formatText {
				return writeStructured(out, format, newDepmapView(table))
			}
			if len(entries) == 0 {
				printInfo(out, "The remap table is empty")
				return nil
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				from := e.Key.Group + ":" + e.Key.Name
				if e.Key.Version != "" {
					from += ":" + e.Key.Version
				}
				rows[i] = []string{from, e.Target.String()}
			}
			fmt.Fprintln(out, renderTable([]string{"Maven", "Javadir"}, rows))
			printDetail(out, "%d entries, %s", len(entries), table.Mode())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml, toml")

	return cmd
}

// depmapDigestCommand creates the "depmap digest" subcommand.
func (c *CLI) depmapDigestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Print a content digest of the remap table",
		Long: `Print a SHA-256 digest of the remap table's mode and sorted entries.
Two hosts with the same digest remap identically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.loadDepmap(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.Digest())
			loggerFromContext(cmd.Context()).Debug("depmap digest", "entries", table.Len(), "mode", table.Mode())
			return nil
		},
	}
}

func (c *CLI) loadDepmap(cmd *cobra.Command) (*remap.Table, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	prog := newProgress(loggerFromContext(cmd.Context()))
	table, err := c.newDepmap(cfg).Get(cmd.Context())
	if err != nil {
		return nil, err
	}
	prog.done("Loaded " + strconv.Itoa(table.Len()) + " depmap entries")
	return table, nil
}

// depmapView is the structured form of the remap table.
type depmapView struct {
	Mode    string           `json:"mode" yaml:"mode" toml:"mode"`
	Digest  string           `json:"digest" yaml:"digest" toml:"digest"`
	Entries []depmapViewItem `json:"entries" yaml:"entries" toml:"entry"`
}

type depmapViewItem struct {
	Group         string `json:"group" yaml:"group" toml:"group"`
	Name          string `json:"name" yaml:"name" toml:"name"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	TargetGroup   string `json:"targetGroup" yaml:"targetGroup" toml:"target_group"`
	TargetName    string `json:"targetName" yaml:"targetName" toml:"target_name"`
	TargetVersion string `json:"targetVersion,omitempty" yaml:"targetVersion,omitempty" toml:"target_version,omitempty"`
}

func newDepmapView(t *remap.Table) depmapView {
	entries := t.Entries()
	v := depmapView{
		Mode:    t.Mode().String(),
		Digest:  t.Digest(),
		Entries: make([]depmapViewItem, len(entries)),
	}
	for i, e := range entries {
		v.Entries[i] = depmapViewItem{
			Group:         e.Key.Group,
			Name:          e.Key.Name,
			Version:       e.Key.Version,
			TargetGroup:   e.Target.Group,
			TargetName:    e.Target.Name,
			TargetVersion: e.Target.Version,
		}
	}
	return v
}
