package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fossrepo/internal/api"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP",
		Long: `Serve artifact, version range and depmap lookups over HTTP.

Routes:
  GET /healthz
  GET /v1/artifacts/{coordinate}
  GET /v1/versions/{coordinate}
  GET /v1/depmap/{coordinate}

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx, noCache)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv, err := api.New(api.Config{
				System:  a.sys,
				Depmap:  a.depmap,
				Session: func() *repository.Session { return a.session() },
				Logger:  loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document cache")

	return cmd
}
