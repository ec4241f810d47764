package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		f    dataFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve [taxdump]",
		Short: "Serve the taxonomy over HTTP",
		Long: `Load the taxonomy once and serve it over HTTP:

  GET /healthz
  GET /ranks
  GET /taxa/{id}                           taxon as JSON
  GET /taxa/{id}/tree?depth=N&ids=a,b      indented tree
  GET /taxa/{id}/lineages?ids=a,b          lineage CSV
  GET /metrics                             Prometheus metrics

The server stops gracefully on interrupt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			f.names = true
			return c.runServe(cmd.Context(), args, f, addr)
		},
	}

	addDataFlags(cmd, &f, false)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")

	return cmd
}

// runServe loads the tree and serves it until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, args []string, f dataFlags, addr string) error {
	srv := server.New(nil, c.Logger)
	srv.Metrics.Install()

	ds, err := c.loadData(ctx, args, f, false)
	if err != nil {
		return err
	}
	srv.Tree = ds.tree

	printInfo("Serving %d taxa on %s", ds.tree.Len(), addr)
	printDetail("Metrics: http://%s/metrics", displayAddr(addr))

	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
	}
	return err
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
