package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jengatower/pkg/observability/prom"
	"github.com/matzehuels/jengatower/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  POST /api/v1/analyze   {"manifest": "...", "github": "owner/repo", "include_dev": true}
  POST /api/v1/layout    saved report or array of packages
  GET  /healthz
  GET  /metrics          Prometheus metrics (disable with --metrics=false)

The server caches advisories with server.cache_backend (memory unless
configured otherwise) and shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunnerWithCache(ctx, c.cfg.ServerCache(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			var reg *prometheus.Registry
			if metrics {
				reg = prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				prom.New(reg).Install()
			}

			srv := server.New(server.Config{
				Runner:       runner,
				Logger:       c.Logger,
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
				Registry:     reg,
			})
			return srv.ListenAndServe(ctx, addr, c.cfg.Server.ReadTimeout.Duration, c.cfg.Server.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from server.addr)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")

	return cmd
}
