package cmd

import (
	"os/signal"
	"syscall"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scores over HTTP with periodic refresh",
	Long: `Start an HTTP API over the current dataset generation.

The dataset is reloaded every --refresh interval and on POST /api/v1/refresh.
Each response carries the generation it was computed from in the
X-Locscore-Generation header. Prometheus metrics are served on /metrics.

Endpoints:
  GET  /health
  GET  /metrics
  GET  /api/v1/dataset
  GET  /api/v1/snapshot?month=
  GET  /api/v1/rolling?months=&month=
  GET  /api/v1/compare?base=&target=
  GET  /api/v1/locations/:name?month=
  GET  /api/v1/report?month=&rolling=
  POST /api/v1/refresh

Examples:
  locscore serve --addr :9090 --refresh 15m --data-url "https://.../export?format=csv"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := server.Start(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
