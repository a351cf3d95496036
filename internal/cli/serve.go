package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/server"
	"github.com/rshade/webtables/internal/table"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo order tables over HTTP",
		Long: `Starts an HTTP server with the demo order tables:

  /orders/index        full page, or fragments when render flags are given
  /orders/pager        pager region only (selected by route data)
  /admin/orders/index  admin listing with its own catalog scope
  /healthz             liveness probe`,
		Example: `  # Serve on the configured address
  webtables serve

  # Serve on all interfaces, backed by SQLite
  WEBTABLES_DATA_SOURCE=sqlite webtables serve --addr :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) (err error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	orders, closeOrders, err := openOrders(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeOrders()) }()

	srv, err := server.New(server.Options{
		Server:      cfg.Server,
		Tables:      cfg.Tables,
		Definitions: table.NewRegistry(cat),
		Orders:      orders,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
