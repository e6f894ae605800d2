package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the learning API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, setupOptions{journal: true, market: true})
		if err != nil {
			return err
		}
		defer d.Close()

		cfg := d.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		srv := server.New(server.Deps{
			Config:    cfg,
			Catalog:   d.catalog,
			Market:    d.market,
			EventRepo: d.eventRepo(),
			Logger:    d.log.Named("http"),
			Cache:     d.market,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d.log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("metrics", cfg.Metrics))
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
