package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"plenapos/internal/http/handlers"
	applog "plenapos/internal/log"
	"plenapos/internal/repos"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.config()
			if port != "" {
				cfg.Port = port
			}

			// Optional file logging
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
				} else {
					defer f.Close()
					log.SetOutput(io.MultiWriter(os.Stdout, f))
				}
			}

			svc, err := rootOpts.open(cfg)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.SeedOnStart {
				n, err := repos.SeedIfNeeded(ctx, svc.Catalog)
				if err != nil {
					return WrapExitError(ExitFailure, "seed catalog", err)
				}
				if n > 0 {
					applog.Audit(nil, "catalog.seed", map[string]any{"added": n})
				}
			}
			res, err := svc.Reconciler.Run(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "reconcile stock", err)
			}
			applog.Info(nil, "stock.reconcile.startup", map[string]any{"applied": res.Applied, "adopted": res.Adopted})

			app := handlers.NewApp(cfg, svc)
			errc := make(chan error, 1)
			go func() { errc <- app.Listen(":" + cfg.Port) }()

			select {
			case err := <-errc:
				return WrapExitError(ExitFailure, "listen", err)
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
