package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/market-copilot/internal/scheduler"
	"github.com/jonathan/market-copilot/internal/server"
)

var (
	servePort            int
	serveRefreshInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Serve /ask, /datasets/{name}, /ingest, /health and /metrics. With --refresh-interval the snapshots are re-ingested periodically.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().DurationVar(&serveRefreshInterval, "refresh-interval", 0, "Re-ingest every interval; 0 disables (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := a.engine(ctx)
	if err != nil {
		return err
	}
	runner, err := a.runner(ctx)
	if err != nil {
		return err
	}

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	interval := a.cfg.Server.RefreshInterval
	if cmd.Flags().Changed("refresh-interval") {
		interval = serveRefreshInterval
	}

	srv := server.New(server.Config{Port: port}, server.Deps{
		Engine:    engine,
		Snapshots: a.store,
		Ingester:  runner,
		Metrics:   a.metrics,
		Logger:    a.logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if interval > 0 {
		g.Go(func() error {
			err := scheduler.Every(gctx, interval, "ingest", func(ctx context.Context) error {
				_, err := runner.RunAll(ctx)
				return err
			}, a.logger.Named("scheduler"))
			if gctx.Err() != nil {
				return nil
			}
			return err
		})
		a.logger.Info("periodic ingestion enabled", zap.Duration("interval", interval))
	}

	return g.Wait()
}
