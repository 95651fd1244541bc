package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	apiserver "github.com/gof-esteira/oficios-api/internal/api_server"
	"github.com/gof-esteira/oficios-api/internal/events"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the oficios api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		producer := events.NewEventProducer(&events.StdoutWriter{})
		defer func() { _ = producer.Close() }()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, listener, producer)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
