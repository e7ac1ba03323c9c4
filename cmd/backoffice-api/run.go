package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apiserver "github.com/placementdesk/backoffice/internal/api_server"
	"github.com/placementdesk/backoffice/internal/config"
	"github.com/placementdesk/backoffice/internal/events"
	"github.com/placementdesk/backoffice/internal/service"
	"github.com/placementdesk/backoffice/internal/store"
	"github.com/placementdesk/backoffice/internal/sweeper"
	"github.com/placementdesk/backoffice/pkg/log"
	"github.com/placementdesk/backoffice/pkg/migrations"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the back-office api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if cfg.Service.MigrationFolder != "" {
			if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
				zap.S().Fatalw("running migrations", "error", err)
			}
		} else if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		producer, err := newEventProducer(cfg)
		if err != nil {
			zap.S().Fatalw("creating event producer", "error", err)
		}
		defer producer.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, producer, listener)
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

		go func() {
			resolver := service.NewLookupResolver(s)
			sw := sweeper.New(
				service.NewOwnershipService(s, producer),
				service.NewClassifierService(s, resolver),
				cfg.Service.ExpirySweepInterval,
				cfg.Service.BucketRepairInterval,
			)
			sw.Run(ctx)
		}()

		<-ctx.Done()
		return nil
	},
}

func newEventProducer(cfg *config.Config) (*events.EventProducer, error) {
	if len(cfg.Service.Kafka.Brokers) == 0 {
		zap.S().Info("no kafka brokers configured, events are written to stdout")
		return events.NewEventProducer(&events.StdoutWriter{}), nil
	}

	w, err := events.NewKafkaWriter(cfg.Service.Kafka.Brokers, cfg.Service.Kafka.ClientID)
	if err != nil {
		return nil, err
	}
	return events.NewEventProducer(w, events.WithOutputTopic(cfg.Service.Kafka.Topic)), nil
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
