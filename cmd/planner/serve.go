package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"production-planner/internal/config"
	"production-planner/internal/connections/database"
	"production-planner/internal/connections/rabbitmq"
	"production-planner/internal/microservices/planner"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning API and follow pedido changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lg := newLogger(cfg)
			defer lg.Sync()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			db, err := database.ConnectDB(ctx, cfg.Database)
			if err != nil {
				lg.Error("db_connect_failed", err, nil)
				return err
			}
			defer db.Close()
			if cfg.Database.Driver == config.DriverSQLite {
				if err := database.EnsureSQLiteSchema(ctx, db); err != nil {
					return err
				}
			}
			lg.Info("db_connected", map[string]any{"driver": cfg.Database.Driver})

			var rmq *rabbitmq.Client
			if cfg.RabbitMQ.Enabled {
				rmq, err = rabbitmq.Dial(cfg.RabbitMQ)
				if err != nil {
					lg.Error("rabbitmq_connect_failed", err, nil)
					return err
				}
				defer rmq.Close()
				lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "queue": cfg.RabbitMQ.Queue})
			}

			lg.Info("service_started", map[string]any{"port": cfg.HTTP.Port, "capacity_hours": cfg.Planning.CapacityHours})
			if err := planner.Run(ctx, cfg, db, rmq, lg); err != nil {
				lg.Error("fatal", err, nil)
				return err
			}
			lg.Info("service_stopped", nil)
			return nil
		},
	}
}
