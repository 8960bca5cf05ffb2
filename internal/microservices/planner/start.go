package planner

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"production-planner/internal/common/httpx"
	"production-planner/internal/common/logger"
	"production-planner/internal/config"
	"production-planner/internal/connections/rabbitmq"
	"production-planner/internal/microservices/planner/handler"
	"production-planner/internal/microservices/planner/repository"
	"production-planner/internal/microservices/planner/service"
	"production-planner/internal/planning"
)

// NewAggregator builds the planning core from configuration.
func NewAggregator(cfg config.PlanningConfig) *planning.Aggregator {
	return planning.NewAggregator(
		planning.NewClassifier(cfg.Machines, cfg.DNTMarker),
		planning.Settings{CapacityHours: cfg.CapacityHours, Location: cfg.Location(), DateField: cfg.DateField},
	)
}

// Run serves the planning API and, when a broker client is given, consumes
// pedido change events. It blocks until ctx is done or either side fails.
func Run(ctx context.Context, cfg *config.Config, db *sql.DB, rmq *rabbitmq.Client, log *logger.Logger) error {
	repo := repository.New(db, cfg.Database.Driver, log)

	var pub service.Publisher
	if rmq != nil {
		pub = rmq
	}
	svc := service.NewPlanningService(repo.OrderRepo, NewAggregator(cfg.Planning), pub, log, service.Options{
		SnapshotTTL:      cfg.Planning.CacheTTL,
		AnalysisExchange: cfg.RabbitMQ.AnalysisExchange,
	})
	checks := []handler.Check{{Name: "database", Ping: db.Ping}}
	if rmq != nil {
		checks = append(checks, handler.Check{Name: "rabbitmq", Ping: rmq.Ping})
	}
	srv := httpx.New(fmt.Sprintf(":%d", cfg.HTTP.Port), handler.Router(handler.New(svc, log, checks...)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http_listening", map[string]any{"addr": srv.Addr})
		return srv.Run(gctx)
	})
	if rmq != nil {
		g.Go(func() error {
			if err := rmq.Declare(rabbitmq.TopologyFrom(cfg.RabbitMQ)); err != nil {
				return err
			}
			deliveries, err := rmq.Consume(cfg.RabbitMQ.Queue, "planner", cfg.RabbitMQ.Prefetch)
			if err != nil {
				return fmt.Errorf("consume %s: %w", cfg.RabbitMQ.Queue, err)
			}
			return svc.Consume(gctx, deliveries)
		})
	}
	return g.Wait()
}
