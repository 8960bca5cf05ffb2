package service

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/singleflight"

	"production-planner/internal/common/logger"
	"production-planner/internal/domain"
	"production-planner/internal/microservices/planner/repository"
	"production-planner/internal/planning"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)

	ErrAnalysisUnavailable = errors.New("analysis publishing is not configured")
)

const (
	// maxCachedResults bounds the result cache; past it the cache starts over.
	maxCachedResults = 256
	loadTimeout      = 30 * time.Second
)

type PlanningServiceInterface interface {
	Weeks(ctx context.Context, q planning.Query) (WeeksView, error)
	DrillDown(ctx context.Context, req DrillDownRequest) ([]domain.Order, error)
	Calendar(year int) []planning.CalendarWeek
	RequestAnalysis(ctx context.Context, q planning.Query) (string, error)
	Invalidate(reason string)
	Consume(ctx context.Context, deliveries <-chan amqp.Delivery) error
}

// Publisher is the broker side of the analysis hand-off.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

type Options struct {
	// SnapshotTTL bounds how long a loaded order list is trusted without an
	// invalidation event. Zero keeps it until the next invalidation.
	SnapshotTTL      time.Duration
	AnalysisExchange string
	Now              func() time.Time
}

// WeeksView is the planning table plus what the UI needs around it.
type WeeksView struct {
	Weeks        []planning.WeekBucket `json:"weeks"`
	CategoryKeys []planning.Category   `json:"category_keys"`
	Totals       planning.Totals       `json:"totals"`
	DataHash     string                `json:"data_hash"`
	Generation   uint64                `json:"generation"`
}

type DrillDownRequest struct {
	Query     planning.Query
	WeekKey   string
	Category  planning.Category
	Column    planning.SortColumn
	Direction planning.SortDirection
}

type snapshot struct {
	orders   []domain.Order
	gen      uint64
	loadedAt time.Time
}

type cached struct {
	snap   *snapshot
	result planning.Result
	view   WeeksView
}

type PlanningService struct {
	repo      repository.OrderRepositoryInterface
	agg       *planning.Aggregator
	publisher Publisher
	log       *logger.Logger
	opts      Options

	loads singleflight.Group

	mu      sync.RWMutex
	gen     uint64
	snap    *snapshot
	results map[string]cached
}

func NewPlanningService(repo repository.OrderRepositoryInterface, agg *planning.Aggregator, pub Publisher, log *logger.Logger, opts Options) *PlanningService {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PlanningService{
		repo:      repo,
		agg:       agg,
		publisher: pub,
		log:       log,
		opts:      opts,
		results:   make(map[string]cached),
	}
}

// Invalidate drops the order snapshot and every cached result.
func (s *PlanningService) Invalidate(reason string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.snap = nil
	clear(s.results)
	s.mu.Unlock()
	s.loads.Forget("orders")
	s.log.Info("cache_invalidated", map[string]any{"reason": reason, "generation": gen})
}

// orders returns the current snapshot, loading it once for all concurrent
// callers when missing or expired.
func (s *PlanningService) orders(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	snap, gen := s.snap, s.gen
	s.mu.RUnlock()
	if snap != nil && !s.expired(snap) {
		return snap, nil
	}

	v, err, _ := s.loads.Do("orders", func() (any, error) {
		// The load is shared, so one caller going away must not cancel it.
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		started := s.opts.Now()
		orders, err := s.repo.ListOrders(lctx)
		if err != nil {
			return nil, err
		}
		fresh := &snapshot{orders: orders, gen: gen, loadedAt: started}

		s.mu.Lock()
		defer s.mu.Unlock()
		// An invalidation that raced the load makes this list stale: hand it
		// to the callers that asked, but do not keep it.
		if s.gen == gen {
			s.snap = fresh
			clear(s.results)
		}
		s.log.Debug("orders_snapshot_loaded", map[string]any{"count": len(orders), "generation": gen})
		return fresh, nil
	})
	if err != nil {
		s.log.Error("orders_load_failed", err, nil)
		return nil, err
	}
	return v.(*snapshot), nil
}

func (s *PlanningService) expired(snap *snapshot) bool {
	return s.opts.SnapshotTTL > 0 && s.opts.Now().Sub(snap.loadedAt) >= s.opts.SnapshotTTL
}

// Generation is bumped by every invalidation.
func (s *PlanningService) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}
