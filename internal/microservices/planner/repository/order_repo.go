package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"production-planner/internal/common/logger"
	"production-planner/internal/config"
	"production-planner/internal/domain"
)

type OrderRepositoryInterface interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderRepository reads pedidos as the JSON documents the order service
// stores in the data column. It never writes.
type OrderRepository struct {
	db    *sql.DB
	query string
	log   *logger.Logger
}

const (
	listPostgres = `SELECT data FROM pedidos ORDER BY secuencia_pedido DESC`
	listSQLite   = `SELECT data FROM pedidos ORDER BY updated_at DESC`
)

func NewOrderRepository(db *sql.DB, driver string, log *logger.Logger) *OrderRepository {
	q := listPostgres
	if driver == config.DriverSQLite {
		q = listSQLite
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &OrderRepository{db: db, query: q, log: log}
}

// ListOrders returns every stored pedido. Documents that do not decode are
// logged and skipped so one bad row cannot blank the plan.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, r.query)
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()

	var (
		out     []domain.Order
		skipped int
	)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		var o domain.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			skipped++
			r.log.Warn("pedido_decode_failed", map[string]any{"error": err.Error(), "bytes": len(raw)})
			continue
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pedidos: %w", err)
	}
	r.log.Debug("pedidos_loaded", map[string]any{"count": len(out), "skipped": skipped})
	return out, nil
}
