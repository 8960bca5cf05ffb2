package repository

import (
	"database/sql"

	"production-planner/internal/common/logger"
)

type Repository struct {
	OrderRepo OrderRepositoryInterface
}

func New(db *sql.DB, driver string, log *logger.Logger) *Repository {
	return &Repository{
		OrderRepo: NewOrderRepository(db, driver, log),
	}
}
