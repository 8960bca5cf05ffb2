package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"production-planner/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
	pingTTL    = 5 * time.Second
)

// DriverName maps the configured driver to its database/sql name.
func DriverName(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return "pgx", nil
	case config.DriverSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// DSN builds the connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		if cfg.Path == ":memory:" {
			return cfg.Path
		}
		return "file:" + cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

// ConnectDB opens the order store and retries until it answers a ping or ctx
// is done.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver, err := DriverName(cfg)
	if err != nil {
		return nil, err
	}
	dsn := DSN(cfg)

	var db *sql.DB
	for i := 1; i <= maxRetries; i++ {
		db, err = sql.Open(driver, dsn)
		if err == nil {
			switch {
			case cfg.Driver == config.DriverSQLite && cfg.Path == ":memory:":
				// every connection would get its own empty database
				db.SetMaxOpenConns(1)
			case cfg.MaxConns > 0:
				db.SetMaxOpenConns(cfg.MaxConns)
			}
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = db.PingContext(pctx)
			cancel()
			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

// sqliteSchema mirrors the pedidos table of the Postgres store closely enough
// for the planner's read path.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pedidos (
	id                    TEXT PRIMARY KEY,
	numero_pedido_cliente TEXT,
	data                  TEXT NOT NULL,
	created_at            TEXT DEFAULT CURRENT_TIMESTAMP,
	updated_at            TEXT DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSQLiteSchema creates the pedidos table when missing. Postgres schemas
// are owned by the order service and are never touched.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create pedidos table: %w", err)
	}
	return nil
}
