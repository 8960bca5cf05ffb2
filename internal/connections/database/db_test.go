package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-planner/internal/config"
)

func TestDSN(t *testing.T) {
	pg := DSN(config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", Port: 5432, User: "planner", Password: "p@ss word", Database: "pigmea"})
	assert.Equal(t, "postgres://planner:p%40ss%20word@db:5432/pigmea?sslmode=disable", pg)

	assert.Equal(t, ":memory:", DSN(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}))
	assert.Contains(t, DSN(config.DatabaseConfig{Driver: config.DriverSQLite, Path: "/data/pigmea.db"}), "file:/data/pigmea.db?")
}

func TestDriverName(t *testing.T) {
	name, err := DriverName(config.DatabaseConfig{Driver: config.DriverSQLite})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", name)

	name, err = DriverName(config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)

	_, err = DriverName(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestConnectSQLiteInMemory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := ConnectDB(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSQLiteSchema(ctx, db))
	require.NoError(t, EnsureSQLiteSchema(ctx, db), "schema creation is idempotent")

	_, err = db.ExecContext(ctx, `INSERT INTO pedidos (id, data) VALUES ('1', '{}')`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pedidos`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestConnectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectDB(ctx, config.DatabaseConfig{Driver: config.DriverPostgres, Host: "127.0.0.1", Port: 1, Database: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
