package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-planner/internal/domain"
)

const sample = `
database:
  driver: sqlite
  path: /var/lib/pigmea/pigmea.db
rabbitmq:
  enabled: false
http:
  port: 8080
logging:
  level: debug
planning:
  capacity_hours: 160
  date_field: fechaEntrega
  timezone: UTC
  dnt_marker: prioritaria
  cache_ttl: 90s
  machines:
    - id: wm1
      name: WM1
      aliases: ["Windmöller 1"]
      counts_against_capacity: true
    - id: flexo
      name: FLEXO
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/var/lib/pigmea/pigmea.db", cfg.Database.Path)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "pedidos_events", cfg.RabbitMQ.Exchange, "defaults survive partial sections")
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 160.0, cfg.Planning.CapacityHours)
	assert.Equal(t, domain.DateDelivery, cfg.Planning.DateField)
	assert.Equal(t, "prioritaria", cfg.Planning.DNTMarker)
	assert.Equal(t, 90*time.Second, cfg.Planning.CacheTTL)
	assert.Equal(t, []domain.Machine{
		{ID: "wm1", Name: "WM1", Aliases: []string{"Windmöller 1"}, CountsAgainstCapacity: true},
		{ID: "flexo", Name: "FLEXO"},
	}, cfg.Planning.Machines)
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.Planning, cfg.Planning)
	assert.Equal(t, want.Database, cfg.Database)
	assert.Equal(t, 190.0, cfg.Planning.CapacityHours)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "database: [",
		"unknown driver":   "database: {driver: mysql}",
		"sqlite no path":   "database: {driver: sqlite}",
		"zero capacity":    "planning: {capacity_hours: 0}",
		"bad date field":   "planning: {date_field: fechaRara}",
		"bad timezone":     "planning: {timezone: Mars/Olympus}",
		"nameless machine": "planning: {machines: [{id: x}]}",
		"port":             "http: {port: 70000}",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_DB_PASSWORD", "s3cret")
	t.Setenv("PLANNER_RABBITMQ_PASSWORD", "rabbit")
	t.Setenv("PLANNER_HTTP_PORT", "9090")
	t.Setenv("PLANNER_CAPACITY_HOURS", "175.5")

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "rabbit", cfg.RabbitMQ.Password)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 175.5, cfg.Planning.CapacityHours)
}

func TestEnvOverrideMalformed(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "PLANNER_HTTP_PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, PlanningConfig{Timezone: "UTC"}.Location())
	assert.Equal(t, time.UTC, PlanningConfig{Timezone: "Nowhere/Land"}.Location())
}
