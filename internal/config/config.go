package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"production-planner/internal/domain"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Planning PlanningConfig `yaml:"planning"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // sqlite file, ":memory:" allowed
	MaxConns int    `yaml:"max_conns"`
}

type RabbitMQConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	VHost            string `yaml:"vhost"`
	UseTLS           bool   `yaml:"use_tls"`
	Exchange         string `yaml:"exchange"`
	Queue            string `yaml:"queue"`
	AnalysisExchange string `yaml:"analysis_exchange"`
	Prefetch         int    `yaml:"prefetch"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PlanningConfig struct {
	CapacityHours float64          `yaml:"capacity_hours"`
	DateField     domain.DateField `yaml:"date_field"`
	Timezone      string           `yaml:"timezone"`
	DNTMarker     string           `yaml:"dnt_marker"`
	CacheTTL      time.Duration    `yaml:"cache_ttl"`
	Machines      []domain.Machine `yaml:"machines"`
}

// Default is the configuration used for every key the file leaves out.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "planner",
			Database: "pigmea",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:          true,
			Host:             "localhost",
			Port:             5672,
			User:             "guest",
			Password:         "guest",
			VHost:            "/",
			Exchange:         "pedidos_events",
			Queue:            "planner.invalidate",
			AnalysisExchange: "planning_analysis",
			Prefetch:         16,
		},
		HTTP:    HTTPConfig{Port: 3001},
		Logging: LoggingConfig{Level: "info"},
		Planning: PlanningConfig{
			CapacityHours: 190,
			DateField:     domain.DateRevisedDelivery,
			Timezone:      "UTC",
			DNTMarker:     "DNT",
			CacheTTL:      5 * time.Minute,
			Machines:      domain.DefaultMachines(),
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	cfg := Default()
	// A machines list in the file replaces the default one instead of merging.
	cfg.Planning.Machines = nil
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(cfg.Planning.Machines) == 0 {
		cfg.Planning.Machines = domain.DefaultMachines()
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PLANNER_DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookup("PLANNER_RABBITMQ_PASSWORD"); ok {
		c.RabbitMQ.Password = v
	}
	if v, ok := lookup("PLANNER_HTTP_PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: PLANNER_HTTP_PORT=%q", ErrInvalidConfig, v)
		}
		c.HTTP.Port = port
	}
	if v, ok := lookup("PLANNER_CAPACITY_HOURS"); ok {
		hours, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: PLANNER_CAPACITY_HOURS=%q", ErrInvalidConfig, v)
		}
		c.Planning.CapacityHours = hours
	}
	return nil
}

func (c *Config) Validate() error {
	var problems []string
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Database == "" {
			problems = append(problems, "database.host and database.database are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not postgres or sqlite", c.Database.Driver))
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.Host == "" || c.RabbitMQ.Exchange == "" || c.RabbitMQ.Queue == "") {
		problems = append(problems, "rabbitmq.host, rabbitmq.exchange and rabbitmq.queue are required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port %d out of range", c.HTTP.Port))
	}
	if c.Planning.CapacityHours <= 0 {
		problems = append(problems, "planning.capacity_hours must be positive")
	}
	if !c.Planning.DateField.Valid() {
		problems = append(problems, fmt.Sprintf("planning.date_field %q is not a known date field", c.Planning.DateField))
	}
	if _, err := time.LoadLocation(c.Planning.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("planning.timezone: %v", err))
	}
	for i, m := range c.Planning.Machines {
		if strings.TrimSpace(m.Name) == "" {
			problems = append(problems, fmt.Sprintf("planning.machines[%d] has no name", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Location is the plant's time zone. Validate has already checked it loads.
func (p PlanningConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
