package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the full harness configuration, loaded from YAML.
type Config struct {
	Postgres  PostgresConfig  `yaml:"postgres"`
	Generate  GenerateConfig  `yaml:"generate"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
}

// PostgresConfig contains database connection settings.
type PostgresConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Database     string `yaml:"database"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// GenerateConfig holds target row counts and the bulk-load batch size.
type GenerateConfig struct {
	Departments int64 `yaml:"departments"`
	Users       int64 `yaml:"users"`
	Orders      int64 `yaml:"orders"`
	BatchSize   int   `yaml:"batch_size"`
}

// BenchmarkConfig holds benchmark execution settings.
type BenchmarkConfig struct {
	Iterations              int  `yaml:"iterations"`
	StatementTimeoutSeconds int  `yaml:"statement_timeout_seconds"`
	SampleSystemMetrics     bool `yaml:"sample_system_metrics"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Postgres: PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "index_lab",
			User:         "postgres",
			Password:     "",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Generate: GenerateConfig{
			Departments: 50,
			Users:       1_000_000,
			Orders:      2_000_000,
			BatchSize:   10_000,
		},
		Benchmark: BenchmarkConfig{
			Iterations:              5,
			StatementTimeoutSeconds: 300,
			SampleSystemMetrics:     true,
		},
	}
}

// LoadFromFile loads configuration from a YAML file, substituting
// environment variable references before unmarshalling. A missing path
// returns the defaults.
func LoadFromFile(path string, log logrus.FieldLogger) (*Config, error) {
	log = log.WithField("component", "config")

	if path == "" {
		log.Info("No config path provided, using defaults")
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content, err := SubstituteEnvVars(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	log.WithFields(logrus.Fields{
		"pg_host":     cfg.Postgres.Host,
		"pg_port":     cfg.Postgres.Port,
		"pg_database": cfg.Postgres.Database,
		"departments": cfg.Generate.Departments,
		"users":       cfg.Generate.Users,
		"orders":      cfg.Generate.Orders,
		"batch_size":  cfg.Generate.BatchSize,
		"iterations":  cfg.Benchmark.Iterations,
	}).Info("Loaded configuration")

	return &cfg, nil
}

// applyDefaults backfills zero-valued fields with defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Postgres.Host == "" {
		c.Postgres.Host = def.Postgres.Host
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = def.Postgres.Port
	}
	if c.Postgres.Database == "" {
		c.Postgres.Database = def.Postgres.Database
	}
	if c.Postgres.User == "" {
		c.Postgres.User = def.Postgres.User
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = def.Postgres.SSLMode
	}
	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = def.Postgres.MaxOpenConns
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = def.Postgres.MaxIdleConns
	}
	if c.Generate.Departments == 0 {
		c.Generate.Departments = def.Generate.Departments
	}
	if c.Generate.Users == 0 {
		c.Generate.Users = def.Generate.Users
	}
	if c.Generate.Orders == 0 {
		c.Generate.Orders = def.Generate.Orders
	}
	if c.Generate.BatchSize == 0 {
		c.Generate.BatchSize = def.Generate.BatchSize
	}
	if c.Benchmark.Iterations == 0 {
		c.Benchmark.Iterations = def.Benchmark.Iterations
	}
	if c.Benchmark.StatementTimeoutSeconds == 0 {
		c.Benchmark.StatementTimeoutSeconds = def.Benchmark.StatementTimeoutSeconds
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Postgres.Validate(); err != nil {
		return fmt.Errorf("invalid postgres configuration: %w", err)
	}
	if c.Generate.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be greater than 0")
	}
	if c.Generate.Departments < 0 || c.Generate.Users < 0 || c.Generate.Orders < 0 {
		return fmt.Errorf("target row counts must not be negative")
	}
	if c.Benchmark.Iterations <= 0 {
		return fmt.Errorf("iterations must be greater than 0")
	}
	if c.Benchmark.StatementTimeoutSeconds <= 0 {
		return fmt.Errorf("statement_timeout_seconds must be greater than 0")
	}
	return nil
}

// Validate validates the PostgreSQL configuration.
func (c *PostgresConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max_open_conns must be greater than 0")
	}
	if c.MaxIdleConns <= 0 {
		return fmt.Errorf("max_idle_conns must be greater than 0")
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// StatementTimeout returns the per-statement timeout as a duration.
func (c *BenchmarkConfig) StatementTimeout() time.Duration {
	return time.Duration(c.StatementTimeoutSeconds) * time.Second
}
