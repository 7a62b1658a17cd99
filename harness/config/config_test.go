package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite exercises configuration loading and validation.
type ConfigTestSuite struct {
	suite.Suite
	logger   logrus.FieldLogger
	tempDir  string
	testFile string
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.logger = logrus.New().WithField("test", "config")

	tempDir, err := os.MkdirTemp("", "harness_config_test_*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir
	suite.testFile = filepath.Join(tempDir, "config.yaml")
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ConfigTestSuite) TestDefaults() {
	t := suite.T()

	cfg := DefaultConfig()
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "index_lab", cfg.Postgres.Database)
	assert.Equal(t, "postgres", cfg.Postgres.User)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, int64(50), cfg.Generate.Departments)
	assert.Equal(t, int64(1_000_000), cfg.Generate.Users)
	assert.Equal(t, int64(2_000_000), cfg.Generate.Orders)
	assert.Equal(t, 10_000, cfg.Generate.BatchSize)
	assert.Equal(t, 5, cfg.Benchmark.Iterations)
	assert.Equal(t, 300, cfg.Benchmark.StatementTimeoutSeconds)
	assert.NoError(t, cfg.Validate())
}

func (suite *ConfigTestSuite) TestLoadEmptyPathUsesDefaults() {
	t := suite.T()

	cfg, err := LoadFromFile("", suite.logger)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func (suite *ConfigTestSuite) TestLoadMissingFileFails() {
	t := suite.T()

	_, err := LoadFromFile(filepath.Join(suite.tempDir, "nope.yaml"), suite.logger)
	assert.Error(t, err)
}

func (suite *ConfigTestSuite) TestLoadValidFile() {
	t := suite.T()

	content := `
postgres:
  host: db.internal
  port: 5433
  database: lab
  user: labadmin
  password: secret
generate:
  departments: 10
  users: 500
  orders: 1000
  batch_size: 100
benchmark:
  iterations: 3
  statement_timeout_seconds: 60
`
	require.NoError(t, os.WriteFile(suite.testFile, []byte(content), 0644))

	cfg, err := LoadFromFile(suite.testFile, suite.logger)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "lab", cfg.Postgres.Database)
	assert.Equal(t, "labadmin", cfg.Postgres.User)
	assert.Equal(t, int64(10), cfg.Generate.Departments)
	assert.Equal(t, int64(500), cfg.Generate.Users)
	assert.Equal(t, int64(1000), cfg.Generate.Orders)
	assert.Equal(t, 100, cfg.Generate.BatchSize)
	assert.Equal(t, 3, cfg.Benchmark.Iterations)
	assert.Equal(t, time.Minute, cfg.Benchmark.StatementTimeout())

	// Missing fields must be backfilled.
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5, cfg.Postgres.MaxIdleConns)
}

func (suite *ConfigTestSuite) TestLoadSubstitutesEnvironment() {
	t := suite.T()

	t.Setenv("HARNESS_TEST_PASSWORD", "hunter2")
	content := `
postgres:
  password: ${HARNESS_TEST_PASSWORD}
  host: ${HARNESS_TEST_HOST:-fallback.internal}
`
	require.NoError(t, os.WriteFile(suite.testFile, []byte(content), 0644))

	cfg, err := LoadFromFile(suite.testFile, suite.logger)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Postgres.Password)
	assert.Equal(t, "fallback.internal", cfg.Postgres.Host)
}

func (suite *ConfigTestSuite) TestValidationErrors() {
	t := suite.T()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.Postgres.Host = "" }},
		{"bad port", func(c *Config) { c.Postgres.Port = 70000 }},
		{"empty database", func(c *Config) { c.Postgres.Database = "" }},
		{"empty user", func(c *Config) { c.Postgres.User = "" }},
		{"zero batch size", func(c *Config) { c.Generate.BatchSize = 0 }},
		{"negative users", func(c *Config) { c.Generate.Users = -1 }},
		{"zero iterations", func(c *Config) { c.Benchmark.Iterations = 0 }},
		{"zero timeout", func(c *Config) { c.Benchmark.StatementTimeoutSeconds = 0 }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		assert.Error(t, cfg.Validate(), tc.name)
	}
}

func (suite *ConfigTestSuite) TestConnectionString() {
	t := suite.T()

	cfg := DefaultConfig()
	cfg.Postgres.Password = "pw"
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=index_lab sslmode=disable",
		cfg.Postgres.ConnectionString())
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("HARNESS_SET_VAR", "value")

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"basic", "x: ${HARNESS_SET_VAR}", "x: value", false},
		{"unset is empty", "x: ${HARNESS_UNSET_VAR_XYZ}", "x: ", false},
		{"default applied", "x: ${HARNESS_UNSET_VAR_XYZ:-fallback}", "x: fallback", false},
		{"default ignored when set", "x: ${HARNESS_SET_VAR:-fallback}", "x: value", false},
		{"required set", "x: ${HARNESS_SET_VAR:?must be set}", "x: value", false},
		{"required unset", "x: ${HARNESS_UNSET_VAR_XYZ:?must be set}", "", true},
		{"escape", "x: $${HARNESS_SET_VAR}", "x: ${HARNESS_SET_VAR}", false},
		{"no references", "plain: text", "plain: text", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SubstituteEnvVars(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
