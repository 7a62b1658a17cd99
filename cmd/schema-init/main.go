package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/config"
	"github.com/dbindex-bench/harness/storage"
)

// schema-init applies all pending migrations and exits. Useful for
// preparing a database before a classroom session without generating data.
func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	log := logrus.WithField("component", "schema-init")

	cfg, err := config.LoadFromFile(*configPath, logrus.StandardLogger())
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	db := storage.NewDatabase(&cfg.Postgres, cfg.Benchmark.StatementTimeout())
	if err := db.Connect(); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := storage.RunMigrations(db.DB()); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	log.Info("Schema is up to date")
}
