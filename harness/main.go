package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/bench"
	"github.com/dbindex-bench/harness/config"
	"github.com/dbindex-bench/harness/datagen"
	"github.com/dbindex-bench/harness/loader"
	"github.com/dbindex-bench/harness/metrics"
	"github.com/dbindex-bench/harness/storage"
	"github.com/dbindex-bench/harness/types"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	skipGenerate := flag.Bool("skip-generate", false, "Skip data generation and benchmark the existing dataset")
	indexPass := flag.Bool("index-pass", true, "Apply lesson indexes and run a second benchmark pass")
	resetIndexes := flag.Bool("reset-indexes", false, "Drop lesson indexes before starting so the comparison can be repeated")
	flag.Parse()

	log := logrus.WithField("component", "harness")

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

	ctx := context.Background()
	m := metrics.New()

	if *resetIndexes {
		if err := db.DropLessonIndicesSet(ctx); err != nil {
			log.WithError(err).Fatal("Failed to drop lesson indexes")
		}
	}

	if !*skipGenerate {
		if err := generateAll(ctx, db, cfg, m, log); err != nil {
			log.WithError(err).Fatal("Data generation failed")
		}
	}

	runID := uuid.New().String()
	log.WithField("run_id", runID).Info("Starting benchmark run")

	before, sys, err := runBenchmarkPass(ctx, db, cfg, m, runID+"/before")
	if err != nil {
		log.WithError(err).Fatal("Benchmark pass failed")
	}
	printReport("Before indexing", before, sys)

	allResults := before
	if *indexPass {
		if err := db.ApplyLessonIndices(ctx); err != nil {
			log.WithError(err).Fatal("Failed to apply lesson indexes")
		}

		after, sys, err := runBenchmarkPass(ctx, db, cfg, m, runID+"/after")
		if err != nil {
			log.WithError(err).Fatal("Benchmark pass failed")
		}
		printReport("After indexing", after, sys)
		printComparison(before, after)
		allResults = append(allResults, after...)
	}

	persistResults(ctx, db, allResults, log)
	m.LogSummary(log)

	fmt.Println("Benchmark run completed.")
}

// generateAll generates departments, users and orders in referential
// order. Re-runs only generate the shortfall between the configured
// target and the rows already present, so an interrupted run is safe to
// resume.
func generateAll(ctx context.Context, db *storage.Database, cfg *config.Config, m *metrics.Harness, log logrus.FieldLogger) error {
	gen := datagen.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	load := loader.New(db, cfg.Generate.BatchSize, loader.SkipFailedBatches, m)

	// Departments are loaded in one small batch with abort semantics:
	// everything downstream references them.
	deptLoad := loader.New(db, cfg.Generate.BatchSize, loader.AbortOnFailure, m)
	shortfall, err := tableShortfall(ctx, db, "departments", cfg.Generate.Departments)
	if err != nil {
		return err
	}
	if shortfall > 0 {
		_, err := deptLoad.Load(ctx, "departments", loader.DepartmentColumns, shortfall, func(n int) ([][]interface{}, error) {
			return loader.DepartmentRows(gen.Departments(n)), nil
		})
		if err != nil {
			return fmt.Errorf("department generation failed: %w", err)
		}
	}

	deptIDs, err := db.SelectIDs(ctx, "departments")
	if err != nil {
		return err
	}

	shortfall, err = tableShortfall(ctx, db, "users", cfg.Generate.Users)
	if err != nil {
		return err
	}
	if shortfall > 0 {
		_, err := load.Load(ctx, "users", loader.UserColumns, shortfall, func(n int) ([][]interface{}, error) {
			users, err := gen.Users(n, deptIDs)
			if err != nil {
				return nil, err
			}
			return loader.UserRows(users), nil
		})
		if err != nil {
			return fmt.Errorf("user generation failed: %w", err)
		}
	}

	userIDs, err := db.SelectIDs(ctx, "users")
	if err != nil {
		return err
	}

	shortfall, err = tableShortfall(ctx, db, "orders", cfg.Generate.Orders)
	if err != nil {
		return err
	}
	if shortfall > 0 {
		_, err := load.Load(ctx, "orders", loader.OrderColumns, shortfall, func(n int) ([][]interface{}, error) {
			orders, err := gen.Orders(n, userIDs)
			if err != nil {
				return nil, err
			}
			return loader.OrderRows(orders), nil
		})
		if err != nil {
			return fmt.Errorf("order generation failed: %w", err)
		}
	}

	log.Info("Data generation complete")
	return nil
}

// tableShortfall returns how many rows are still needed to reach target.
func tableShortfall(ctx context.Context, db *storage.Database, table string, target int64) (int64, error) {
	current, err := db.RowCount(ctx, table)
	if err != nil {
		return 0, err
	}
	if current >= target {
		return 0, nil
	}
	return target - current, nil
}

// runBenchmarkPass executes the full catalog once on a pinned connection,
// sampling system metrics alongside when configured.
func runBenchmarkPass(ctx context.Context, db *storage.Database, cfg *config.Config, m *metrics.Harness, runID string) ([]types.BenchmarkResult, *bench.SystemSummary, error) {
	exec, err := bench.NewConnExecutor(ctx, db.DB(), cfg.Benchmark.StatementTimeout())
	if err != nil {
		return nil, nil, err
	}
	defer exec.Close()

	var collector *bench.SystemCollector
	if cfg.Benchmark.SampleSystemMetrics {
		collector, err = bench.NewSystemCollector(time.Second)
		if err != nil {
			logrus.WithError(err).Warn("System metrics unavailable, continuing without them")
		} else {
			collector.Start()
		}
	}

	runner := bench.NewRunner(exec, cfg.Benchmark.Iterations, m)
	results := runner.Run(ctx, runID, bench.Catalog())

	var sys *bench.SystemSummary
	if collector != nil {
		collector.Stop()
		s := collector.Summary()
		sys = &s
	}

	return results, sys, nil
}

// persistResults writes aggregated results to storage. A write failure is
// logged, not fatal: the timing data was already captured and reported.
func persistResults(ctx context.Context, db *storage.Database, results []types.BenchmarkResult, log logrus.FieldLogger) {
	for i := range results {
		if err := db.InsertBenchmarkResult(ctx, &results[i]); err != nil {
			log.WithError(err).WithField("test", results[i].TestName).Warn("Failed to persist benchmark result")
		}
	}
}

func init() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
