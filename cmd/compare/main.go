package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/config"
	"github.com/dbindex-bench/harness/storage"
)

// compare prints a side-by-side latency comparison of two persisted
// benchmark runs, typically a run's "/before" and "/after" passes.
func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	baseRun := flag.String("base", "", "Run id of the baseline pass")
	otherRun := flag.String("other", "", "Run id of the pass to compare against the baseline")
	flag.Parse()

	log := logrus.WithField("component", "compare")

	if *baseRun == "" || *otherRun == "" {
		log.Fatal("Both -base and -other run ids are required")
	}

	cfg, err := config.LoadFromFile(*configPath, logrus.StandardLogger())
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	db := storage.NewDatabase(&cfg.Postgres, cfg.Benchmark.StatementTimeout())
	if err := db.Connect(); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	base, err := loadRun(ctx, db, *baseRun)
	if err != nil {
		log.WithError(err).Fatal("Failed to load baseline run")
	}
	other, err := loadRun(ctx, db, *otherRun)
	if err != nil {
		log.WithError(err).Fatal("Failed to load comparison run")
	}
	if len(base) == 0 {
		log.WithField("run_id", *baseRun).Fatal("Baseline run has no results")
	}

	otherByName := make(map[string]float64, len(other))
	for _, row := range other {
		otherByName[row.name] = row.avgMs
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "QUERY\tBASE\tOTHER\tSPEEDUP")
	for _, row := range base {
		o, ok := otherByName[row.name]
		if !ok {
			continue
		}
		speedup := "-"
		if o > 0 {
			speedup = fmt.Sprintf("%.1fx", row.avgMs/o)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.name, fmtMs(row.avgMs), fmtMs(o), speedup)
	}
	w.Flush()
}

type runRow struct {
	name  string
	avgMs float64
}

// loadRun fetches one run's successful results, preserving insert order.
func loadRun(ctx context.Context, db *storage.Database, runID string) ([]runRow, error) {
	rows, err := db.Query(ctx, `
		SELECT test_name, avg_latency_ms
		FROM benchmark_results
		WHERE run_id = $1 AND failed = FALSE
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", runID, err)
	}
	defer rows.Close()

	var result []runRow
	for rows.Next() {
		var r runRow
		if err := rows.Scan(&r.name, &r.avgMs); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func fmtMs(ms float64) string {
	return time.Duration(ms * float64(time.Millisecond)).Round(10 * time.Microsecond).String()
}
