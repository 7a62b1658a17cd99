package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/metrics"
	"github.com/dbindex-bench/harness/types"
)

// Runner executes the query-shape catalog and aggregates latencies.
type Runner struct {
	exec       QueryExecutor
	iterations int
	metrics    *metrics.Harness
	log        logrus.FieldLogger
}

// NewRunner creates a benchmark runner. A non-positive iteration count
// falls back to 5.
func NewRunner(exec QueryExecutor, iterations int, m *metrics.Harness) *Runner {
	if iterations <= 0 {
		iterations = 5
	}
	return &Runner{
		exec:       exec,
		iterations: iterations,
		metrics:    m,
		log:        logrus.WithField("component", "bench"),
	}
}

// Run executes every shape in order and returns one result per shape.
// A shape that errors is recorded as a sentinel failed result; failed
// queries are never retried since a retried timing would be meaningless,
// and a failure in one shape does not block the others.
func (r *Runner) Run(ctx context.Context, runID string, shapes []Shape) []types.BenchmarkResult {
	results := make([]types.BenchmarkResult, 0, len(shapes))

	for _, shape := range shapes {
		results = append(results, r.runShape(ctx, runID, shape))
	}

	return results
}

// runShape runs one shape iterations times back-to-back and aggregates.
func (r *Runner) runShape(ctx context.Context, runID string, shape Shape) types.BenchmarkResult {
	log := r.log.WithFields(logrus.Fields{
		"shape":    shape.Name,
		"category": shape.Category,
	})
	log.WithField("iterations", r.iterations).Debug("Running query shape")

	result := types.BenchmarkResult{
		RunID:      runID,
		TestName:   shape.Name,
		Category:   shape.Category,
		MeasuredAt: time.Now().UTC(),
	}

	latencies := make([]time.Duration, 0, r.iterations)
	var rowCount int64

	for i := 0; i < r.iterations; i++ {
		start := time.Now()
		rows, err := r.exec.Execute(ctx, shape.SQL)
		elapsed := time.Since(start)

		if err != nil {
			log.WithError(err).WithField("iteration", i+1).Error("Query shape failed")
			if r.metrics != nil {
				r.metrics.QueryFailures.WithLabelValues(shape.Category).Inc()
			}
			result.Failed = true
			result.Error = err.Error()
			result.Notes = fmt.Sprintf("failed on iteration %d of %d", i+1, r.iterations)
			return result
		}

		latencies = append(latencies, elapsed)
		rowCount = rows
		if r.metrics != nil {
			r.metrics.QueryLatency.WithLabelValues(shape.Category).Observe(elapsed.Seconds())
		}
	}

	stats := Aggregate(latencies)
	result.AvgLatency = stats.Avg
	result.Notes = fmt.Sprintf(
		"iterations=%d min=%s max=%s rows=%d trimmed=%t",
		stats.Iterations, stats.Min, stats.Max, rowCount, stats.Trimmed,
	)

	log.WithFields(logrus.Fields{
		"avg": stats.Avg,
		"min": stats.Min,
		"max": stats.Max,
	}).Info("Query shape complete")

	return result
}
