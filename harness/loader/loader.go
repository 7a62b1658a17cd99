package loader

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/metrics"
	"github.com/dbindex-bench/harness/types"
)

// progressCheckpoint is how many committed rows between progress logs.
const progressCheckpoint = 100_000

// BulkAppender is the storage operation the loader depends on. The
// implementation must be all-or-nothing per call.
type BulkAppender interface {
	BulkAppend(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error)
}

// BatchSource produces the next n bulk-copy rows. Returning an error
// aborts the load immediately; a generator that cannot satisfy its
// prerequisites fails here, before anything is written.
type BatchSource func(n int) ([][]interface{}, error)

// Policy controls how the loader reacts to a failed batch.
type Policy int

const (
	// SkipFailedBatches logs the failure and moves on to the next batch.
	// The default for data generation, where approximately N rows is the
	// goal and a lost batch is acceptable, counted data loss.
	SkipFailedBatches Policy = iota

	// AbortOnFailure stops the load at the first failed batch.
	AbortOnFailure
)

// Loader streams generated records to storage in fixed-size batches.
type Loader struct {
	db        BulkAppender
	batchSize int
	policy    Policy
	metrics   *metrics.Harness
	log       logrus.FieldLogger
}

// New creates a loader. A non-positive batchSize falls back to 10,000.
func New(db BulkAppender, batchSize int, policy Policy, m *metrics.Harness) *Loader {
	if batchSize <= 0 {
		batchSize = 10_000
	}
	return &Loader{
		db:        db,
		batchSize: batchSize,
		policy:    policy,
		metrics:   m,
		log:       logrus.WithField("component", "loader"),
	}
}

// Load generates and persists total rows into table, one batch at a time.
// Batches are submitted strictly in sequence; each either commits whole or
// is reported as a failed range in the returned stats. Under
// SkipFailedBatches the returned error is nil unless the source itself
// fails; under AbortOnFailure the first batch failure is returned.
func (l *Loader) Load(ctx context.Context, table string, columns []string, total int64, next BatchSource) (*types.LoadStats, error) {
	stats := &types.LoadStats{Requested: total}
	log := l.log.WithFields(logrus.Fields{"table": table, "target": total})

	if total <= 0 {
		return stats, nil
	}

	log.WithField("batch_size", l.batchSize).Info("Starting bulk load")

	var lastCheckpoint int64
	for offset := int64(0); offset < total; offset += int64(l.batchSize) {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("bulk load interrupted after %d rows: %w", stats.Committed, err)
		}

		n := int64(l.batchSize)
		if remaining := total - offset; remaining < n {
			n = remaining
		}

		rows, err := next(int(n))
		if err != nil {
			return stats, fmt.Errorf("batch source failed at offset %d: %w", offset, err)
		}

		stats.Batches++
		stats.Attempted += int64(len(rows))

		written, err := l.db.BulkAppend(ctx, table, columns, rows)
		if err != nil {
			r := types.BatchRange{Start: offset, End: offset + int64(len(rows))}
			stats.FailedBatches++
			stats.FailedRanges = append(stats.FailedRanges, r)
			if l.metrics != nil {
				l.metrics.BatchesFailed.WithLabelValues(table).Inc()
			}

			log.WithError(err).WithFields(logrus.Fields{
				"batch_start": r.Start,
				"batch_end":   r.End,
				"batch_rows":  len(rows),
			}).Error("Bulk batch failed to commit")

			if l.policy == AbortOnFailure {
				return stats, fmt.Errorf("bulk load of %s aborted at batch [%d,%d): %w", table, r.Start, r.End, err)
			}
			continue
		}

		stats.Committed += written
		if l.metrics != nil {
			l.metrics.RowsWritten.WithLabelValues(table).Add(float64(written))
			l.metrics.BatchesCommitted.WithLabelValues(table).Inc()
		}

		if stats.Committed-lastCheckpoint >= progressCheckpoint {
			lastCheckpoint = stats.Committed
			log.WithField("committed", stats.Committed).Info("Bulk load progress")
		}
	}

	log.WithFields(logrus.Fields{
		"committed":      stats.Committed,
		"batches":        stats.Batches,
		"failed_batches": stats.FailedBatches,
	}).Info("Bulk load finished")

	return stats, nil
}
