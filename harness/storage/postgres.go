package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/dbindex-bench/harness/config"
	"github.com/dbindex-bench/harness/types"
)

// Database handles PostgreSQL operations for the harness.
type Database struct {
	db      *sql.DB
	cfg     *config.PostgresConfig
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewDatabase creates a new database handle. timeout bounds every
// statement issued through this handle.
func NewDatabase(cfg *config.PostgresConfig, timeout time.Duration) *Database {
	return &Database{
		cfg:     cfg,
		timeout: timeout,
		log:     logrus.WithField("component", "postgres"),
	}
}

// Connect establishes the database connection and verifies it with a ping.
func (d *Database) Connect() error {
	db, err := sql.Open("postgres", d.cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(d.cfg.MaxOpenConns)
	db.SetMaxIdleConns(d.cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.db = db
	d.log.Info("Connected to PostgreSQL database")
	return nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// DB exposes the raw handle for callers that manage their own connection,
// such as the benchmark runner pinning a single *sql.Conn.
func (d *Database) DB() *sql.DB {
	return d.db
}

// withTimeout derives a statement-scoped context from ctx.
func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

// BulkAppend writes rows to table in a single COPY operation inside one
// transaction. It either commits all rows and returns their count, or
// rolls back and reports an error for the whole set; partial application
// never happens.
func (d *Database) BulkAppend(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare copy into %s: %w", table, err)
	}

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			stmt.Close()
			return 0, wrapBulkError(table, i, err)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, wrapBulkError(table, len(rows), err)
	}

	if err := stmt.Close(); err != nil {
		return 0, wrapBulkError(table, len(rows), err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk append to %s: %w", table, err)
	}

	return int64(len(rows)), nil
}

// wrapBulkError adds table and row context, and flags truncation failures
// as a schema mismatch since the generator clamps every field first.
func wrapBulkError(table string, row int, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "22001" {
		return fmt.Errorf(
			"bulk append to %s rejected as truncated at row %d (column %q): generator clamp and schema width disagree: %w",
			table, row, pqErr.Column, err)
	}
	return fmt.Errorf("bulk append to %s failed at row %d: %w", table, row, err)
}

// ExecScript runs a multi-statement SQL script, failing fast on the first
// error.
func (d *Database) ExecScript(ctx context.Context, sqlText string) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if _, err := d.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}
	return nil
}

// RowCount returns the number of rows in table.
func (d *Database) RowCount(ctx context.Context, table string) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(table))
	if err := d.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// SelectIDs returns every id in table, ordered. Used to build the
// foreign-key sets the generators draw from.
func (d *Database) SelectIDs(ctx context.Context, table string) ([]int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT id FROM %s ORDER BY id", pq.QuoteIdentifier(table))
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select ids from %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id from %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Query runs a row-returning statement. The result is lazy and
// single-pass; the caller must drain and close it. The statement timeout
// is not applied here because cancelling the context would invalidate the
// rows before the caller reads them.
func (d *Database) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// Scalar runs a query expected to yield a single value.
func (d *Database) Scalar(ctx context.Context, query string, args ...interface{}) (interface{}, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var value interface{}
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute scalar query: %w", err)
	}
	return value, nil
}

// InsertBenchmarkResult persists one aggregated benchmark result.
func (d *Database) InsertBenchmarkResult(ctx context.Context, r *types.BenchmarkResult) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO benchmark_results (
			run_id, test_name, category, avg_latency_ms, measured_at, notes, failed, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := d.db.ExecContext(ctx, query,
		r.RunID, r.TestName, r.Category,
		float64(r.AvgLatency)/float64(time.Millisecond),
		r.MeasuredAt, r.Notes, r.Failed, r.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert benchmark result: %w", err)
	}

	d.log.WithFields(logrus.Fields{
		"run_id": r.RunID,
		"test":   r.TestName,
	}).Debug("Inserted benchmark result")
	return nil
}

// ApplyLessonIndices creates the lesson's "after" indexes.
func (d *Database) ApplyLessonIndices(ctx context.Context) error {
	d.log.Info("Applying lesson indexes")
	return d.ExecScript(ctx, LessonIndices())
}

// DropLessonIndicesSet reverts the lesson indexes.
func (d *Database) DropLessonIndicesSet(ctx context.Context) error {
	d.log.Info("Dropping lesson indexes")
	return d.ExecScript(ctx, DropLessonIndices())
}
