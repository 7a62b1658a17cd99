package bench

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QueryExecutor runs one query to completion and reports how many rows it
// drained. Implementations must consume the whole result set before
// returning; the runner's timer stops at last row consumed, not at query
// acceptance.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlText string) (int64, error)
}

// ConnExecutor executes queries on one pinned database connection so
// back-to-back iterations of a shape share connection state.
type ConnExecutor struct {
	conn    *sql.Conn
	timeout time.Duration
}

// NewConnExecutor checks a single connection out of the pool.
func NewConnExecutor(ctx context.Context, db *sql.DB, timeout time.Duration) (*ConnExecutor, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire benchmark connection: %w", err)
	}
	return &ConnExecutor{conn: conn, timeout: timeout}, nil
}

// Execute runs sqlText and drains every row.
func (e *ConnExecutor) Execute(ctx context.Context, sqlText string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.conn.QueryContext(ctx, sqlText)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}
	return count, nil
}

// Close returns the pinned connection to the pool.
func (e *ConnExecutor) Close() error {
	return e.conn.Close()
}
