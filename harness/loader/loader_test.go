package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbindex-bench/harness/metrics"
	"github.com/dbindex-bench/harness/types"
)

// fakeAppender records every bulk call and fails the batch indices listed
// in failOn.
type fakeAppender struct {
	calls  []int
	failOn map[int]bool
	rows   int64
}

func (f *fakeAppender) BulkAppend(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	call := len(f.calls)
	f.calls = append(f.calls, len(rows))
	if f.failOn[call] {
		return 0, errors.New("copy failed")
	}
	f.rows += int64(len(rows))
	return int64(len(rows)), nil
}

func intSource(t *testing.T) BatchSource {
	t.Helper()
	return func(n int) ([][]interface{}, error) {
		rows := make([][]interface{}, n)
		for i := range rows {
			rows[i] = []interface{}{i}
		}
		return rows, nil
	}
}

func TestLoadIssuesCeilBatches(t *testing.T) {
	cases := []struct {
		total     int64
		batchSize int
		batches   int
		lastBatch int
	}{
		{total: 25, batchSize: 10, batches: 3, lastBatch: 5},
		{total: 30, batchSize: 10, batches: 3, lastBatch: 10},
		{total: 1, batchSize: 10, batches: 1, lastBatch: 1},
		{total: 10, batchSize: 10, batches: 1, lastBatch: 10},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_by_%d", tc.total, tc.batchSize), func(t *testing.T) {
			db := &fakeAppender{}
			l := New(db, tc.batchSize, SkipFailedBatches, nil)

			stats, err := l.Load(context.Background(), "users", UserColumns, tc.total, intSource(t))
			require.NoError(t, err)

			assert.Equal(t, tc.batches, stats.Batches)
			assert.Equal(t, tc.batches, len(db.calls))
			assert.Equal(t, tc.lastBatch, db.calls[len(db.calls)-1])
			assert.Equal(t, tc.total, stats.Committed)
			assert.Equal(t, tc.total, db.rows)
		})
	}
}

func TestLoadZeroTarget(t *testing.T) {
	db := &fakeAppender{}
	l := New(db, 10, SkipFailedBatches, nil)

	stats, err := l.Load(context.Background(), "users", UserColumns, 0, intSource(t))
	require.NoError(t, err)
	assert.Zero(t, stats.Batches)
	assert.Empty(t, db.calls)
}

func TestLoadSkipsFailedBatches(t *testing.T) {
	db := &fakeAppender{failOn: map[int]bool{1: true}}
	l := New(db, 10, SkipFailedBatches, metrics.New())

	stats, err := l.Load(context.Background(), "orders", OrderColumns, 35, intSource(t))
	require.NoError(t, err, "skip policy must not surface batch failures")

	assert.Equal(t, 4, stats.Batches)
	assert.Equal(t, 1, stats.FailedBatches)
	assert.Equal(t, int64(35), stats.Attempted)
	assert.Equal(t, int64(25), stats.Committed)
	require.Len(t, stats.FailedRanges, 1)
	assert.Equal(t, types.BatchRange{Start: 10, End: 20}, stats.FailedRanges[0])
	assert.Equal(t, db.rows, stats.Committed, "committed accounting must match rows written")
}

func TestLoadAbortsOnFailure(t *testing.T) {
	db := &fakeAppender{failOn: map[int]bool{1: true}}
	l := New(db, 10, AbortOnFailure, nil)

	stats, err := l.Load(context.Background(), "departments", DepartmentColumns, 35, intSource(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[10,20)")

	assert.Equal(t, 2, stats.Batches)
	assert.Equal(t, int64(10), stats.Committed)
	assert.Len(t, db.calls, 2, "no batches after the failed one")
}

func TestLoadSourceErrorIsFatal(t *testing.T) {
	db := &fakeAppender{}
	l := New(db, 10, SkipFailedBatches, nil)

	sourceErr := errors.New("no departments")
	_, err := l.Load(context.Background(), "users", UserColumns, 20, func(n int) ([][]interface{}, error) {
		return nil, sourceErr
	})
	require.ErrorIs(t, err, sourceErr)
	assert.Empty(t, db.calls, "nothing may be written when the source fails")
}

func TestLoadHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	db := &fakeAppender{}
	l := New(db, 10, SkipFailedBatches, nil)

	calls := 0
	_, err := l.Load(ctx, "users", UserColumns, 100, func(n int) ([][]interface{}, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return intSource(t)(n)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, len(db.calls), 10, "load must stop after cancellation")
}
