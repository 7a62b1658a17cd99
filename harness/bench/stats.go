package bench

import (
	"sort"
	"time"

	"github.com/dbindex-bench/harness/types"
)

// Aggregate summarizes repeated latency samples for one query shape.
// With more than two samples the single fastest and slowest are dropped
// before averaging, so one cold-cache or outlier run cannot dominate the
// comparison; Min and Max always report the pre-trim extremes.
func Aggregate(latencies []time.Duration) types.LatencyStats {
	stats := types.LatencyStats{Iterations: len(latencies)}
	if len(latencies) == 0 {
		return stats
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]

	samples := sorted
	if len(sorted) > 2 {
		samples = sorted[1 : len(sorted)-1]
		stats.Trimmed = true
	}

	var sum time.Duration
	for _, l := range samples {
		sum += l
	}
	stats.Avg = sum / time.Duration(len(samples))

	return stats
}

// Slowest returns the n slowest successful results, descending by average
// latency, ties broken by input order.
func Slowest(results []types.BenchmarkResult, n int) []types.BenchmarkResult {
	ok := make([]types.BenchmarkResult, 0, len(results))
	for _, r := range results {
		if !r.Failed {
			ok = append(ok, r)
		}
	}

	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].AvgLatency > ok[j].AvgLatency
	})

	if len(ok) > n {
		ok = ok[:n]
	}
	return ok
}
