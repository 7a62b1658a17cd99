package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dbindex-bench/harness/bench"
	"github.com/dbindex-bench/harness/types"
)

// printReport writes one pass's per-shape listing in run order, followed
// by the slowest-queries callout and the system sample summary.
func printReport(title string, results []types.BenchmarkResult, sys *bench.SystemSummary) {
	fmt.Printf("\n=== %s ===\n", title)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "QUERY\tCATEGORY\tAVG LATENCY\tDETAILS")
	for _, r := range results {
		if r.Failed {
			fmt.Fprintf(w, "%s\t%s\tFAILED\t%s\n", r.TestName, r.Category, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.TestName, r.Category, fmtLatency(r.AvgLatency), r.Notes)
	}
	w.Flush()

	fmt.Println("\nSlowest queries:")
	for i, r := range bench.Slowest(results, 5) {
		fmt.Printf("  %d. %s (%s): %s\n", i+1, r.TestName, r.Category, fmtLatency(r.AvgLatency))
	}

	if sys != nil && sys.Samples > 0 {
		fmt.Printf("\nSystem during pass: avg CPU %.1f%%, peak CPU %.1f%%, avg mem %.1f%%, peak RSS %d MiB\n",
			sys.AvgCPU, sys.PeakCPU, sys.AvgMem, sys.PeakRSS/(1024*1024))
	}
}

// printComparison lines up the before and after passes shape by shape.
func printComparison(before, after []types.BenchmarkResult) {
	byName := make(map[string]types.BenchmarkResult, len(after))
	for _, r := range after {
		byName[r.TestName] = r
	}

	fmt.Println("\n=== Before / after comparison ===")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "QUERY\tBEFORE\tAFTER\tSPEEDUP")
	for _, b := range before {
		a, ok := byName[b.TestName]
		if !ok || b.Failed || a.Failed {
			continue
		}
		speedup := "-"
		if a.AvgLatency > 0 {
			speedup = fmt.Sprintf("%.1fx", float64(b.AvgLatency)/float64(a.AvgLatency))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.TestName, fmtLatency(b.AvgLatency), fmtLatency(a.AvgLatency), speedup)
	}
	w.Flush()
}

func fmtLatency(d time.Duration) string {
	return d.Round(10 * time.Microsecond).String()
}
