package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Harness holds the process-local Prometheus collectors for one run.
// Nothing serves them over HTTP; the orchestrator gathers and logs them
// at the end of the run.
type Harness struct {
	Registry *prometheus.Registry

	RowsWritten      *prometheus.CounterVec
	BatchesCommitted *prometheus.CounterVec
	BatchesFailed    *prometheus.CounterVec
	QueryLatency     *prometheus.HistogramVec
	QueryFailures    *prometheus.CounterVec
}

// New creates a harness registry with all collectors registered.
func New() *Harness {
	h := &Harness{
		Registry: prometheus.NewRegistry(),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harness_rows_written_total",
			Help: "Rows committed to storage by the bulk loader.",
		}, []string{"table"}),
		BatchesCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harness_batches_committed_total",
			Help: "Bulk batches committed.",
		}, []string{"table"}),
		BatchesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harness_batches_failed_total",
			Help: "Bulk batches that failed to commit.",
		}, []string{"table"}),
		QueryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "harness_query_latency_seconds",
			Help:    "Wall-clock latency per benchmark query execution.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"category"}),
		QueryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harness_query_failures_total",
			Help: "Benchmark query executions that errored.",
		}, []string{"category"}),
	}

	h.Registry.MustRegister(
		h.RowsWritten,
		h.BatchesCommitted,
		h.BatchesFailed,
		h.QueryLatency,
		h.QueryFailures,
	)
	return h
}

// LogSummary gathers all collectors and logs their values.
func (h *Harness) LogSummary(log logrus.FieldLogger) {
	families, err := h.Registry.Gather()
	if err != nil {
		log.WithError(err).Warn("Failed to gather metrics")
		return
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := logrus.Fields{}
			for _, lp := range m.GetLabel() {
				fields[lp.GetName()] = lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				fields["value"] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				fields["count"] = m.GetHistogram().GetSampleCount()
				fields["sum_seconds"] = m.GetHistogram().GetSampleSum()
			}
			log.WithFields(fields).Info(mf.GetName())
		}
	}
}
