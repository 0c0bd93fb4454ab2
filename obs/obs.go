// Package obs provides Prometheus instrumentation for pricing runs,
// following internal/metrics/metrics.go's package-level promauto vars
// in the pack: counters and histograms declared once, labeled by
// security kind where cardinality stays low.
package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SecuritiesPriced counts securities priced, partitioned by kind and
	// outcome ("ok" or "failed").
	SecuritiesPriced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hybridlattice_securities_priced_total",
		Help: "Securities run through the pricing engine",
	}, []string{"kind", "outcome"})

	// PricingLatency tracks per-security pricing wall time by kind.
	PricingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hybridlattice_pricing_latency_seconds",
		Help:    "Per-security pricing latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// RefixingWarnings counts documented-fallback warnings raised while
	// building a refixing schedule (spec.md §7, §9 Q3).
	RefixingWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hybridlattice_refixing_warnings_total",
		Help: "WA_DOWN_ONLY resets that fell back to the default SharesOutstanding",
	})

	// DealsAggregated counts completed Aggregate runs.
	DealsAggregated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hybridlattice_deals_aggregated_total",
		Help: "Deal-level aggregation runs completed",
	})
)

// Handler returns the Prometheus metrics HTTP handler, for a CLI process
// that wants to expose /metrics alongside its one-shot pricing output.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePricing records a single security's outcome and latency.
func ObservePricing(kind string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	SecuritiesPriced.WithLabelValues(kind, outcome).Inc()
	PricingLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
