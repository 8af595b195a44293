// Package metrics instruments the batch checking pipeline with Prometheus
// collectors. Long-running batch deployments expose them via Handler; the
// one-shot CLI simply leaves the registry unserved.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DocumentsChecked counts validated documents by outcome: "clean",
	// "violations", or "failed" (could not be opened).
	DocumentsChecked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pubcheck_documents_total",
		Help: "Documents processed by the format checker, by outcome.",
	}, []string{"outcome"})

	// Violations counts reported messages by violation kind.
	Violations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pubcheck_violations_total",
		Help: "Violation messages reported, by kind.",
	}, []string{"kind"})

	// CheckDuration observes wall time per document.
	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pubcheck_check_duration_seconds",
		Help:    "Wall time spent validating one document.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

// ObserveDuration records one document's validation time.
func ObserveDuration(start time.Time) {
	CheckDuration.Observe(time.Since(start).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
