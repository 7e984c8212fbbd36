// Package metrics holds the Prometheus collectors for movie fetches and page navigation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	// FetchesTotal counts requests to the metadata service.
	// Labels: kind (search, recommended, random, details), outcome (ok, empty, error)
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowse_fetches_total",
			Help: "Total number of movie metadata fetches",
		},
		[]string{"kind", "outcome"},
	)

	// FetchDuration measures metadata service round trips in seconds.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviebrowse_fetch_duration_seconds",
			Help:    "Movie metadata fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"kind"},
	)

	// StaleResultsTotal counts fetch results dropped because a newer fetch was started.
	StaleResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviebrowse_stale_results_total",
			Help: "Total number of fetch results discarded as stale",
		},
	)

	// PageNavigationsTotal counts previous/next clicks.
	// Labels: direction (prev, next)
	PageNavigationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowse_page_navigations_total",
			Help: "Total number of page navigations",
		},
		[]string{"direction"},
	)
)

func RecordFetch(kind, outcome string, elapsed time.Duration) {
	FetchesTotal.WithLabelValues(kind, outcome).Inc()
	FetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func RecordStaleResult() {
	StaleResultsTotal.Inc()
}

func RecordNavigation(delta int) {
	direction := "next"
	if delta < 0 {
		direction = "prev"
	}
	PageNavigationsTotal.WithLabelValues(direction).Inc()
}
