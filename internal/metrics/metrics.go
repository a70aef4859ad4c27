// Package metrics exposes Prometheus collectors for the scraper.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsweep_pages_total",
			Help: "Total number of pages processed, labeled by kind and status.",
		},
		[]string{"kind", "status"},
	)

	linksDiscoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobsweep_links_discovered_total",
			Help: "Total number of new job-detail links discovered on listing pages.",
		},
	)

	recordsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobsweep_records_saved_total",
			Help: "Total number of job records handed to the sink.",
		},
	)

	recordsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobsweep_records_dropped_total",
			Help: "Total number of records dropped before persisting, labeled by reason.",
		},
		[]string{"reason"},
	)

	fetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobsweep_fetch_retries_total",
			Help: "Total number of fetch retries scheduled after transient failures.",
		},
	)
)

// Handler returns an http.Handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage counts one processed page.
func ObservePage(kind, status string) {
	pagesTotal.WithLabelValues(kind, status).Inc()
}

// ObserveLinksDiscovered counts newly discovered detail links.
func ObserveLinksDiscovered(n int) {
	if n > 0 {
		linksDiscoveredTotal.Add(float64(n))
	}
}

// ObserveRecordsSaved counts records appended to the sink.
func ObserveRecordsSaved(n int) {
	if n > 0 {
		recordsSavedTotal.Add(float64(n))
	}
}

// ObserveRecordDropped counts one dropped record.
func ObserveRecordDropped(reason string) {
	recordsDroppedTotal.WithLabelValues(reason).Inc()
}

// ObserveFetchRetry counts one scheduled retry.
func ObserveFetchRetry() {
	fetchRetriesTotal.Inc()
}
