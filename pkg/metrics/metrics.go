// Package metrics provides Prometheus metrics for sitemap-checker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sitemapchecker"

var (
	// PagesCheckedTotal counts page checks by resulting status.
	PagesCheckedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_checked_total",
			Help:      "Total number of page checks by status",
		},
		[]string{"status"},
	)

	// PageCheckDuration measures a single page check.
	PageCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_check_duration_seconds",
			Help:      "Duration of page checks in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// PageErrorsTotal counts inaccessible pages by error category.
	PageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_errors_total",
			Help:      "Total number of inaccessible pages by error category",
		},
		[]string{"category"},
	)

	// SitemapFetchesTotal counts sitemap lookups by outcome.
	SitemapFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sitemap_fetches_total",
			Help:      "Total number of sitemap lookups by outcome",
		},
		[]string{"outcome"},
	)

	// SitemapSize observes the number of loc entries per found sitemap.
	SitemapSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sitemap_entries",
			Help:      "Distribution of loc entries per sitemap",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// RunDuration measures a full pass over every website.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full check run in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
	)

	// LastRunInaccessible is the inaccessible page total of the latest completed run.
	LastRunInaccessible = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_inaccessible_pages",
			Help:      "Inaccessible pages found by the most recent completed run",
		},
	)

	// LastRunTimestamp is the unix time the latest run completed.
	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the most recent completed run",
		},
	)
)

// RecordPageCheck records one page check. category is ignored for accessible pages.
func RecordPageCheck(status, category string, duration float64) {
	PagesCheckedTotal.WithLabelValues(status).Inc()
	PageCheckDuration.Observe(duration)
	if category != "" {
		PageErrorsTotal.WithLabelValues(category).Inc()
	}
}

// RecordSitemap records one sitemap lookup.
func RecordSitemap(outcome string, entries int) {
	SitemapFetchesTotal.WithLabelValues(outcome).Inc()
	if entries > 0 {
		SitemapSize.Observe(float64(entries))
	}
}

// RecordRun records a completed run.
func RecordRun(inaccessible int, duration float64, completedAt float64) {
	RunDuration.Observe(duration)
	LastRunInaccessible.Set(float64(inaccessible))
	LastRunTimestamp.Set(completedAt)
}
