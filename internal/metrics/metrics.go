// Package metrics holds the Prometheus collectors shared by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GeocodeRequests counts outgoing geocoding provider calls by kind (search/reverse) and outcome.
	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejak_geocode_requests_total",
			Help: "Outgoing geocoding provider requests",
		},
		[]string{"kind", "outcome"},
	)

	// GeocodeCacheLookups counts search cache lookups by result (hit/miss).
	GeocodeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejak_geocode_cache_lookups_total",
			Help: "Geocode search cache lookups",
		},
		[]string{"result"},
	)

	// Classifications counts categorizer runs by source and outcome.
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejak_classifications_total",
			Help: "Report categorization attempts",
		},
		[]string{"source", "outcome"},
	)

	// Submissions counts report submissions by outcome.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejak_report_submissions_total",
			Help: "Report submission pipeline outcomes",
		},
		[]string{"outcome"},
	)

	// SubmissionDuration observes end-to-end pipeline latency.
	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jejak_report_submission_duration_seconds",
			Help:    "Report submission pipeline duration",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// StatusUpdates counts admin lifecycle updates by target status and outcome.
	StatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jejak_report_status_updates_total",
			Help: "Admin report status updates",
		},
		[]string{"status", "outcome"},
	)

	// OrphanPhotosRemoved counts photos released by the orphan sweeper.
	OrphanPhotosRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jejak_orphan_photos_removed_total",
			Help: "Uploaded photos removed because no report references them",
		},
	)

	// LiveSearchSessions tracks open live search connections.
	LiveSearchSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jejak_live_search_sessions",
			Help: "Open live location search sessions",
		},
	)
)
