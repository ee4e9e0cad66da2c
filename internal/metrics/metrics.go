package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "curbside"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
)

// Business metrics
var (
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Parking decisions by verdict",
		},
		[]string{"status"},
	)

	RulesClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rules_classified_total",
			Help:      "Classified rules by type",
		},
		[]string{"type"},
	)
)

// Upstream fetch metrics
var (
	OpenDataFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "opendata_fetches_total",
			Help:      "Upstream open-data fetches by outcome",
		},
		[]string{"dataset", "outcome"}, // outcome: cache_hit, fetched, error
	)

	SnapshotFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fallbacks_total",
			Help:      "Requests served from the snapshot store after an empty live fetch",
		},
	)
)
