// Package metrics defines the Prometheus instrumentation for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source Client Metrics
var (
	// SourceFetchesTotal tracks upstream fetches by source and status
	SourceFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetches_total",
			Help: "Total upstream fetches by source and status",
		},
		[]string{"source", "status"},
	)

	// SourceFetchDuration tracks upstream fetch latency in seconds
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Upstream fetch duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// SourceBreakerState tracks circuit breaker state per source (0=closed, 1=half-open, 2=open)
	SourceBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_breaker_state",
			Help: "Circuit breaker state per source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)
)

// Poll Cycle Metrics
var (
	// CyclesTotal tracks poll cycles by outcome
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_cycles_total",
			Help: "Total poll cycles by outcome (success, failed, superseded)",
		},
		[]string{"outcome"},
	)

	// CycleDuration tracks full cycle duration (fetch + render + fingerprint) in seconds
	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poll_cycle_duration_seconds",
			Help:    "Poll cycle duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// CacheSequence tracks the sequence number of the live cache entry
	CacheSequence = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_sequence",
			Help: "Sequence number of the live cache entry",
		},
	)
)

// Hub Metrics
var (
	// HubConnectedClients tracks the number of registered streaming clients
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Number of registered streaming clients",
		},
	)

	// HubBroadcastsTotal tracks change notifications fanned out to clients
	HubBroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total change notifications fanned out to clients",
		},
	)

	// HubHeartbeatsTotal tracks keep-alive rounds sent to clients
	HubHeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_heartbeats_total",
			Help: "Total keep-alive rounds sent to clients",
		},
	)

	// HubClientsPrunedTotal tracks clients removed because their sink was dead or full
	HubClientsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_clients_pruned_total",
			Help: "Total clients removed because their sink was dead or full",
		},
	)
)
