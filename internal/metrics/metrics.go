// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package metrics provides Prometheus instrumentation for:
//   - Database query performance (DuckDB)
//   - API endpoint latency and throughput
//   - Suggestion engine runs
//   - Auto-tagging runs
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Suggestion engine metrics
	SuggestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggest_run_duration_seconds",
			Help:    "Duration of suggestion scoring runs in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SuggestCandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggest_candidates_scored_total",
			Help: "Total number of candidate researchers scored",
		},
	)

	SuggestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggest_runs_total",
			Help: "Total number of suggestion runs",
		},
		[]string{"outcome"}, // "ok", "empty", "error"
	)

	// Semantic provider metrics
	SemanticCallErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "semantic_call_errors_total",
			Help: "Total number of failed semantic similarity calls (degraded to 0)",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 = closed, 1 = half-open, 2 = open)",
		},
		[]string{"name"},
	)

	// Auto-tagging metrics
	AutotagRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autotag_runs_total",
			Help: "Total number of auto-tagging runs",
		},
		[]string{"outcome"}, // "ok", "skipped", "error"
	)

	AutotagLinksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autotag_links_created_total",
			Help: "Total number of researcher-tag associations created by auto-tagging",
		},
	)
)

// RecordDBQuery records a database query observation.
func RecordDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request observation.
func RecordAPIRequest(method, endpoint string, status int, start time.Time) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
}
