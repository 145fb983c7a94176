// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package metrics provides Prometheus instrumentation for Eventide.
//
// Exposed metric families:
//   - HTTP request latency, throughput and status codes
//   - Provider fetch duration, event counts and failures per source
//   - Ingestion outcomes (inserted, updated, skipped)
//   - Validation failures per tier
//   - Circuit breaker state and request outcomes
//
// Metrics are served at /metrics in Prometheus text format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventide_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Provider fetch metrics

	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventide_provider_fetch_duration_seconds",
			Help:    "Duration of provider fetch calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	ProviderFetchEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_provider_fetch_events_total",
			Help: "Normalized events returned by provider fetches",
		},
		[]string{"source"},
	)

	ProviderFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_provider_fetch_errors_total",
			Help: "Provider fetch failures degraded to empty results",
		},
		[]string{"source", "reason"},
	)

	// Ingestion metrics

	IngestEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_ingest_events_total",
			Help: "Ingestion outcomes per event (inserted, updated, skipped)",
		},
		[]string{"outcome"},
	)

	IngestBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventide_ingest_batch_duration_seconds",
			Help:    "Duration of ingestion batches in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	// Validation metrics

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_validation_failures_total",
			Help: "Records rejected by the validation engine, per tier",
		},
		[]string{"tier"},
	)

	ValidationWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventide_validation_warnings_total",
			Help: "Advisory warnings attached to otherwise-valid records",
		},
	)

	// Circuit breaker metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventide_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventide_circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "outcome"},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordProviderFetch records a provider fetch attempt and its yield.
func RecordProviderFetch(source string, events int, duration time.Duration) {
	ProviderFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	ProviderFetchEvents.WithLabelValues(source).Add(float64(events))
}

// RecordIngestOutcome increments the per-event ingestion outcome counter.
func RecordIngestOutcome(outcome string) {
	IngestEventsTotal.WithLabelValues(outcome).Inc()
}
