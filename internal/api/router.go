// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventide-app/eventide/internal/config"
)

// NewRouter wires all routes and the global middleware stack.
func NewRouter(handler *Handler, security config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(security))

	// Health gets no rate limit so monitoring polls stay cheap.
	r.Get("/api/v1/health", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(security))
		r.Use(PrometheusMetrics())

		// Ingest triggers accept GET for curl-friendly manual runs.
		r.Get("/ingest", handler.TriggerIngest)
		r.Post("/ingest", handler.TriggerIngest)
		r.Post("/events", handler.UpsertEvents)
		r.Post("/events/validate", handler.ValidateEvent)
		r.Get("/events", handler.ListEvents)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
