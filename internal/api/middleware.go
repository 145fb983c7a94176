// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/metrics"
)

// RequestIDWithLogging assigns each request a UUID, exposes it as the
// X-Request-ID response header and threads a request-scoped logger through
// the context.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrometheusMetrics records request counts and latency per method and chi
// route pattern.
func PrometheusMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			metrics.RecordHTTPRequest(r.Method, route, recorder.status, time.Since(start))
		})
	}
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// CORS builds the CORS handler from configured origins. No configured
// origins means same-origin only.
func CORS(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit returns the per-IP rate limiting middleware. Disabled limiting
// yields a pass-through handler.
func RateLimit(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	limit := cfg.RateLimitReqs
	if limit <= 0 {
		limit = 100
	}

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded")
		}),
	)
}
