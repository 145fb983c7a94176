// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package api

import (
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/database"
	"github.com/eventide-app/eventide/internal/ingest"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/models"
	"github.com/eventide-app/eventide/internal/providers"
	"github.com/eventide-app/eventide/internal/validation"
)

// maxRequestBody caps JSON request bodies at 5 MiB.
const maxRequestBody = 5 << 20

// Handler carries the dependencies for all HTTP endpoints. Everything is
// injected; no package-level state.
type Handler struct {
	db      *database.DB
	ingest  *ingest.Service
	runner  *ingest.Runner
	apiCfg  config.APIConfig
	started time.Time
}

// NewHandler creates the endpoint handler.
func NewHandler(db *database.DB, svc *ingest.Service, runner *ingest.Runner, apiCfg config.APIConfig) *Handler {
	return &Handler{
		db:      db,
		ingest:  svc,
		runner:  runner,
		apiCfg:  apiCfg,
		started: time.Now(),
	}
}

// Health reports service liveness and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "ok"
	dbStatus := "ok"
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Warn().Err(err).Msg("Health check database ping failed")
		status = "degraded"
		dbStatus = "unreachable"
	}

	data := map[string]any{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}
	if status != "ok" {
		rw.ServiceUnavailable("database unreachable")
		return
	}
	rw.Success(data)
}

// TriggerIngest fetches from every registered provider for the given user
// and upserts the results.
//
// POST /api/v1/ingest?userId=...&city=...&keyword=...
func (h *Handler) TriggerIngest(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		rw.BadRequest("userId query parameter is required")
		return
	}

	params := providers.FetchParams{
		City:    r.URL.Query().Get("city"),
		Keyword: r.URL.Query().Get("keyword"),
	}

	summary, err := h.runner.IngestForUser(r.Context(), userID, params)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("Ingest run failed")
		rw.InternalError("ingestion failed")
		return
	}
	rw.Success(summary)
}

// upsertRequest is the body for direct event submission.
type upsertRequest struct {
	UserID string                   `json:"userId"`
	Events []models.NormalizedEvent `json:"events"`
}

// UpsertEvents ingests a caller-supplied batch of normalized events.
//
// POST /api/v1/events
func (h *Handler) UpsertEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req upsertRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return
	}
	if req.UserID == "" {
		rw.BadRequest("userId is required")
		return
	}

	summary, err := h.ingest.Upsert(r.Context(), req.UserID, req.Events)
	if err != nil {
		logging.Error().Err(err).Str("user_id", req.UserID).Msg("Upsert batch failed")
		rw.InternalError("ingestion failed")
		return
	}
	rw.Success(summary)
}

// ValidateEvent runs the full validation engine over an untrusted event
// payload and returns the structured result. The record is not persisted.
// An invalid record is still a 200; the verdict lives in the result body.
// Error statuses are reserved for transport failures like unparseable JSON.
//
// POST /api/v1/events/validate
func (h *Handler) ValidateEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var input validation.EventInput
	if err := decodeJSON(r, &input); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return
	}

	rw.Success(validation.ValidateCompleteEvent(&input))
}

// ListEvents returns persisted events for a user with pagination.
//
// GET /api/v1/events?userId=...&source=...&from=...&to=...&limit=...&offset=...
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	userID := q.Get("userId")
	if userID == "" {
		rw.BadRequest("userId query parameter is required")
		return
	}

	filter := database.EventFilter{UserID: userID}

	if src := q.Get("source"); src != "" {
		parsed, ok := models.ParseSource(src)
		if !ok {
			rw.BadRequest("unknown source: " + src)
			return
		}
		filter.Source = parsed
	}
	if from := q.Get("from"); from != "" {
		t, err := validation.ParseTimestamp(from)
		if err != nil {
			rw.BadRequest("from must be an ISO-8601 timestamp")
			return
		}
		filter.StartsAfter = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := validation.ParseTimestamp(to)
		if err != nil {
			rw.BadRequest("to must be an ISO-8601 timestamp")
			return
		}
		filter.StartsBefore = &t
	}

	filter.Limit = h.apiCfg.DefaultPageSize
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			rw.BadRequest("limit must be a positive integer")
			return
		}
		if limit > h.apiCfg.MaxPageSize {
			limit = h.apiCfg.MaxPageSize
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			rw.BadRequest("offset must be a non-negative integer")
			return
		}
		filter.Offset = offset
	}

	events, err := h.db.ListEvents(r.Context(), filter)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("List events failed")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "failed to list events")
		return
	}

	total, err := h.db.CountEvents(r.Context(), database.EventFilter{
		UserID:       filter.UserID,
		Source:       filter.Source,
		StartsAfter:  filter.StartsAfter,
		StartsBefore: filter.StartsBefore,
	})
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("Count events failed")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "failed to count events")
		return
	}

	rw.SuccessWithPagination(events, &PaginationMeta{
		Total:   int64(total),
		Count:   len(events),
		Offset:  filter.Offset,
		Limit:   filter.Limit,
		HasMore: filter.Offset+len(events) < total,
	})
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	return dec.Decode(out)
}
