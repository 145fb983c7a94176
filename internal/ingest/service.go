// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package ingest implements the idempotent upsert pipeline that moves
// normalized provider events into the persisted store.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eventide-app/eventide/internal/database"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/metrics"
	"github.com/eventide-app/eventide/internal/models"
	"github.com/eventide-app/eventide/internal/validation"
)

// defaultTitle replaces an empty event title during ingestion.
const defaultTitle = "Untitled Event"

// EventStore is the persistence surface the service depends on.
// GetEventByUserUID returns (nil, nil) when no row exists.
type EventStore interface {
	GetEventByUserUID(ctx context.Context, userID, uid string) (*models.Event, error)
	InsertEvent(ctx context.Context, e *models.Event) error
	UpdateEvent(ctx context.Context, e *models.Event) error
}

// Summary reports the per-batch outcome counts. Skipped covers events with
// missing identity or unparseable timestamps as well as races resolved by
// the storage layer's unique constraint.
type Summary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Service deduplicates normalized events against the persisted store keyed
// by (userID, uid) and applies insert-or-update semantics.
type Service struct {
	store EventStore
}

// NewService creates the ingestion service.
func NewService(store EventStore) *Service {
	return &Service{store: store}
}

// Upsert processes a batch of normalized events for one user sequentially.
//
// Per event: skip (never fail) when uid is empty or a required timestamp does
// not parse; sanitize optional text fields; then update the existing row or
// insert a new one. One event's failure never aborts the batch; the returned
// Summary always accounts for every event attempted.
func (s *Service) Upsert(ctx context.Context, userID string, events []models.NormalizedEvent) (Summary, error) {
	if userID == "" {
		return Summary{}, fmt.Errorf("userID is required")
	}

	start := time.Now()
	var summary Summary

	for i := range events {
		outcome := s.upsertOne(ctx, userID, &events[i])
		switch outcome {
		case outcomeInserted:
			summary.Inserted++
		case outcomeUpdated:
			summary.Updated++
		default:
			summary.Skipped++
		}
		metrics.RecordIngestOutcome(string(outcome))
	}

	metrics.IngestBatchDuration.Observe(time.Since(start).Seconds())
	logging.Info().
		Str("user_id", userID).
		Int("batch", len(events)).
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Msg("Ingestion batch completed")
	return summary, nil
}

type outcome string

const (
	outcomeInserted outcome = "inserted"
	outcomeUpdated  outcome = "updated"
	outcomeSkipped  outcome = "skipped"
)

func (s *Service) upsertOne(ctx context.Context, userID string, ev *models.NormalizedEvent) outcome {
	uid := strings.TrimSpace(ev.UID)
	if uid == "" {
		logging.Debug().Str("user_id", userID).Str("source", string(ev.Source)).
			Msg("Skipping event without uid")
		return outcomeSkipped
	}

	startUTC, err := validation.ParseTimestamp(ev.StartUTC)
	if err != nil {
		logging.Debug().Str("user_id", userID).Str("uid", uid).Str("start_utc", ev.StartUTC).
			Msg("Skipping event with unparseable start time")
		return outcomeSkipped
	}

	lastSeen, err := validation.ParseTimestamp(ev.LastSeenAtUTC)
	if err != nil {
		logging.Debug().Str("user_id", userID).Str("uid", uid).Str("last_seen_at", ev.LastSeenAtUTC).
			Msg("Skipping event with unparseable last-seen time")
		return outcomeSkipped
	}

	var endUTC *time.Time
	if strings.TrimSpace(ev.EndUTC) != "" {
		if end, err := validation.ParseTimestamp(ev.EndUTC); err == nil && end.After(startUTC) {
			endUTC = &end
		}
	}

	title := strings.TrimSpace(ev.Title)
	if title == "" {
		title = defaultTitle
	}

	existing, err := s.store.GetEventByUserUID(ctx, userID, uid)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Str("uid", uid).
			Msg("Event lookup failed; skipping")
		return outcomeSkipped
	}

	now := time.Now().UTC()

	if existing != nil {
		existing.Title = title
		existing.Description = optionalText(ev.Description)
		existing.VenueName = optionalText(ev.VenueName)
		existing.Address = optionalText(ev.Address)
		existing.URL = optionalText(ev.URL)
		existing.StartUTC = startUTC
		existing.EndUTC = endUTC
		existing.LastSeenAt = lastSeen
		existing.UpdatedAt = now

		if err := s.store.UpdateEvent(ctx, existing); err != nil {
			logging.Error().Err(err).Str("user_id", userID).Str("uid", uid).
				Msg("Event update failed; skipping")
			return outcomeSkipped
		}
		return outcomeUpdated
	}

	record := &models.Event{
		ID:          uuid.New(),
		UserID:      userID,
		UID:         uid,
		Source:      ev.Source,
		Title:       title,
		Description: optionalText(ev.Description),
		VenueName:   optionalText(ev.VenueName),
		Address:     optionalText(ev.Address),
		URL:         optionalText(ev.URL),
		StartUTC:    startUTC,
		EndUTC:      endUTC,
		LastSeenAt:  lastSeen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.InsertEvent(ctx, record); err != nil {
		// A concurrent writer won the (user_id, uid) race; the row exists, so
		// the event is already ingested rather than failed.
		if database.IsUniqueViolation(err) {
			logging.Debug().Str("user_id", userID).Str("uid", uid).
				Msg("Event already ingested; skipping duplicate insert")
			return outcomeSkipped
		}
		logging.Error().Err(err).Str("user_id", userID).Str("uid", uid).
			Msg("Event insert failed; skipping")
		return outcomeSkipped
	}
	return outcomeInserted
}

// optionalText trims a free-text field, collapsing blank values to nil.
func optionalText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
