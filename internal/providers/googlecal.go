// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package providers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/metrics"
	"github.com/eventide-app/eventide/internal/models"
)

// GoogleCalAdapter fetches events from a Google Calendar secret ICS feed URL.
// Any iCalendar feed works; nothing here is Google-specific beyond the
// configuration naming.
type GoogleCalAdapter struct {
	cfg    config.GoogleCalConfig
	client *Client
}

// NewGoogleCalAdapter creates the Google Calendar ICS adapter.
func NewGoogleCalAdapter(cfg config.GoogleCalConfig) *GoogleCalAdapter {
	return &GoogleCalAdapter{
		cfg:    cfg,
		client: NewClient("googlecal", 30*time.Second, 2),
	}
}

// Source implements Adapter.
func (a *GoogleCalAdapter) Source() models.Source {
	return models.SourceGoogleCal
}

// Fetch implements Adapter. The feed is fetched whole and parsed as
// iCalendar; a VEVENT that fails to parse is skipped, not fatal to the batch.
// City/keyword filtering is not expressible against an ICS feed and is
// ignored.
func (a *GoogleCalAdapter) Fetch(ctx context.Context, _ FetchParams) []models.NormalizedEvent {
	start := time.Now()
	source := string(a.Source())

	if a.cfg.FeedURL == "" {
		logging.Warn().Str("source", source).Msg("Provider fetch skipped: no feed URL configured")
		metrics.ProviderFetchErrors.WithLabelValues(source, "missing_credentials").Inc()
		return []models.NormalizedEvent{}
	}

	body, err := a.client.Get(ctx, a.cfg.FeedURL, http.Header{"Accept": []string{"text/calendar"}})
	if err != nil {
		logging.Error().Err(err).Str("source", source).Msg("Provider fetch failed")
		metrics.ProviderFetchErrors.WithLabelValues(source, "request_failed").Inc()
		return []models.NormalizedEvent{}
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		logging.Error().Err(err).Str("source", source).Msg("ICS parse failed")
		metrics.ProviderFetchErrors.WithLabelValues(source, "parse_failed").Inc()
		return []models.NormalizedEvent{}
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	events := make([]models.NormalizedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, ok := a.mapVEvent(ve, fetchedAt)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	metrics.RecordProviderFetch(source, len(events), time.Since(start))
	logging.Info().Str("source", source).Int("events", len(events)).Msg("Provider fetch completed")
	return events
}

func (a *GoogleCalAdapter) mapVEvent(ve *ical.VEvent, fetchedAt string) (models.NormalizedEvent, bool) {
	out := models.NormalizedEvent{
		Source:        models.SourceGoogleCal,
		LastSeenAtUTC: fetchedAt,
	}

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		logging.Debug().Str("source", string(out.Source)).Msg("Skipping VEVENT without UID")
		return out, false
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	// LOCATION is free text; downstream address normalization decomposes it.
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Address = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		out.URL = p.Value
	}

	startAt, err := ve.GetStartAt()
	if err != nil {
		logging.Debug().Err(err).Str("uid", out.UID).Msg("Skipping VEVENT with unparseable DTSTART")
		return out, false
	}
	out.StartUTC = startAt.UTC().Format(time.RFC3339)

	if endAt, err := ve.GetEndAt(); err == nil && endAt.After(startAt) {
		out.EndUTC = endAt.UTC().Format(time.RFC3339)
	}

	return out, true
}
