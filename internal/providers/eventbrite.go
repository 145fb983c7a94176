// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/metrics"
	"github.com/eventide-app/eventide/internal/models"
	"github.com/eventide-app/eventide/internal/normalize"
)

// TokenSource supplies a valid bearer token for an upstream API, refreshing
// on expiry when backed by a linked account.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token, for single-tenant deployments
// configured with a personal API token.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// maxEventbritePages bounds the pagination loop per fetch.
const maxEventbritePages = 5

// EventbriteAdapter fetches the authenticated user's events from the
// Eventbrite API.
type EventbriteAdapter struct {
	cfg    config.EventbriteConfig
	tokens TokenSource
	client *Client
}

// NewEventbriteAdapter creates the Eventbrite adapter. tokens may be a
// StaticTokenSource from config or an account-backed refreshing source.
func NewEventbriteAdapter(cfg config.EventbriteConfig, tokens TokenSource) *EventbriteAdapter {
	return &EventbriteAdapter{
		cfg:    cfg,
		tokens: tokens,
		client: NewClient("eventbrite", 30*time.Second, 10),
	}
}

// Source implements Adapter.
func (a *EventbriteAdapter) Source() models.Source {
	return models.SourceEventbrite
}

type eventbriteResponse struct {
	Pagination struct {
		PageNumber   int  `json:"page_number"`
		PageCount    int  `json:"page_count"`
		HasMoreItems bool `json:"has_more_items"`
	} `json:"pagination"`
	Events []eventbriteEvent `json:"events"`
}

type eventbriteEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Start   struct {
		UTC string `json:"utc"`
	} `json:"start"`
	End struct {
		UTC string `json:"utc"`
	} `json:"end"`
	Venue *eventbriteVenue `json:"venue"`
}

type eventbriteVenue struct {
	Name    string `json:"name"`
	Address struct {
		Address1   string `json:"address_1"`
		Address2   string `json:"address_2"`
		City       string `json:"city"`
		Region     string `json:"region"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	} `json:"address"`
}

// Fetch implements Adapter. Auth or network failures degrade to an empty
// slice; pagination stops at maxEventbritePages.
func (a *EventbriteAdapter) Fetch(ctx context.Context, params FetchParams) []models.NormalizedEvent {
	start := time.Now()
	source := string(a.Source())

	token, err := a.tokens.Token(ctx)
	if err != nil || token == "" {
		logging.Warn().Err(err).Str("source", source).Msg("Provider fetch skipped: no usable token")
		metrics.ProviderFetchErrors.WithLabelValues(source, "missing_credentials").Inc()
		return []models.NormalizedEvent{}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	events := make([]models.NormalizedEvent, 0)

	for page := 1; page <= maxEventbritePages; page++ {
		q := url.Values{}
		q.Set("expand", "venue")
		q.Set("page", strconv.Itoa(page))

		var resp eventbriteResponse
		endpoint := a.cfg.BaseURL + "/users/me/events/?" + q.Encode()
		if err := a.client.GetJSON(ctx, endpoint, header, &resp); err != nil {
			logging.Error().Err(err).Str("source", source).Int("page", page).Msg("Provider fetch failed")
			metrics.ProviderFetchErrors.WithLabelValues(source, "request_failed").Inc()
			// Partial pages are discarded: a half-fetched batch would make
			// lastSeenAt bookkeeping lie about what was observed.
			return []models.NormalizedEvent{}
		}

		for _, raw := range resp.Events {
			events = append(events, a.mapEvent(raw, fetchedAt))
		}
		if !resp.Pagination.HasMoreItems {
			break
		}
	}

	metrics.RecordProviderFetch(source, len(events), time.Since(start))
	logging.Info().Str("source", source).Int("events", len(events)).Msg("Provider fetch completed")
	return events
}

func (a *EventbriteAdapter) mapEvent(raw eventbriteEvent, fetchedAt string) models.NormalizedEvent {
	// Long-form description first, short summary as fallback.
	description := raw.Description.Text
	if description == "" {
		description = raw.Summary
	}

	var venueName, address string
	if raw.Venue != nil {
		venueName = raw.Venue.Name
		addr := raw.Venue.Address
		address = normalize.JoinAddressParts(
			addr.Address1, addr.Address2,
			addr.City, addr.Region, addr.PostalCode, addr.Country,
		)
	}

	return models.NormalizedEvent{
		UID:           raw.ID,
		Source:        models.SourceEventbrite,
		Title:         raw.Name.Text,
		Description:   description,
		VenueName:     venueName,
		Address:       address,
		URL:           raw.URL,
		StartUTC:      raw.Start.UTC,
		EndUTC:        raw.End.UTC,
		LastSeenAtUTC: fetchedAt,
	}
}
