// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package providers

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/metrics"
	"github.com/eventide-app/eventide/internal/models"
	"github.com/eventide-app/eventide/internal/normalize"
)

// TicketmasterAdapter fetches events from the Ticketmaster Discovery API.
type TicketmasterAdapter struct {
	cfg    config.TicketmasterConfig
	client *Client
}

// NewTicketmasterAdapter creates the Ticketmaster adapter with its own
// rate-limited, circuit-broken HTTP client. The Discovery API allows 5 req/s
// on the default key tier.
func NewTicketmasterAdapter(cfg config.TicketmasterConfig) *TicketmasterAdapter {
	return &TicketmasterAdapter{
		cfg:    cfg,
		client: NewClient("ticketmaster", 30*time.Second, 5),
	}
}

// Source implements Adapter.
func (a *TicketmasterAdapter) Source() models.Source {
	return models.SourceTicketmaster
}

// discoveryResponse mirrors the subset of the Discovery API event search
// payload the adapter consumes.
type discoveryResponse struct {
	Embedded struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Info        string `json:"info"`
	Description string `json:"description"`
	Dates       struct {
		Start struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
		} `json:"end"`
	} `json:"dates"`
	Embedded struct {
		Venues []discoveryVenue `json:"venues"`
	} `json:"_embedded"`
}

type discoveryVenue struct {
	Name    string `json:"name"`
	Address struct {
		Line1 string `json:"line1"`
		Line2 string `json:"line2"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    struct {
		Name string `json:"name"`
	} `json:"country"`
}

// Fetch implements Adapter. Failures degrade to an empty slice.
func (a *TicketmasterAdapter) Fetch(ctx context.Context, params FetchParams) []models.NormalizedEvent {
	start := time.Now()
	source := string(a.Source())

	if a.cfg.APIKey == "" {
		logging.Warn().Str("source", source).Msg("Provider fetch skipped: missing API key")
		metrics.ProviderFetchErrors.WithLabelValues(source, "missing_credentials").Inc()
		return []models.NormalizedEvent{}
	}

	q := url.Values{}
	q.Set("apikey", a.cfg.APIKey)
	q.Set("size", strconv.Itoa(a.pageSize()))
	q.Set("sort", "date,asc")
	if params.City != "" {
		q.Set("city", params.City)
	}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}

	var resp discoveryResponse
	endpoint := a.cfg.BaseURL + "/events.json?" + q.Encode()
	if err := a.client.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		logging.Error().Err(err).Str("source", source).Msg("Provider fetch failed")
		metrics.ProviderFetchErrors.WithLabelValues(source, "request_failed").Inc()
		return []models.NormalizedEvent{}
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	events := make([]models.NormalizedEvent, 0, len(resp.Embedded.Events))
	for _, raw := range resp.Embedded.Events {
		events = append(events, a.mapEvent(raw, fetchedAt))
	}

	metrics.RecordProviderFetch(source, len(events), time.Since(start))
	logging.Info().Str("source", source).Int("events", len(events)).Msg("Provider fetch completed")
	return events
}

func (a *TicketmasterAdapter) pageSize() int {
	if a.cfg.PageSize > 0 {
		return a.cfg.PageSize
	}
	return 50
}

func (a *TicketmasterAdapter) mapEvent(raw discoveryEvent, fetchedAt string) models.NormalizedEvent {
	// The long-form "info" field takes precedence over the shorter marketing
	// description.
	description := raw.Info
	if description == "" {
		description = raw.Description
	}

	var venueName, address string
	if len(raw.Embedded.Venues) > 0 {
		v := raw.Embedded.Venues[0]
		venueName = v.Name
		address = normalize.JoinAddressParts(
			v.Address.Line1, v.Address.Line2,
			v.City.Name, v.State.StateCode, v.PostalCode, v.Country.Name,
		)
	}

	return models.NormalizedEvent{
		UID:           raw.ID,
		Source:        models.SourceTicketmaster,
		Title:         raw.Name,
		Description:   description,
		VenueName:     venueName,
		Address:       address,
		URL:           raw.URL,
		StartUTC:      raw.Dates.Start.DateTime,
		EndUTC:        raw.Dates.End.DateTime,
		LastSeenAtUTC: fetchedAt,
	}
}
