// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/models"
)

const discoveryPayload = `{
	"_embedded": {
		"events": [
			{
				"id": "tm-100",
				"name": "Austin City Limits",
				"url": "https://www.ticketmaster.com/event/tm-100",
				"info": "Two weekends of music.",
				"description": "short blurb",
				"dates": {"start": {"dateTime": "2026-10-02T17:00:00Z"}},
				"_embedded": {
					"venues": [{
						"name": "Zilker Park",
						"address": {"line1": "2207 Lou Neff Rd"},
						"city": {"name": "Austin"},
						"state": {"stateCode": "TX"},
						"postalCode": "78746",
						"country": {"name": "United States"}
					}]
				}
			},
			{
				"id": "tm-101",
				"name": "No Venue Show",
				"dates": {"start": {"dateTime": "2026-11-05T01:00:00Z"}}
			}
		]
	}
}`

func TestTicketmasterFetchMapsEvents(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(discoveryPayload))
	}))
	defer server.Close()

	adapter := NewTicketmasterAdapter(config.TicketmasterConfig{
		Enabled: true,
		APIKey:  "key-123",
		BaseURL: server.URL,
	})

	events := adapter.Fetch(context.Background(), FetchParams{City: "Austin", Keyword: "music"})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.UID != "tm-100" || first.Source != models.SourceTicketmaster {
		t.Errorf("identity = (%s, %s)", first.UID, first.Source)
	}
	if first.Title != "Austin City Limits" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Description != "Two weekends of music." {
		t.Errorf("description = %q, want info field preferred", first.Description)
	}
	if first.VenueName != "Zilker Park" {
		t.Errorf("venueName = %q", first.VenueName)
	}
	if first.Address != "2207 Lou Neff Rd, Austin, TX, 78746, United States" {
		t.Errorf("address = %q, want joined non-empty sub-fields", first.Address)
	}
	if first.StartUTC != "2026-10-02T17:00:00Z" {
		t.Errorf("startUtc = %q, want passed through unparsed", first.StartUTC)
	}
	if first.LastSeenAtUTC == "" {
		t.Error("lastSeenAtUtc should be stamped")
	}

	second := events[1]
	if second.VenueName != "" || second.Address != "" {
		t.Errorf("venue-less event should map empty location, got (%q, %q)", second.VenueName, second.Address)
	}
	if second.LastSeenAtUTC != first.LastSeenAtUTC {
		t.Error("lastSeenAtUtc must be identical across one fetch batch")
	}

	for _, fragment := range []string{"apikey=key-123", "city=Austin", "keyword=music"} {
		if !strings.Contains(gotQuery, fragment) {
			t.Errorf("query %q missing %q", gotQuery, fragment)
		}
	}
}

func TestTicketmasterFetchFailuresYieldEmptySlice(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		adapter := NewTicketmasterAdapter(config.TicketmasterConfig{BaseURL: "http://127.0.0.1:0"})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		adapter := NewTicketmasterAdapter(config.TicketmasterConfig{APIKey: "k", BaseURL: server.URL})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}))
		defer server.Close()

		adapter := NewTicketmasterAdapter(config.TicketmasterConfig{APIKey: "k", BaseURL: server.URL})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		adapter := NewTicketmasterAdapter(config.TicketmasterConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})
}
