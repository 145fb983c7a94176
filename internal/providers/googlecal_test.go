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

func icsFeed() string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Eventide Test//EN",
		"BEGIN:VEVENT",
		"UID:gcal-1@group.calendar.google.com",
		"SUMMARY:Team Offsite",
		"DESCRIPTION:Quarterly planning",
		"LOCATION:Lady Bird Lake Boathouse",
		"DTSTART:20261012T150000Z",
		"DTEND:20261012T170000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:Event Without Identity",
		"DTSTART:20261013T150000Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}
	return strings.Join(lines, "\r\n")
}

func TestGoogleCalFetchParsesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(icsFeed()))
	}))
	defer server.Close()

	adapter := NewGoogleCalAdapter(config.GoogleCalConfig{Enabled: true, FeedURL: server.URL})

	events := adapter.Fetch(context.Background(), FetchParams{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (UID-less VEVENT skipped)", len(events))
	}

	ev := events[0]
	if ev.UID != "gcal-1@group.calendar.google.com" || ev.Source != models.SourceGoogleCal {
		t.Errorf("identity = (%s, %s)", ev.UID, ev.Source)
	}
	if ev.Title != "Team Offsite" {
		t.Errorf("title = %q", ev.Title)
	}
	if ev.Description != "Quarterly planning" {
		t.Errorf("description = %q", ev.Description)
	}
	if ev.Address != "Lady Bird Lake Boathouse" {
		t.Errorf("address = %q, want LOCATION carried over", ev.Address)
	}
	if ev.StartUTC != "2026-10-12T15:00:00Z" {
		t.Errorf("startUtc = %q", ev.StartUTC)
	}
	if ev.EndUTC != "2026-10-12T17:00:00Z" {
		t.Errorf("endUtc = %q", ev.EndUTC)
	}
}

func TestGoogleCalFetchFailuresYieldEmptySlice(t *testing.T) {
	t.Run("no feed url", func(t *testing.T) {
		adapter := NewGoogleCalAdapter(config.GoogleCalConfig{})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})

	t.Run("unparseable body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("this is not a calendar"))
		}))
		defer server.Close()

		adapter := NewGoogleCalAdapter(config.GoogleCalConfig{FeedURL: server.URL})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		adapter := NewGoogleCalAdapter(config.GoogleCalConfig{FeedURL: server.URL})
		if events := adapter.Fetch(context.Background(), FetchParams{}); len(events) != 0 {
			t.Errorf("got %d events, want empty", len(events))
		}
	})
}
