// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"testing"
	"time"

	"github.com/eventide-app/eventide/internal/models"
)

func validInput() *EventInput {
	start := time.Now().UTC().Add(72 * time.Hour)
	end := start.Add(3 * time.Hour)
	lat, lng := 40.7505, -73.9934

	return &EventInput{
		UID:       "evt-1001",
		Source:    "manual",
		Title:     "Knicks vs Celtics",
		VenueName: "Madison Square Garden",
		Address:   "4 Pennsylvania Plaza, New York, NY 10001",
		URL:       "https://example.com:443/tickets/?b=2&a=1",
		StartUTC:  start.Format(time.RFC3339),
		EndUTC:    end.Format(time.RFC3339),
		Timezone:  "EST",
		Lat:       &lat,
		Lng:       &lng,
	}
}

func hasCode(errs []FieldError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateCompleteEventAcceptsValidInput(t *testing.T) {
	result := ValidateCompleteEvent(validInput())

	if !result.IsValid {
		t.Fatalf("expected valid, got errors: %v", result.ErrorStrings())
	}
	if result.Data == nil {
		t.Fatal("Data should be populated for a valid event")
	}

	data := result.Data
	if data.Source != models.SourceManual {
		t.Errorf("source = %q, want manual", data.Source)
	}
	if data.Tag != models.TagOther {
		t.Errorf("tag = %q, want default Other", data.Tag)
	}
	if data.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want default confirmed", data.Status)
	}
	if data.Timezone != "America/New_York" {
		t.Errorf("timezone = %q, want alias-resolved America/New_York", data.Timezone)
	}
	if data.URL != "https://example.com/tickets?a=1&b=2" {
		t.Errorf("url = %q, want canonical form", data.URL)
	}
	if data.Lat == nil || data.Lng == nil {
		t.Fatal("coordinates should be populated")
	}
	if data.EndUTC == nil {
		t.Fatal("endUtc should be populated")
	}
}

func TestValidateCompleteEventNilPayload(t *testing.T) {
	result := ValidateCompleteEvent(nil)
	if result.IsValid || result.Data != nil {
		t.Error("nil payload should be invalid with no data")
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected a single error, got %v", result.Errors)
	}
}

func TestValidateCompleteEventCollectsSchemaErrors(t *testing.T) {
	in := validInput()
	in.UID = ""
	in.StartUTC = "not-a-date"
	in.URL = "javascript:alert(1)"

	result := ValidateCompleteEvent(in)
	if result.IsValid {
		t.Fatal("expected schema failure")
	}
	if result.Data != nil {
		t.Error("Data must be nil when errors are present")
	}
	if len(result.Errors) < 3 {
		t.Errorf("expected all violations collected, got %v", result.ErrorStrings())
	}
}

func TestValidateCompleteEventIncompleteCoordinates(t *testing.T) {
	in := validInput()
	in.Lng = nil

	result := ValidateCompleteEvent(in)
	if result.IsValid {
		t.Fatal("expected business-logic failure")
	}
	if !hasCode(result.Errors, "incomplete_coordinates") {
		t.Errorf("expected incomplete_coordinates error, got %v", result.ErrorStrings())
	}
}

func TestValidateCompleteEventEndBeforeStart(t *testing.T) {
	in := validInput()
	start, _ := time.Parse(time.RFC3339, in.StartUTC)
	in.EndUTC = start.Add(-time.Hour).Format(time.RFC3339)

	result := ValidateCompleteEvent(in)
	if result.IsValid {
		t.Fatal("expected rejection")
	}
	if !hasCode(result.Errors, "end_before_start") {
		t.Errorf("expected end_before_start, got %v", result.ErrorStrings())
	}
}

func TestValidateCompleteEventDurationBounds(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		in := validInput()
		start, _ := time.Parse(time.RFC3339, in.StartUTC)
		in.EndUTC = start.Add(30 * time.Second).Format(time.RFC3339)

		result := ValidateCompleteEvent(in)
		if !hasCode(result.Errors, "duration_too_short") {
			t.Errorf("expected duration_too_short, got %v", result.ErrorStrings())
		}
	})

	t.Run("too long", func(t *testing.T) {
		in := validInput()
		start, _ := time.Parse(time.RFC3339, in.StartUTC)
		in.EndUTC = start.Add(8 * 24 * time.Hour).Format(time.RFC3339)

		result := ValidateCompleteEvent(in)
		if !hasCode(result.Errors, "duration_too_long") {
			t.Errorf("expected duration_too_long, got %v", result.ErrorStrings())
		}
	})
}

func TestValidateCompleteEventTemporalBounds(t *testing.T) {
	t.Run("more than a year past is an error", func(t *testing.T) {
		in := validInput()
		start := time.Now().UTC().Add(-400 * 24 * time.Hour)
		in.StartUTC = start.Format(time.RFC3339)
		in.EndUTC = start.Add(2 * time.Hour).Format(time.RFC3339)

		result := ValidateCompleteEvent(in)
		if !hasCode(result.Errors, "too_far_past") {
			t.Errorf("expected too_far_past, got %v", result.ErrorStrings())
		}
	})

	t.Run("recent past is a warning only", func(t *testing.T) {
		in := validInput()
		start := time.Now().UTC().Add(-45 * 24 * time.Hour)
		in.StartUTC = start.Format(time.RFC3339)
		in.EndUTC = start.Add(2 * time.Hour).Format(time.RFC3339)

		result := ValidateCompleteEvent(in)
		if !result.IsValid {
			t.Fatalf("stale event should still be valid, got %v", result.ErrorStrings())
		}
		if !hasCode(result.Warnings, "stale_event") {
			t.Errorf("expected stale_event warning, got %v", result.Warnings)
		}
	})

	t.Run("far future is a warning only", func(t *testing.T) {
		in := validInput()
		start := time.Now().UTC().Add(800 * 24 * time.Hour)
		in.StartUTC = start.Format(time.RFC3339)
		in.EndUTC = start.Add(2 * time.Hour).Format(time.RFC3339)

		result := ValidateCompleteEvent(in)
		if !result.IsValid {
			t.Fatalf("far-future event should still be valid, got %v", result.ErrorStrings())
		}
		if !hasCode(result.Warnings, "far_future") {
			t.Errorf("expected far_future warning, got %v", result.Warnings)
		}
	})
}

func TestValidateCompleteEventAdvisoryWarnings(t *testing.T) {
	t.Run("placeholder title", func(t *testing.T) {
		in := validInput()
		in.Title = "Sample Gala"

		result := ValidateCompleteEvent(in)
		if !result.IsValid {
			t.Fatalf("warnings must not block acceptance: %v", result.ErrorStrings())
		}
		if !hasCode(result.Warnings, "suspicious_title") {
			t.Errorf("expected suspicious_title warning, got %v", result.Warnings)
		}
	})

	t.Run("missing location", func(t *testing.T) {
		in := validInput()
		in.VenueName = ""
		in.Address = ""
		in.Lat = nil
		in.Lng = nil

		result := ValidateCompleteEvent(in)
		if !result.IsValid {
			t.Fatalf("missing location is advisory: %v", result.ErrorStrings())
		}
		if !hasCode(result.Warnings, "missing_location") {
			t.Errorf("expected missing_location warning, got %v", result.Warnings)
		}
	})

	t.Run("duplicate organizer and contact email", func(t *testing.T) {
		in := validInput()
		in.OrganizerEmail = "Host@Example.com"
		in.ContactEmail = "host@example.com"

		result := ValidateCompleteEvent(in)
		if !result.IsValid {
			t.Fatalf("duplicate email is advisory: %v", result.ErrorStrings())
		}
		if !hasCode(result.Warnings, "duplicate_email") {
			t.Errorf("expected duplicate_email warning, got %v", result.Warnings)
		}
	})
}

func TestValidateCompleteEventUnknownSource(t *testing.T) {
	in := validInput()
	in.Source = "myspace"

	result := ValidateCompleteEvent(in)
	if result.IsValid {
		t.Fatal("unknown source should be rejected")
	}
	if !hasCode(result.Errors, "invalid_enum") {
		t.Errorf("expected invalid_enum, got %v", result.ErrorStrings())
	}
}
