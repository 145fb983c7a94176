// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"strings"
	"time"

	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/metrics"
	"github.com/eventide-app/eventide/internal/models"
)

// EventInput is the untrusted, event-shaped input accepted by
// ValidateCompleteEvent. All temporal fields arrive as raw strings; nothing
// in this struct is assumed to be well-formed.
type EventInput struct {
	UID         string `json:"uid" validate:"required,max=512"`
	Source      string `json:"source" validate:"required"`
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	VenueName   string `json:"venueName" validate:"omitempty,max=300"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	URL         string `json:"url" validate:"omitempty,max=2048"`

	StartUTC string `json:"startUtc" validate:"required"`
	EndUTC   string `json:"endUtc"`

	Timezone string   `json:"timezone"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`

	Category       string `json:"category" validate:"omitempty,max=100"`
	Tag            string `json:"tag" validate:"omitempty,oneof=Work Social Music Other"`
	OrganizerEmail string `json:"organizerEmail"`
	ContactEmail   string `json:"contactEmail"`
	CreatedByUser  bool   `json:"createdByUser"`
	City           string `json:"city" validate:"omitempty,max=200"`
	Country        string `json:"country" validate:"omitempty,max=100"`
	Status         string `json:"status" validate:"omitempty,oneof=confirmed tentative cancelled"`
}

// Temporal bounds for business-logic validation.
const (
	minEventDuration = time.Minute
	maxEventDuration = 7 * 24 * time.Hour

	maxPastError     = 365 * 24 * time.Hour
	maxPastWarning   = 30 * 24 * time.Hour
	maxFutureWarning = 730 * 24 * time.Hour
)

// suspiciousTitleWords mark titles that look like placeholder content.
var suspiciousTitleWords = []string{"test", "example", "sample"}

// ValidateCompleteEvent is the single entry point for accepting
// user-submitted or third-party event data before storage.
//
// It applies schema validation first; business-logic validation runs only
// when every schema check passes. Errors are fatal, warnings advisory, and
// Data is populated only when no errors were found. A panic during
// validation is reported as a single generic error entry rather than
// crashing the caller.
func ValidateCompleteEvent(in *EventInput) (result *Result) {
	result = &Result{IsValid: true, Errors: []FieldError{}, Warnings: []FieldError{}}

	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("Unexpected failure during event validation")
			result.IsValid = false
			result.Data = nil
			result.Errors = append(result.Errors, FieldError{
				Field:   "event",
				Code:    "internal",
				Message: "unexpected validation failure",
			})
		}
	}()

	if in == nil {
		result.addError("event", "required", "event payload is required")
		metrics.ValidationFailures.WithLabelValues("schema").Inc()
		return result
	}

	parsed := validateSchema(in, result)
	if !result.IsValid {
		metrics.ValidationFailures.WithLabelValues("schema").Inc()
		return result
	}

	validateBusinessRules(in, parsed, result)
	if !result.IsValid {
		metrics.ValidationFailures.WithLabelValues("business").Inc()
		return result
	}

	if len(result.Warnings) > 0 {
		metrics.ValidationWarnings.Add(float64(len(result.Warnings)))
	}

	result.Data = buildValidatedEvent(in, parsed)
	return result
}

// parsedFields carries values decoded during schema validation so the
// business tier and the output builder do not re-parse them.
type parsedFields struct {
	source   models.Source
	start    time.Time
	end      *time.Time
	url      URLResult
	timezone TimezoneResult
	coords   *CoordinateResult
	orgEmail EmailResult
	conEmail EmailResult
}

// validateSchema runs per-field type, range and length checks. Violations
// are collected, never short-circuited.
func validateSchema(in *EventInput, result *Result) *parsedFields {
	parsed := &parsedFields{}

	for _, fe := range structFieldErrors(in) {
		result.IsValid = false
		result.Errors = append(result.Errors, fe)
	}

	if in.Source != "" {
		src, ok := models.ParseSource(in.Source)
		if !ok {
			result.addError("source", "invalid_enum", "source is not a recognized provider")
		}
		parsed.source = src
	}

	if in.StartUTC != "" {
		start, err := ParseTimestamp(in.StartUTC)
		if err != nil {
			result.addError("startUtc", "invalid_timestamp", "startUtc must be an ISO-8601 timestamp")
		} else {
			parsed.start = start
		}
	}
	if in.EndUTC != "" {
		end, err := ParseTimestamp(in.EndUTC)
		switch {
		case err != nil:
			result.addError("endUtc", "invalid_timestamp", "endUtc must be an ISO-8601 timestamp")
		case !parsed.start.IsZero() && !end.After(parsed.start):
			result.addError("endUtc", "end_before_start", "endUtc must be strictly after startUtc")
		default:
			parsed.end = &end
		}
	}

	parsed.url = ValidateURL(in.URL)
	if !parsed.url.IsValid {
		result.addError("url", "invalid_url", parsed.url.Error)
	}

	parsed.timezone = ValidateTimezone(in.Timezone)
	if !parsed.timezone.IsValid {
		result.addError("timezone", "invalid_timezone", parsed.timezone.Error)
	}

	parsed.orgEmail = ValidateEmail(in.OrganizerEmail)
	if !parsed.orgEmail.IsValid {
		result.addError("organizerEmail", "invalid_email", parsed.orgEmail.Error)
	}
	parsed.conEmail = ValidateEmail(in.ContactEmail)
	if !parsed.conEmail.IsValid {
		result.addError("contactEmail", "invalid_email", parsed.conEmail.Error)
	}

	// Coordinate pairing is a business rule; range checks only run when the
	// pair is complete.
	if in.Lat != nil && in.Lng != nil {
		coords := ValidateCoordinates(*in.Lat, *in.Lng)
		if !coords.IsValid {
			result.addError("lat", "invalid_coordinates", coords.Error)
		} else {
			parsed.coords = &coords
			for _, w := range coords.Warnings {
				result.addWarning("lat", "coordinate_heuristic", w)
			}
		}
	}

	return parsed
}

// validateBusinessRules applies cross-field semantic checks. Only runs after
// schema validation passes.
func validateBusinessRules(in *EventInput, parsed *parsedFields, result *Result) {
	// Paired-coordinate completeness
	if (in.Lat == nil) != (in.Lng == nil) {
		result.addError("lat", "incomplete_coordinates", "lat and lng must both be present or both absent")
	}

	// Duration sanity: strictly more than one minute, at most seven days.
	if parsed.end != nil {
		duration := parsed.end.Sub(parsed.start)
		if duration <= minEventDuration {
			result.addError("endUtc", "duration_too_short", "event duration must exceed one minute")
		} else if duration > maxEventDuration {
			result.addError("endUtc", "duration_too_long", "event duration must not exceed seven days")
		}
	}

	// Temporal bounds
	now := time.Now().UTC()
	switch age := now.Sub(parsed.start); {
	case age > maxPastError:
		result.addError("startUtc", "too_far_past", "event starts more than a year in the past")
	case age > maxPastWarning:
		result.addWarning("startUtc", "stale_event", "event starts more than 30 days in the past")
	case parsed.start.Sub(now) > maxFutureWarning:
		result.addWarning("startUtc", "far_future", "event starts more than two years in the future")
	}

	// Suspicious-content heuristics
	titleLower := strings.ToLower(in.Title)
	for _, word := range suspiciousTitleWords {
		if strings.Contains(titleLower, word) {
			result.addWarning("title", "suspicious_title", "title contains placeholder wording: "+word)
			break
		}
	}

	// Missing location
	if in.VenueName == "" && in.Address == "" && parsed.coords == nil {
		result.addWarning("venueName", "missing_location", "event has no venue, address or coordinates")
	}

	// Duplicate organizer/contact email
	if parsed.orgEmail.Normalized != "" && parsed.orgEmail.Normalized == parsed.conEmail.Normalized {
		result.addWarning("contactEmail", "duplicate_email", "organizer and contact emails are identical")
	}
}

// buildValidatedEvent assembles the canonical record once all checks pass.
func buildValidatedEvent(in *EventInput, parsed *parsedFields) *models.ValidatedEvent {
	out := &models.ValidatedEvent{
		UID:            strings.TrimSpace(in.UID),
		Source:         parsed.source,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		VenueName:      strings.TrimSpace(in.VenueName),
		Address:        strings.TrimSpace(in.Address),
		URL:            parsed.url.NormalizedURL,
		StartUTC:       parsed.start,
		EndUTC:         parsed.end,
		Timezone:       parsed.timezone.Normalized,
		OffsetMinutes:  parsed.timezone.OffsetMinutes,
		Category:       strings.TrimSpace(in.Category),
		Tag:            models.TagOther,
		OrganizerEmail: parsed.orgEmail.Normalized,
		ContactEmail:   parsed.conEmail.Normalized,
		CreatedByUser:  in.CreatedByUser,
		City:           strings.TrimSpace(in.City),
		Country:        strings.TrimSpace(in.Country),
		Status:         models.StatusConfirmed,
	}

	if in.Tag != "" {
		out.Tag = models.Tag(in.Tag)
	}
	if in.Status != "" {
		out.Status = models.Status(in.Status)
	}
	if parsed.coords != nil {
		lat, lng := parsed.coords.Lat, parsed.coords.Lng
		out.Lat, out.Lng = &lat, &lng
	}

	return out
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601-ish timestamp string into a UTC instant.
// Layouts without an explicit offset are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
