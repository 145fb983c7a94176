// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"strings"
	"time"
)

// TimezoneResult is the outcome of validating a timezone identifier.
type TimezoneResult struct {
	IsValid bool `json:"isValid"`

	// Normalized is the alias-resolved IANA identifier.
	Normalized string `json:"normalized,omitempty"`

	// OffsetMinutes is the standard-time UTC offset of the zone in minutes.
	OffsetMinutes int `json:"offsetMinutes"`

	Error string `json:"error,omitempty"`
}

// timezoneAliases maps common abbreviations and legacy names to IANA
// identifiers. Input is normalized through this table before resolution.
var timezoneAliases = map[string]string{
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"GMT":  "UTC",
	"UT":   "UTC",
	"Z":    "UTC",
	"BST":  "Europe/London",
	"CET":  "Europe/Paris",
	"IST":  "Asia/Kolkata",
	"JST":  "Asia/Tokyo",
	"KST":  "Asia/Seoul",
	"AEST": "Australia/Sydney",
}

// staticOffsetMinutes overrides the computed offset for common zones so the
// derived value is stable regardless of the DST state at validation time.
var staticOffsetMinutes = map[string]int{
	"UTC":                 0,
	"America/New_York":    -300,
	"America/Chicago":     -360,
	"America/Denver":      -420,
	"America/Los_Angeles": -480,
	"America/Sao_Paulo":   -180,
	"Europe/London":       0,
	"Europe/Paris":        60,
	"Europe/Berlin":       60,
	"Asia/Kolkata":        330,
	"Asia/Tokyo":          540,
	"Asia/Seoul":          540,
	"Asia/Shanghai":       480,
	"Australia/Sydney":    600,
}

// ValidateTimezone alias-normalizes a timezone identifier and confirms the
// platform timezone database can resolve it. Blank input is valid-and-empty.
// Unresolvable identifiers are errors.
func ValidateTimezone(raw string) TimezoneResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TimezoneResult{IsValid: true}
	}

	normalized := trimmed
	if alias, ok := timezoneAliases[strings.ToUpper(trimmed)]; ok {
		normalized = alias
	}

	loc, err := time.LoadLocation(normalized)
	if err != nil {
		return TimezoneResult{IsValid: false, Error: "unknown timezone identifier"}
	}

	offset, ok := staticOffsetMinutes[normalized]
	if !ok {
		// Derive from the zone database. Midwinter UTC avoids most DST
		// states in the northern hemisphere, matching the static table.
		ref := time.Date(time.Now().Year(), time.January, 15, 12, 0, 0, 0, time.UTC)
		_, seconds := ref.In(loc).Zone()
		offset = seconds / 60
	}

	return TimezoneResult{
		IsValid:       true,
		Normalized:    normalized,
		OffsetMinutes: offset,
	}
}
