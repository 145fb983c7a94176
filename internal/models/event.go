// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source identifies the external system an event was fetched from.
// The set is an open tagged union: new sources are added by declaring a
// constant here and registering an adapter for it (or marking it
// validation-only in the provider registry).
type Source string

// Known event sources.
const (
	SourceGoogleCal    Source = "googlecal"
	SourceEventbrite   Source = "eventbrite"
	SourceTicketmaster Source = "ticketmaster"
	SourceSeatGeek     Source = "seatgeek"
	SourceManual       Source = "manual"
)

// KnownSources lists every source accepted by schema validation.
func KnownSources() []Source {
	return []Source{
		SourceGoogleCal,
		SourceEventbrite,
		SourceTicketmaster,
		SourceSeatGeek,
		SourceManual,
	}
}

// ParseSource converts a string to a Source, reporting whether it is known.
func ParseSource(s string) (Source, bool) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownSources() {
		if src == known {
			return src, true
		}
	}
	return "", false
}

// Tag is a coarse event categorization chosen by the user.
type Tag string

// Event tags. TagOther is the default when none is supplied.
const (
	TagWork   Tag = "Work"
	TagSocial Tag = "Social"
	TagMusic  Tag = "Music"
	TagOther  Tag = "Other"
)

// Status is the scheduling status of an event.
type Status string

// Event statuses.
const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusCancelled Status = "cancelled"
)

// NormalizedEvent is the provider-agnostic representation of an event as
// produced by a provider adapter, before any validation has run.
//
// StartUTC, EndUTC and LastSeenAtUTC are carried as raw strings: adapters pass
// provider timestamps through unparsed and defer legality checks to the
// validation engine and the ingestion service.
type NormalizedEvent struct {
	// UID is the provider-scoped unique identifier. Events with an empty UID
	// are skipped during ingestion.
	UID string `json:"uid"`

	// Source identifies the provider this event came from.
	Source Source `json:"source"`

	// Title is the display name. Empty titles default to "Untitled Event"
	// during ingestion.
	Title string `json:"title"`

	Description string `json:"description,omitempty"`
	VenueName   string `json:"venueName,omitempty"`
	Address     string `json:"address,omitempty"`
	URL         string `json:"url,omitempty"`

	// StartUTC is an ISO-8601 timestamp string. Required downstream.
	StartUTC string `json:"startUtc"`

	// EndUTC, when present, must parse to an instant strictly after StartUTC.
	EndUTC string `json:"endUtc,omitempty"`

	// LastSeenAtUTC marks wall-clock ingestion time from the source,
	// identical for every event in one fetch batch.
	LastSeenAtUTC string `json:"lastSeenAtUtc"`
}

// Event is the persisted representation of an event.
// (UserID, UID) is the natural key; uniqueness is enforced by the storage layer.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"userId"`
	UID         string     `json:"uid"`
	Source      Source     `json:"source"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	VenueName   *string    `json:"venueName,omitempty"`
	Address     *string    `json:"address,omitempty"`
	URL         *string    `json:"url,omitempty"`
	StartUTC    time.Time  `json:"startUtc"`
	EndUTC      *time.Time `json:"endUtc,omitempty"`
	LastSeenAt  time.Time  `json:"lastSeenAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ValidatedEvent is the canonical record produced by the validation engine
// when a raw, untrusted event input passes both schema and business-logic
// validation. It is a superset of NormalizedEvent with resolved location,
// contact and classification fields.
type ValidatedEvent struct {
	UID         string `json:"uid"`
	Source      Source `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VenueName   string `json:"venueName,omitempty"`
	Address     string `json:"address,omitempty"`
	URL         string `json:"url,omitempty"`

	StartUTC time.Time  `json:"startUtc"`
	EndUTC   *time.Time `json:"endUtc,omitempty"`

	// Timezone is an IANA zone identifier, alias-normalized.
	Timezone string `json:"timezone,omitempty"`

	// OffsetMinutes is the UTC offset derived for Timezone.
	OffsetMinutes int `json:"offsetMinutes,omitempty"`

	// Lat and Lng are always both present or both absent.
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`

	Category       string `json:"category,omitempty"`
	Tag            Tag    `json:"tag"`
	OrganizerEmail string `json:"organizerEmail,omitempty"`
	ContactEmail   string `json:"contactEmail,omitempty"`
	CreatedByUser  bool   `json:"createdByUser"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	Status         Status `json:"status"`
}

// NormalizedAddress is a free-text address decomposed into components.
type NormalizedAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`

	// FullAddress is derived by joining the present components in order
	// street, city, state+postalCode, country.
	FullAddress string `json:"fullAddress,omitempty"`
}

// Join recomputes FullAddress from the recognized, non-empty components.
func (a *NormalizedAddress) Join() string {
	parts := make([]string, 0, 4)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	switch {
	case a.State != "" && a.PostalCode != "":
		parts = append(parts, a.State+" "+a.PostalCode)
	case a.State != "":
		parts = append(parts, a.State)
	case a.PostalCode != "":
		parts = append(parts, a.PostalCode)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	a.FullAddress = strings.Join(parts, ", ")
	return a.FullAddress
}
