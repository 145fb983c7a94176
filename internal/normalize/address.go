// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package normalize

import (
	"regexp"
	"strings"

	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/models"
)

// defaultCountry is assumed when a US state/ZIP pattern matches without an
// explicit country component.
const defaultCountry = "United States"

// cityLengthThreshold: unmatched single-component input at or above this
// length is treated as a locality rather than a street address.
const cityLengthThreshold = 40

// providerAddressSuffixes are provider-injected decorations stripped from
// free-text addresses before pattern matching.
var providerAddressSuffixes = regexp.MustCompile(`(?i)\s*[-|–]\s*(ticketmaster|eventbrite|seatgeek|live nation)\s*$`)

// localityKeywords mark single-component input as a city name.
var localityKeywords = []string{"city", "town", "village", "township", "borough"}

// addressPattern pairs a regex with an extractor mapping its capture groups
// to address components.
type addressPattern struct {
	re      *regexp.Regexp
	extract func(m []string) models.NormalizedAddress
}

// addressPatterns are tried in strict precedence order, most specific first.
// The first match wins.
var addressPatterns = []addressPattern{
	// 1. Street, City, ST 12345[-6789][, Country]
	{
		re: regexp.MustCompile(`^(.+?),\s*([^,]+?),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)(?:,\s*(.+))?$`),
		extract: func(m []string) models.NormalizedAddress {
			country := m[5]
			if country == "" {
				country = defaultCountry
			}
			return models.NormalizedAddress{Street: m[1], City: m[2], State: m[3], PostalCode: m[4], Country: country}
		},
	},
	// 2. Street, City, ST[, Country] (US state without ZIP)
	{
		re: regexp.MustCompile(`^(.+?),\s*([^,]+?),\s*([A-Z]{2})(?:,\s*(.+))?$`),
		extract: func(m []string) models.NormalizedAddress {
			country := m[4]
			if country == "" {
				country = defaultCountry
			}
			return models.NormalizedAddress{Street: m[1], City: m[2], State: m[3], Country: country}
		},
	},
	// 3. Street, City, Postcode, Country (UK/Canadian style alphanumeric codes)
	{
		re: regexp.MustCompile(`^(.+?),\s*([^,]+?),\s*([A-Z]\d[A-Z]\s?\d[A-Z]\d|[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}),\s*(.+)$`),
		extract: func(m []string) models.NormalizedAddress {
			return models.NormalizedAddress{Street: m[1], City: m[2], PostalCode: m[3], Country: m[4]}
		},
	},
	// 4. Street, City, Postalcode (numeric, non-US)
	{
		re: regexp.MustCompile(`^(.+?),\s*([^,]+?),\s*(\d{4,6})$`),
		extract: func(m []string) models.NormalizedAddress {
			return models.NormalizedAddress{Street: m[1], City: m[2], PostalCode: m[3]}
		},
	},
	// 5. Street, City, Country (three parts, no state or code)
	{
		re: regexp.MustCompile(`^(.+?),\s*([^,]+?),\s*([^,\d]{3,})$`),
		extract: func(m []string) models.NormalizedAddress {
			return models.NormalizedAddress{Street: m[1], City: m[2], Country: m[3]}
		},
	},
	// 6. Street, City (first part looks street-like)
	{
		re: regexp.MustCompile(`(?i)^([^,]*(?:\d|\b(?:st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane|way|plaza|sq|square)\b\.?)[^,]*?),\s*([^,]+)$`),
		extract: func(m []string) models.NormalizedAddress {
			return models.NormalizedAddress{Street: strings.TrimSpace(m[1]), City: m[2]}
		},
	},
	// 7. City, Country (least specific two-part form)
	{
		re: regexp.MustCompile(`^([^,]+?),\s*([^,]+)$`),
		extract: func(m []string) models.NormalizedAddress {
			return models.NormalizedAddress{City: m[1], Country: m[2]}
		},
	},
}

// NormalizeAddress decomposes a free-text address into structured components.
//
// Provider-injected suffixes are stripped first, then the fallback patterns
// are tried in precedence order. Input matching no pattern is kept as a bare
// street address unless it heuristically resembles a locality name. The
// returned FullAddress is re-joined from the recognized components.
func NormalizeAddress(raw string, source models.Source) *models.NormalizedAddress {
	cleaned := preCleanAddress(raw, source)
	if cleaned == "" {
		return &models.NormalizedAddress{}
	}

	for _, p := range addressPatterns {
		if m := p.re.FindStringSubmatch(cleaned); m != nil {
			addr := p.extract(m)
			trimAddressFields(&addr)
			addr.Join()
			return &addr
		}
	}

	addr := models.NormalizedAddress{}
	if looksLikeCityName(cleaned) {
		addr.City = cleaned
	} else {
		logging.Debug().
			Str("source", string(source)).
			Str("address", cleaned).
			Msg("Address matched no known pattern; keeping as street")
		addr.Street = cleaned
	}
	addr.Join()
	return &addr
}

// preCleanAddress strips control characters, collapses whitespace and removes
// provider-name decorations.
func preCleanAddress(raw string, source models.Source) string {
	s := collapseWhitespace(stripControl(raw))
	s = providerAddressSuffixes.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.Trim(s, ","))
}

// looksLikeCityName reports whether an unstructured single-component string
// should be treated as a locality: it contains a locality keyword, or it is
// long enough that a bare street address is implausible.
func looksLikeCityName(s string) bool {
	if len(s) >= cityLengthThreshold {
		return true
	}
	lower := strings.ToLower(s)
	for _, kw := range localityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func trimAddressFields(a *models.NormalizedAddress) {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Country = strings.TrimSpace(a.Country)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
}

// JoinAddressParts joins non-empty address sub-fields with ", ", skipping
// blanks. Used by provider adapters that synthesize a flat address from a
// nested venue object.
func JoinAddressParts(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ", ")
}
