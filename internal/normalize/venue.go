// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/eventide-app/eventide/internal/models"
)

// providerVenueSuffixes are provider decorations stripped from venue names.
var providerVenueSuffixes = regexp.MustCompile(`(?i)\s*[-|–]\s*(ticketmaster|eventbrite|seatgeek|live nation|presented by [^,]+)\s*$`)

// lowercaseWords stay lowercase in title case unless they lead the name.
var lowercaseWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "nor": true, "but": true,
	"of": true, "at": true, "by": true, "for": true,
	"in": true, "on": true, "to": true, "up": true,
	"de": true, "del": true, "la": true, "von": true,
}

// knownAcronyms are always fully upper-cased.
var knownAcronyms = map[string]bool{
	"msg": true, "nba": true, "nfl": true, "nhl": true, "mlb": true, "mls": true,
	"usa": true, "uk": true, "nyc": true, "la": false, // "la" stays an article
	"dj": true, "vip": true, "amc": true, "imax": true, "bbq": true,
	"ii": true, "iii": true, "iv": true, "xl": true,
	"o2": true, "td": true, "ua": true,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FormatVenueName canonicalizes a venue name: strips control characters and
// provider suffixes, collapses whitespace, then title-cases each word.
// Articles and prepositions stay lowercase except as the first word; known
// acronyms are upper-cased; hyphenated, apostrophe-containing and
// parenthesized sub-tokens are handled recursively.
//
// Suffix stripping only applies to feed sources; a manually entered name is
// the user's own text and keeps any provider-looking suffix.
func FormatVenueName(raw string, source models.Source) string {
	s := collapseWhitespace(stripControl(raw))
	if source != models.SourceManual {
		s = providerVenueSuffixes.ReplaceAllString(s, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, w := range words {
		words[i] = formatVenueWord(w, i == 0)
	}
	return strings.Join(words, " ")
}

// formatVenueWord capitalizes a single token, recursing into composite
// tokens. first suppresses the lowercase-article rule.
func formatVenueWord(word string, first bool) string {
	if word == "" {
		return word
	}

	// Parenthesized sub-tokens: parens may open and close on different words,
	// so peel them one side at a time and capitalize the inner content fresh.
	if strings.HasPrefix(word, "(") {
		return "(" + formatVenueWord(word[1:], true)
	}
	if strings.HasSuffix(word, ")") {
		return formatVenueWord(word[:len(word)-1], first) + ")"
	}

	// Hyphenated compounds: each segment is capitalized independently.
	if strings.Contains(word, "-") {
		parts := strings.Split(word, "-")
		for i, p := range parts {
			parts[i] = formatVenueWord(p, true)
		}
		return strings.Join(parts, "-")
	}

	bare := strings.ToLower(strings.Trim(word, ".,!?:;"))
	if knownAcronyms[bare] {
		return strings.ToUpper(word)
	}
	if !first && lowercaseWords[bare] {
		return strings.ToLower(word)
	}

	// Apostrophes: O'Brien, D'Angelo; possessives keep a lowercase s.
	if strings.Contains(word, "'") {
		parts := strings.Split(word, "'")
		for i, p := range parts {
			if i == 0 || len(p) > 1 {
				parts[i] = capitalizeFirst(p)
			} else {
				parts[i] = strings.ToLower(p)
			}
		}
		return strings.Join(parts, "'")
	}

	return capitalizeFirst(word)
}

// capitalizeFirst upper-cases the first letter and lower-cases the rest.
func capitalizeFirst(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// stripControl removes ASCII control characters.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// collapseWhitespace squeezes whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
