// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"net/url"
	"strconv"
	"strings"
)

// URLResult is the outcome of validating and canonicalizing a URL.
type URLResult struct {
	IsValid bool `json:"isValid"`

	// NormalizedURL is the canonical form: default ports stripped, trailing
	// path slash removed, query parameters sorted by key, control characters
	// stripped. Empty when the input was blank (opt-out) or invalid.
	NormalizedURL string `json:"normalizedUrl,omitempty"`

	Error string `json:"error,omitempty"`
}

// dangerousSchemes are rejected outright before any parsing.
var dangerousSchemes = []string{
	"javascript:",
	"data:",
	"vbscript:",
	"file:",
	"ftp:",
	"gopher:",
}

// suspiciousHostKeywords reject any hostname containing one of these
// substrings.
var suspiciousHostKeywords = []string{
	"malware",
	"phishing",
	"virus",
	"scam",
}

// ValidateURL validates and canonicalizes a URL string.
//
// Blank input is treated as valid-and-empty (the URL field is an opt-out),
// not as an error. Dangerous schemes, malformed patterns and private,
// loopback or otherwise suspicious hosts are rejected. Bare domain-like
// strings (containing a dot, or localhost) get https:// prepended.
func ValidateURL(raw string) URLResult {
	trimmed := strings.TrimSpace(stripControlChars(raw))
	if trimmed == "" {
		return URLResult{IsValid: true}
	}

	lower := strings.ToLower(trimmed)
	for _, scheme := range dangerousSchemes {
		if strings.HasPrefix(lower, scheme) {
			return urlInvalid("url uses a dangerous scheme")
		}
	}

	// Malformed shapes that url.Parse would happily accept.
	if strings.HasPrefix(trimmed, "://") ||
		strings.HasSuffix(trimmed, ":") ||
		strings.HasSuffix(trimmed, "..") {
		return urlInvalid("url is malformed")
	}

	if !strings.Contains(lower, "://") {
		// Auto-prepend https:// for bare domain-like strings only.
		if !strings.Contains(trimmed, ".") && !strings.HasPrefix(lower, "localhost") {
			return urlInvalid("url must include a scheme or look like a domain")
		}
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return urlInvalid("url is malformed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return urlInvalid("url scheme must be http or https")
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return urlInvalid("url has an empty host")
	}
	if isSuspiciousHost(host) {
		return urlInvalid("url matches suspicious patterns")
	}

	return URLResult{IsValid: true, NormalizedURL: canonicalizeURL(u)}
}

func urlInvalid(msg string) URLResult {
	return URLResult{IsValid: false, Error: msg}
}

// isSuspiciousHost reports whether the host is private, loopback, a
// non-routable TLD, or contains a denylisted keyword.
func isSuspiciousHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}
	if strings.HasPrefix(host, "127.") {
		return true
	}
	// RFC1918 ranges
	if strings.HasPrefix(host, "10.") || strings.HasPrefix(host, "192.168.") {
		return true
	}
	for i := 16; i <= 31; i++ {
		if strings.HasPrefix(host, "172."+strconv.Itoa(i)+".") {
			return true
		}
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".onion") {
		return true
	}
	for _, keyword := range suspiciousHostKeywords {
		if strings.Contains(host, keyword) {
			return true
		}
	}
	return false
}

// canonicalizeURL produces the normalized string form of a parsed URL:
// lowercase host, default ports stripped, trailing path slash removed, query
// parameters sorted alphabetically by key.
func canonicalizeURL(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}

	path := u.EscapedPath()
	path = strings.TrimSuffix(path, "/")

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if q := u.Query(); len(q) > 0 {
		b.WriteString("?")
		// url.Values.Encode sorts keys alphabetically.
		b.WriteString(q.Encode())
	}
	if u.Fragment != "" {
		b.WriteString("#")
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// stripControlChars removes ASCII control characters from s.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
