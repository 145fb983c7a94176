// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"regexp"
	"strings"
)

// EmailResult is the outcome of validating an email address.
type EmailResult struct {
	IsValid bool `json:"isValid"`

	// Normalized is the lowercased, trimmed form. Empty when the input was
	// blank (opt-out) or invalid.
	Normalized string `json:"normalized,omitempty"`

	Error string `json:"error,omitempty"`
}

// maxEmailLength per RFC 5321 forward-path limits.
const maxEmailLength = 254

// emailPattern is an RFC-adjacent shape check; stricter domain rules are
// applied separately by validEmailDomain.
var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// disposableDomains lists throwaway email providers rejected outright.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"throwaway.email":   true,
	"yopmail.com":       true,
	"sharklasers.com":   true,
	"trashmail.com":     true,
}

// suspiciousLocalParts are local parts that indicate placeholder or
// non-deliverable addresses.
var suspiciousLocalParts = map[string]bool{
	"noreply":      true,
	"no-reply":     true,
	"donotreply":   true,
	"do-not-reply": true,
}

// ValidateEmail validates and normalizes an email address.
//
// The address is lowercased and trimmed; blank input is treated as
// valid-and-empty. Disposable domains, placeholder local parts and malformed
// domain syntax are rejected.
func ValidateEmail(raw string) EmailResult {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return EmailResult{IsValid: true}
	}

	if len(normalized) > maxEmailLength {
		return emailInvalid("email exceeds maximum length")
	}
	if !emailPattern.MatchString(normalized) {
		return emailInvalid("email format is invalid")
	}

	at := strings.LastIndex(normalized, "@")
	local, domain := normalized[:at], normalized[at+1:]

	if disposableDomains[domain] {
		return emailInvalid("email uses a disposable domain")
	}
	if suspiciousLocalParts[local] {
		return emailInvalid("email local part looks like a placeholder")
	}
	// test@test, test@test.com and friends
	if local == "test" && strings.HasPrefix(domain, "test") {
		return emailInvalid("email looks like a test address")
	}
	if !validEmailDomain(domain) {
		return emailInvalid("email domain syntax is invalid")
	}

	return EmailResult{IsValid: true, Normalized: normalized}
}

func emailInvalid(msg string) EmailResult {
	return EmailResult{IsValid: false, Error: msg}
}

// validEmailDomain enforces DNS label rules: labels 1-63 characters, no
// leading or trailing hyphen, TLD at least 2 characters.
func validEmailDomain(domain string) bool {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
