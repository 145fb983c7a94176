// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"strings"
	"testing"
)

func TestValidateEmailNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercased", "Organizer@Example.COM", "organizer@example.com"},
		{"trimmed", "  contact@example.org  ", "contact@example.org"},
		{"plus addressing kept", "events+nyc@example.com", "events+nyc@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateEmail(tt.input)
			if !result.IsValid {
				t.Fatalf("ValidateEmail(%q) invalid: %s", tt.input, result.Error)
			}
			if result.Normalized != tt.want {
				t.Errorf("ValidateEmail(%q) = %q, want %q", tt.input, result.Normalized, tt.want)
			}
		})
	}
}

func TestValidateEmailBlankIsOptOut(t *testing.T) {
	result := ValidateEmail("   ")
	if !result.IsValid || result.Normalized != "" {
		t.Errorf("blank email should be valid-and-empty, got %+v", result)
	}
}

func TestValidateEmailRejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing at", "not-an-email"},
		{"missing tld", "user@localhost"},
		{"single char tld", "user@example.c"},
		{"numeric tld", "user@example.123"},
		{"leading hyphen label", "user@-example.com"},
		{"disposable domain", "user@mailinator.com"},
		{"disposable domain 2", "anyone@yopmail.com"},
		{"noreply local part", "noreply@example.com"},
		{"do-not-reply local part", "do-not-reply@example.com"},
		{"test at test", "test@test.com"},
		{"too long", strings.Repeat("a", 250) + "@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ValidateEmail(tt.input); result.IsValid {
				t.Errorf("ValidateEmail(%q) should be rejected", tt.input)
			}
		})
	}
}

func TestValidateEmailDomainLabelRules(t *testing.T) {
	longLabel := strings.Repeat("b", 64)
	if result := ValidateEmail("user@" + longLabel + ".com"); result.IsValid {
		t.Errorf("64-char domain label should be rejected")
	}
	if result := ValidateEmail("user@" + strings.Repeat("b", 63) + ".com"); !result.IsValid {
		t.Errorf("63-char domain label should be accepted: %s", result.Error)
	}
}
