// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"strings"
	"testing"
)

func TestValidateURLCanonicalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "default https port stripped, trailing slash removed, query sorted",
			input: "https://example.com:443/path/?b=2&a=1",
			want:  "https://example.com/path?a=1&b=2",
		},
		{
			name:  "default http port stripped",
			input: "http://example.com:80/events",
			want:  "http://example.com/events",
		},
		{
			name:  "non-default port kept",
			input: "https://example.com:8443/events",
			want:  "https://example.com:8443/events",
		},
		{
			name:  "host lowercased",
			input: "https://EXAMPLE.com/Events",
			want:  "https://example.com/Events",
		},
		{
			name:  "bare domain gets https prepended",
			input: "example.com/tickets",
			want:  "https://example.com/tickets",
		},
		{
			name:  "fragment preserved",
			input: "https://example.com/page#section",
			want:  "https://example.com/page#section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateURL(tt.input)
			if !result.IsValid {
				t.Fatalf("ValidateURL(%q) invalid: %s", tt.input, result.Error)
			}
			if result.NormalizedURL != tt.want {
				t.Errorf("ValidateURL(%q) = %q, want %q", tt.input, result.NormalizedURL, tt.want)
			}
		})
	}
}

func TestValidateURLBlankIsOptOut(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		result := ValidateURL(input)
		if !result.IsValid {
			t.Errorf("ValidateURL(%q) should be valid-and-empty", input)
		}
		if result.NormalizedURL != "" {
			t.Errorf("ValidateURL(%q) normalized = %q, want empty", input, result.NormalizedURL)
		}
	}
}

func TestValidateURLRejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "data:text/html;base64,PGh0bWw+"},
		{"file scheme", "file:///etc/passwd"},
		{"ftp scheme", "ftp://example.com/file"},
		{"scheme only", "://example.com"},
		{"trailing colon", "https://example.com:"},
		{"trailing dots", "https://example.com.."},
		{"no scheme no dot", "not a url"},
		{"empty host", "https:///path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ValidateURL(tt.input); result.IsValid {
				t.Errorf("ValidateURL(%q) should be rejected", tt.input)
			}
		})
	}
}

func TestValidateURLSuspiciousHosts(t *testing.T) {
	tests := []string{
		"https://localhost",
		"https://127.0.0.1",
		"https://127.1.2.3/path",
		"https://0.0.0.0",
		"https://10.0.0.5",
		"https://192.168.1.1",
		"https://172.16.0.1",
		"https://172.31.255.255",
		"https://printer.local",
		"https://example.onion",
		"https://malware-downloads.example.com",
		"https://phishing.example.org",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			result := ValidateURL(input)
			if result.IsValid {
				t.Fatalf("ValidateURL(%q) should be rejected", input)
			}
			if !strings.Contains(result.Error, "suspicious patterns") {
				t.Errorf("ValidateURL(%q) error = %q, want mention of suspicious patterns", input, result.Error)
			}
		})
	}
}

func TestValidateURLPublicHostsAccepted(t *testing.T) {
	// 172.32.x is outside the RFC1918 172.16/12 block.
	tests := []string{
		"https://172.32.0.1",
		"https://11.0.0.1",
		"https://example.community", // contains neither keyword nor private prefix
	}

	for _, input := range tests {
		if result := ValidateURL(input); !result.IsValid {
			t.Errorf("ValidateURL(%q) rejected: %s", input, result.Error)
		}
	}
}

func TestValidateURLControlCharsStripped(t *testing.T) {
	result := ValidateURL("https://example.com/pa\x00th")
	if !result.IsValid {
		t.Fatalf("unexpected rejection: %s", result.Error)
	}
	if result.NormalizedURL != "https://example.com/path" {
		t.Errorf("normalized = %q, want control chars stripped", result.NormalizedURL)
	}
}
