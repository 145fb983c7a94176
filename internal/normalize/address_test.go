// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package normalize

import (
	"testing"

	"github.com/eventide-app/eventide/internal/models"
)

func TestNormalizeAddressUSRoundTrip(t *testing.T) {
	addr := NormalizeAddress("123 Main St, Austin, TX 78701", models.SourceManual)

	if addr.Street != "123 Main St" {
		t.Errorf("street = %q", addr.Street)
	}
	if addr.City != "Austin" {
		t.Errorf("city = %q", addr.City)
	}
	if addr.State != "TX" {
		t.Errorf("state = %q", addr.State)
	}
	if addr.PostalCode != "78701" {
		t.Errorf("postalCode = %q", addr.PostalCode)
	}
	if addr.Country != "United States" {
		t.Errorf("country = %q, want default United States", addr.Country)
	}
	if addr.FullAddress != "123 Main St, Austin, TX 78701, United States" {
		t.Errorf("fullAddress = %q", addr.FullAddress)
	}
}

func TestNormalizeAddressPatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.NormalizedAddress
	}{
		{
			name:  "US with ZIP+4 and explicit country",
			input: "500 Congress Ave, Austin, TX 78701-2745, USA",
			want: models.NormalizedAddress{
				Street: "500 Congress Ave", City: "Austin", State: "TX",
				PostalCode: "78701-2745", Country: "USA",
			},
		},
		{
			name:  "US state without ZIP",
			input: "1 Infinite Loop, Cupertino, CA",
			want: models.NormalizedAddress{
				Street: "1 Infinite Loop", City: "Cupertino", State: "CA",
				Country: "United States",
			},
		},
		{
			name:  "UK postcode with country",
			input: "221B Baker Street, London, NW1 6XE, United Kingdom",
			want: models.NormalizedAddress{
				Street: "221B Baker Street", City: "London",
				PostalCode: "NW1 6XE", Country: "United Kingdom",
			},
		},
		{
			name:  "numeric postal code without country",
			input: "Unter den Linden 77, Berlin, 10117",
			want: models.NormalizedAddress{
				Street: "Unter den Linden 77", City: "Berlin", PostalCode: "10117",
			},
		},
		{
			name:  "street city country",
			input: "12 Rue de Rivoli, Paris, France",
			want: models.NormalizedAddress{
				Street: "12 Rue de Rivoli", City: "Paris", Country: "France",
			},
		},
		{
			name:  "street and city only",
			input: "800 W Cesar Chavez St, Austin",
			want: models.NormalizedAddress{
				Street: "800 W Cesar Chavez St", City: "Austin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAddress(tt.input, models.SourceManual)
			if got.Street != tt.want.Street || got.City != tt.want.City ||
				got.State != tt.want.State || got.PostalCode != tt.want.PostalCode ||
				got.Country != tt.want.Country {
				t.Errorf("NormalizeAddress(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.FullAddress == "" {
				t.Errorf("fullAddress should be re-joined for %q", tt.input)
			}
		})
	}
}

func TestNormalizeAddressUnmatchedFallback(t *testing.T) {
	t.Run("short unstructured input stays a street", func(t *testing.T) {
		addr := NormalizeAddress("42 Wallaby Way", models.SourceManual)
		if addr.Street != "42 Wallaby Way" || addr.City != "" {
			t.Errorf("got %+v, want street-only", addr)
		}
	})

	t.Run("locality keyword becomes a city", func(t *testing.T) {
		addr := NormalizeAddress("Salt Lake City", models.SourceManual)
		if addr.City != "Salt Lake City" || addr.Street != "" {
			t.Errorf("got %+v, want city-only", addr)
		}
	})

	t.Run("very long input becomes a city", func(t *testing.T) {
		input := "Somewhere along the northern waterfront esplanade"
		addr := NormalizeAddress(input, models.SourceManual)
		if addr.City != input {
			t.Errorf("got %+v, want long input treated as locality", addr)
		}
	})
}

func TestNormalizeAddressProviderSuffixStripped(t *testing.T) {
	addr := NormalizeAddress("123 Main St, Austin, TX 78701 - Ticketmaster", models.SourceTicketmaster)
	if addr.Street != "123 Main St" || addr.PostalCode != "78701" {
		t.Errorf("provider suffix should be stripped before matching, got %+v", addr)
	}
}

func TestNormalizeAddressBlank(t *testing.T) {
	addr := NormalizeAddress("   ", models.SourceManual)
	if addr.FullAddress != "" || addr.Street != "" || addr.City != "" {
		t.Errorf("blank input should produce an empty address, got %+v", addr)
	}
}

func TestJoinAddressParts(t *testing.T) {
	got := JoinAddressParts("4 Pennsylvania Plaza", "", "New York", "NY", "10001", " ")
	want := "4 Pennsylvania Plaza, New York, NY, 10001"
	if got != want {
		t.Errorf("JoinAddressParts = %q, want %q", got, want)
	}
}
