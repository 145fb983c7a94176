// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultCoordinatePrecision is the number of decimal places coordinates are
// rounded to on output (~0.11m resolution at the equator).
const DefaultCoordinatePrecision = 6

// CoordinateResult is the outcome of validating a latitude/longitude pair.
type CoordinateResult struct {
	IsValid bool `json:"isValid"`

	// Lat and Lng are the rounded output values, populated only when valid.
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ValidateCoordinates validates a coordinate pair with the default output
// precision.
func ValidateCoordinates(lat, lng float64) CoordinateResult {
	return ValidateCoordinatesPrecision(lat, lng, DefaultCoordinatePrecision)
}

// ValidateCoordinatesPrecision validates a coordinate pair, rounding the
// output to the given number of decimal places.
//
// Hard failures: non-finite values, out-of-range values, and the exact (0,0)
// pair, which is a known-invalid sentinel (Null Island) emitted by broken
// geocoders. Realistic-bounds heuristics (near-polar points, excessive
// decimal precision) are advisory warnings only.
func ValidateCoordinatesPrecision(lat, lng float64, precision int) CoordinateResult {
	if precision <= 0 {
		precision = DefaultCoordinatePrecision
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return coordInvalid("coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return coordInvalid(fmt.Sprintf("latitude %g out of range [-90, 90]", lat))
	}
	if lng < -180 || lng > 180 {
		return coordInvalid(fmt.Sprintf("longitude %g out of range [-180, 180]", lng))
	}
	if lat == 0 && lng == 0 {
		return coordInvalid("coordinates (0,0) are a known-invalid ocean sentinel")
	}

	var warnings []string
	if math.Abs(lat) > 85 {
		warnings = append(warnings, "coordinates are in a near-polar region; verify the location")
	}
	if lat == 0 || lng == 0 {
		warnings = append(warnings, "coordinate lies exactly on the equator or prime meridian; verify the location")
	}
	if decimalPlaces(lat) > 8 || decimalPlaces(lng) > 8 {
		warnings = append(warnings, "coordinates carry implausibly high precision")
	}

	return CoordinateResult{
		IsValid:  true,
		Lat:      roundTo(lat, precision),
		Lng:      roundTo(lng, precision),
		Warnings: warnings,
	}
}

func coordInvalid(msg string) CoordinateResult {
	return CoordinateResult{IsValid: false, Error: msg}
}

// decimalPlaces counts the decimal digits in the shortest representation of f.
func decimalPlaces(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// roundTo rounds f to n decimal places.
func roundTo(f float64, n int) float64 {
	pow := math.Pow10(n)
	return math.Round(f*pow) / pow
}
