// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package validation is the rule-based validation engine for untrusted event
// input. It runs in two tiers:
//
//   - Schema validation: per-field type, range and length checks driven by
//     go-playground/validator v10 struct tags plus typed sub-validators for
//     URLs, emails, coordinates and timezones. Violations are collected, not
//     short-circuited, so a caller sees every problem in one pass.
//   - Business-logic validation: cross-field semantic checks (duration sanity,
//     temporal bounds, paired coordinates, suspicious content) applied only
//     after schema validation passes. Violations split into hard errors and
//     advisory warnings.
//
// The single entry point external callers should use is ValidateCompleteEvent.
// Each sub-validator is also independently callable and testable.
package validation
