// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package models defines the core data structures shared across Eventide:
// provider-agnostic normalized events, persisted event rows, validated events,
// structured addresses, and linked OAuth accounts.
//
// Types in this package carry no behavior beyond enum parsing and small
// derivation helpers; validation and normalization logic live in the
// validation and normalize packages respectively.
package models
