// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package providers implements adapters that fetch events from external
// sources and map them to the provider-agnostic NormalizedEvent shape.
//
// Adapters are failure-tolerant by contract: a missing credential, network
// error or non-2xx response yields an empty slice, never an error or panic
// past the adapter boundary. Outbound HTTP goes through a shared client with
// per-provider rate limiting and circuit breaking.
package providers

import (
	"context"
	"fmt"
	"sort"

	"github.com/eventide-app/eventide/internal/models"
)

// FetchParams narrows what a fetch should return. Adapters ignore parameters
// their upstream API cannot express.
type FetchParams struct {
	// City filters events by locality where the API supports it.
	City string

	// Keyword is a free-text search term.
	Keyword string
}

// Adapter fetches raw provider data and maps it to NormalizedEvents.
type Adapter interface {
	// Source identifies which provider this adapter serves.
	Source() models.Source

	// Fetch returns normalized events, or an empty slice on any failure.
	Fetch(ctx context.Context, params FetchParams) []models.NormalizedEvent
}

// validationOnlySources are accepted by schema validation but have no fetch
// adapter: their events enter the system through the validate/ingest API
// rather than a fetch loop.
var validationOnlySources = map[models.Source]bool{
	models.SourceSeatGeek: true,
	models.SourceManual:   true,
}

// fetchableSources are the sources this package ships an adapter
// implementation for. Adding a models.Source constant without extending
// either this set or validationOnlySources fails Registry.Validate at
// startup.
var fetchableSources = map[models.Source]bool{
	models.SourceTicketmaster: true,
	models.SourceEventbrite:   true,
	models.SourceGoogleCal:    true,
}

// Registry maps sources to their registered adapters. Only enabled adapters
// are registered; construction happens in the composition root from config.
type Registry struct {
	adapters map[models.Source]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[models.Source]Adapter)}
}

// Register adds an adapter. Registering a duplicate or a validation-only
// source is a programming error and fails loudly.
func (r *Registry) Register(a Adapter) error {
	src := a.Source()
	if _, dup := r.adapters[src]; dup {
		return fmt.Errorf("adapter for source %q registered twice", src)
	}
	if validationOnlySources[src] {
		return fmt.Errorf("source %q is validation-only and cannot have a fetch adapter", src)
	}
	r.adapters[src] = a
	return nil
}

// Get returns the adapter for a source, if one is registered.
func (r *Registry) Get(src models.Source) (Adapter, bool) {
	a, ok := r.adapters[src]
	return a, ok
}

// Adapters returns the registered adapters in stable source order.
func (r *Registry) Adapters() []Adapter {
	sources := make([]string, 0, len(r.adapters))
	for src := range r.adapters {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)

	out := make([]Adapter, 0, len(sources))
	for _, src := range sources {
		out = append(out, r.adapters[models.Source(src)])
	}
	return out
}

// Validate enforces the source-enum/adapter lockstep at startup: every known
// source must be fetchable or explicitly validation-only, and every
// registered adapter must serve a known fetchable source.
func (r *Registry) Validate() error {
	for _, src := range models.KnownSources() {
		if !fetchableSources[src] && !validationOnlySources[src] {
			return fmt.Errorf("source %q has no adapter and is not marked validation-only", src)
		}
		if fetchableSources[src] && validationOnlySources[src] {
			return fmt.Errorf("source %q is marked both fetchable and validation-only", src)
		}
	}
	for src := range r.adapters {
		if !fetchableSources[src] {
			return fmt.Errorf("registered adapter source %q is not a known fetchable source", src)
		}
	}
	return nil
}
