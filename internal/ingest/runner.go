// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package ingest

import (
	"context"

	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/providers"
)

// Runner drives a full fetch-and-ingest pass across every registered
// provider adapter for one user.
type Runner struct {
	registry *providers.Registry
	service  *Service
}

// NewRunner creates a fetch-and-ingest runner.
func NewRunner(registry *providers.Registry, service *Service) *Runner {
	return &Runner{registry: registry, service: service}
}

// IngestForUser fetches from every registered adapter and upserts the
// results. Adapter failures already degrade to empty slices, so a dead
// provider contributes nothing rather than aborting the pass. The returned
// Summary aggregates all providers.
func (r *Runner) IngestForUser(ctx context.Context, userID string, params providers.FetchParams) (Summary, error) {
	var total Summary

	for _, adapter := range r.registry.Adapters() {
		events := adapter.Fetch(ctx, params)
		if len(events) == 0 {
			continue
		}

		summary, err := r.service.Upsert(ctx, userID, events)
		if err != nil {
			logging.Error().Err(err).
				Str("user_id", userID).
				Str("source", string(adapter.Source())).
				Msg("Ingestion failed for provider batch")
			continue
		}

		total.Inserted += summary.Inserted
		total.Updated += summary.Updated
		total.Skipped += summary.Skipped
	}

	return total, nil
}
