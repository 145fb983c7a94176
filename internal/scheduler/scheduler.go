// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package scheduler runs periodic fetch-and-ingest passes on a cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/ingest"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/providers"
)

// runTimeout bounds one full sync pass across all users and providers.
const runTimeout = 10 * time.Minute

// Scheduler triggers periodic ingestion for the configured users.
type Scheduler struct {
	cron   *cron.Cron
	runner *ingest.Runner
	cfg    config.SyncConfig
}

// New creates a scheduler. It does nothing until Start is called.
func New(runner *ingest.Runner, cfg config.SyncConfig) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		cfg:    cfg,
	}
}

// Start registers the sync job and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		logging.Info().Msg("Sync scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.runOnce); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.cfg.Schedule, err)
	}

	s.cron.Start()
	logging.Info().
		Str("schedule", s.cfg.Schedule).
		Int("users", len(s.cfg.UserIDs)).
		Msg("Sync scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logging.Info().Msg("Sync scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	params := providers.FetchParams{
		City:    s.cfg.City,
		Keyword: s.cfg.Keyword,
	}

	for _, userID := range s.cfg.UserIDs {
		summary, err := s.runner.IngestForUser(ctx, userID, params)
		if err != nil {
			logging.Error().Err(err).Str("user_id", userID).Msg("Scheduled ingest failed")
			continue
		}
		logging.Info().
			Str("user_id", userID).
			Int("inserted", summary.Inserted).
			Int("updated", summary.Updated).
			Int("skipped", summary.Skipped).
			Msg("Scheduled ingest completed")
	}
}
