// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package scheduler

import (
	"context"
	"testing"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/ingest"
	"github.com/eventide-app/eventide/internal/models"
	"github.com/eventide-app/eventide/internal/providers"
)

type noopStore struct{}

func (noopStore) GetEventByUserUID(context.Context, string, string) (*models.Event, error) {
	return nil, nil
}
func (noopStore) InsertEvent(context.Context, *models.Event) error { return nil }
func (noopStore) UpdateEvent(context.Context, *models.Event) error { return nil }

func testRunner() *ingest.Runner {
	return ingest.NewRunner(providers.NewRegistry(), ingest.NewService(noopStore{}))
}

func TestStartDisabledIsNoop(t *testing.T) {
	s := New(testRunner(), config.SyncConfig{Enabled: false})
	if err := s.Start(); err != nil {
		t.Errorf("Start with sync disabled: %v", err)
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := New(testRunner(), config.SyncConfig{Enabled: true, Schedule: "not a cron spec"})
	if err := s.Start(); err == nil {
		t.Error("expected error for unparseable schedule")
	}
}

func TestStartStopRoundTrip(t *testing.T) {
	s := New(testRunner(), config.SyncConfig{
		Enabled:  true,
		Schedule: "@every 24h",
		UserIDs:  []string{"user-1"},
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
