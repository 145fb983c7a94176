// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package main is the entry point for the Eventide server.
//
// Eventide aggregates events from external providers (Ticketmaster,
// Eventbrite, Google Calendar ICS feeds), validates and normalizes them,
// and persists them idempotently keyed by (userId, uid).
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file, env vars)
//  2. Database: embedded DuckDB with the events and accounts schema
//  3. Providers: one adapter per enabled source, behind a registry that is
//     validated against the source enum at startup
//  4. Ingestion: the idempotent upsert service and fetch-and-ingest runner
//  5. Scheduler: optional cron-driven sync passes (SYNC_ENABLED=true)
//  6. HTTP server: REST API plus Prometheus metrics at /metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (CONFIG_PATH or
// /etc/eventide/config.yaml), built-in defaults.
//
// Providers are opt-in:
//   - Ticketmaster: TICKETMASTER_ENABLED=true, TICKETMASTER_API_KEY
//   - Eventbrite:   EVENTBRITE_ENABLED=true, EVENTBRITE_TOKEN (or OAuth
//     client credentials for account-backed token refresh)
//   - Google Calendar: GOOGLECAL_ENABLED=true, GOOGLECAL_FEED_URL
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests, stops
// the scheduler and closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventide-app/eventide/internal/api"
	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/database"
	"github.com/eventide-app/eventide/internal/ingest"
	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/models"
	"github.com/eventide-app/eventide/internal/providers"
	"github.com/eventide-app/eventide/internal/scheduler"
	"github.com/eventide-app/eventide/internal/tokens"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("ticketmaster", cfg.Providers.Ticketmaster.Enabled).
		Bool("eventbrite", cfg.Providers.Eventbrite.Enabled).
		Bool("googlecal", cfg.Providers.GoogleCal.Enabled).
		Bool("sync", cfg.Sync.Enabled).
		Msg("Starting Eventide")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	registry, err := buildRegistry(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build provider registry")
	}

	service := ingest.NewService(db)
	runner := ingest.NewRunner(registry, service)

	sched := scheduler.New(runner, cfg.Sync)
	if err := sched.Start(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to start sync scheduler")
	}

	handler := api.NewHandler(db, service, runner, cfg.API)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown did not complete cleanly")
	}
	sched.Stop()

	logging.Info().Msg("Eventide stopped")
}

// buildRegistry constructs and registers the enabled provider adapters, then
// validates the registry against the source enum.
func buildRegistry(cfg *config.Config, db *database.DB) (*providers.Registry, error) {
	registry := providers.NewRegistry()

	if cfg.Providers.Ticketmaster.Enabled {
		if err := registry.Register(providers.NewTicketmasterAdapter(cfg.Providers.Ticketmaster)); err != nil {
			return nil, err
		}
	}

	if cfg.Providers.Eventbrite.Enabled {
		var source providers.TokenSource
		if cfg.Providers.Eventbrite.Token != "" {
			source = providers.StaticTokenSource(cfg.Providers.Eventbrite.Token)
		} else {
			// Account-backed token refresh: the OAuth link flow stores the
			// single-tenant account under the "default" account id.
			refresher := tokens.NewRefresher(db, tokens.Config{
				TokenEndpoint: cfg.Providers.Eventbrite.TokenEndpoint,
				ClientID:      cfg.Providers.Eventbrite.ClientID,
				ClientSecret:  cfg.Providers.Eventbrite.ClientSecret,
				RetryAttempts: cfg.Sync.RetryAttempts,
				RetryDelay:    cfg.Sync.RetryDelay,
			})
			source = tokens.AccountTokenSource{
				Refresher: refresher,
				Provider:  models.SourceEventbrite,
				AccountID: "default",
			}
		}
		if err := registry.Register(providers.NewEventbriteAdapter(cfg.Providers.Eventbrite, source)); err != nil {
			return nil, err
		}
	}

	if cfg.Providers.GoogleCal.Enabled {
		if err := registry.Register(providers.NewGoogleCalAdapter(cfg.Providers.GoogleCal)); err != nil {
			return nil, err
		}
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}
	return registry, nil
}
