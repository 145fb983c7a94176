// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package database provides the DuckDB-backed persistence layer.
//
// The DB handle is dependency-injected into every consumer; there is no
// package-level singleton. Uniqueness of (user_id, uid) for events and
// (provider, provider_account_id) for accounts is enforced here, at the
// storage layer, not by callers.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/eventide-app/eventide/internal/config"
	"github.com/eventide-app/eventide/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens (or creates) the DuckDB database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists so a fresh deployment does not fail
	// with "No such file or directory". 0750 per gosec G301.
	if dbDir := filepath.Dir(cfg.Path); dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
		}
	}

	// Disable auto-install/auto-load of extensions to prevent hangs in
	// restricted network environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	db.configureConnectionPool()

	if err := db.initSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Database opened")
	return db, nil
}

// configureConnectionPool applies pool limits suited to an embedded engine.
// DuckDB multiplexes one storage engine; a small pool avoids writer
// contention without starving read endpoints.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(4)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
}

// initSchema creates tables and indexes if they do not exist.
func (db *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			uid VARCHAR NOT NULL,
			source VARCHAR NOT NULL,
			title VARCHAR NOT NULL,
			description VARCHAR,
			venue_name VARCHAR,
			address VARCHAR,
			url VARCHAR,
			start_utc TIMESTAMP NOT NULL,
			end_utc TIMESTAMP,
			last_seen_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, uid)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start_utc ON events (start_utc)`,
		`CREATE INDEX IF NOT EXISTS idx_events_source ON events (source)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			provider VARCHAR NOT NULL,
			provider_account_id VARCHAR NOT NULL,
			user_id VARCHAR NOT NULL,
			access_token VARCHAR,
			refresh_token VARCHAR,
			expires_at TIMESTAMP,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (provider, provider_account_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database connection")
	}
}

// IsUniqueViolation reports whether err is a storage-layer unique or primary
// key constraint failure. DuckDB surfaces these as text errors rather than
// typed driver errors.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint error")
}
