// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventide-app/eventide/internal/models"
)

// eventColumns is the canonical select list matching scanEvent.
const eventColumns = `id, user_id, uid, source, title, description, venue_name,
	address, url, start_utc, end_utc, last_seen_at, created_at, updated_at`

// EventFilter narrows ListEvents and CountEvents results. Zero values mean
// "no constraint".
type EventFilter struct {
	UserID string
	Source models.Source

	// StartsAfter and StartsBefore bound the event start time.
	StartsAfter  *time.Time
	StartsBefore *time.Time

	Limit  int
	Offset int
}

// buildWhereClause renders the filter as a WHERE fragment with positional
// args. The empty filter yields an empty clause.
func (f *EventFilter) buildWhereClause() (string, []any) {
	var conds []string
	var args []any

	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, string(f.Source))
	}
	if f.StartsAfter != nil {
		conds = append(conds, "start_utc >= ?")
		args = append(args, f.StartsAfter.UTC())
	}
	if f.StartsBefore != nil {
		conds = append(conds, "start_utc < ?")
		args = append(args, f.StartsBefore.UTC())
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetEventByUserUID looks up an event by its natural key. A missing row is
// (nil, nil), not an error.
func (db *DB) GetEventByUserUID(ctx context.Context, userID, uid string) (*models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE user_id = ? AND uid = ?"
	row := db.conn.QueryRowContext(ctx, query, userID, uid)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event (%s, %s): %w", userID, uid, err)
	}
	return event, nil
}

// InsertEvent inserts a new event row. A unique-constraint violation on
// (user_id, uid) is returned as-is so callers can classify it with
// IsUniqueViolation.
func (db *DB) InsertEvent(ctx context.Context, e *models.Event) error {
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		e.ID, e.UserID, e.UID, string(e.Source), e.Title,
		e.Description, e.VenueName, e.Address, e.URL,
		e.StartUTC.UTC(), nullableTime(e.EndUTC),
		e.LastSeenAt.UTC(), e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert event (%s, %s): %w", e.UserID, e.UID, err)
	}
	return nil
}

// UpdateEvent updates the mutable fields of an existing event, keyed by
// (user_id, uid). Identity fields never change after insert.
func (db *DB) UpdateEvent(ctx context.Context, e *models.Event) error {
	query := `UPDATE events SET
		title = ?, description = ?, venue_name = ?, address = ?, url = ?,
		start_utc = ?, end_utc = ?, last_seen_at = ?, updated_at = ?
		WHERE user_id = ? AND uid = ?`

	result, err := db.conn.ExecContext(ctx, query,
		e.Title, e.Description, e.VenueName, e.Address, e.URL,
		e.StartUTC.UTC(), nullableTime(e.EndUTC),
		e.LastSeenAt.UTC(), e.UpdatedAt.UTC(),
		e.UserID, e.UID,
	)
	if err != nil {
		return fmt.Errorf("update event (%s, %s): %w", e.UserID, e.UID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update event (%s, %s): no matching row", e.UserID, e.UID)
	}
	return nil
}

// ListEvents returns events matching the filter, ordered by start time.
func (db *DB) ListEvents(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	where, args := filter.buildWhereClause()
	query := "SELECT " + eventColumns + " FROM events" + where + " ORDER BY start_utc ASC, uid ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}

// CountEvents returns the number of events matching the filter.
func (db *DB) CountEvents(ctx context.Context, filter EventFilter) (int, error) {
	where, args := filter.buildWhereClause()
	query := "SELECT COUNT(*) FROM events" + where

	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanEvent(row scannable) (*models.Event, error) {
	var e models.Event
	var source string
	var endUTC sql.NullTime

	err := row.Scan(
		&e.ID, &e.UserID, &e.UID, &source, &e.Title,
		&e.Description, &e.VenueName, &e.Address, &e.URL,
		&e.StartUTC, &endUTC, &e.LastSeenAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Source = models.Source(source)
	if endUTC.Valid {
		t := endUTC.Time.UTC()
		e.EndUTC = &t
	}
	e.StartUTC = e.StartUTC.UTC()
	e.LastSeenAt = e.LastSeenAt.UTC()
	return &e, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
