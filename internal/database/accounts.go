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
	"time"

	"github.com/eventide-app/eventide/internal/models"
)

// GetAccount looks up a linked account by (provider, provider_account_id).
// A missing row is (nil, nil), not an error.
func (db *DB) GetAccount(ctx context.Context, provider models.Source, accountID string) (*models.Account, error) {
	query := `SELECT provider, provider_account_id, user_id, access_token,
		refresh_token, expires_at, updated_at
		FROM accounts WHERE provider = ? AND provider_account_id = ?`

	var a models.Account
	var providerStr string
	var expiresAt sql.NullTime

	err := db.conn.QueryRowContext(ctx, query, string(provider), accountID).Scan(
		&providerStr, &a.ProviderAccountID, &a.UserID,
		&a.AccessToken, &a.RefreshToken, &expiresAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account (%s, %s): %w", provider, accountID, err)
	}

	a.Provider = models.Source(providerStr)
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		a.ExpiresAt = &t
	}
	return &a, nil
}

// UpsertAccount inserts or replaces a linked account row.
func (db *DB) UpsertAccount(ctx context.Context, a *models.Account) error {
	query := `INSERT OR REPLACE INTO accounts
		(provider, provider_account_id, user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		string(a.Provider), a.ProviderAccountID, a.UserID,
		a.AccessToken, a.RefreshToken, nullableTime(a.ExpiresAt),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert account (%s, %s): %w", a.Provider, a.ProviderAccountID, err)
	}
	return nil
}

// UpdateAccountTokens persists refreshed tokens for an existing account.
func (db *DB) UpdateAccountTokens(ctx context.Context, provider models.Source, accountID, accessToken, refreshToken string, expiresAt *time.Time) error {
	query := `UPDATE accounts SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = ?
		WHERE provider = ? AND provider_account_id = ?`

	result, err := db.conn.ExecContext(ctx, query,
		accessToken, refreshToken, nullableTime(expiresAt), time.Now().UTC(),
		string(provider), accountID,
	)
	if err != nil {
		return fmt.Errorf("update account tokens (%s, %s): %w", provider, accountID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update account tokens (%s, %s): no matching row", provider, accountID)
	}
	return nil
}
