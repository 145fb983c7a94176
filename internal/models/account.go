// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package models

import "time"

// Account stores OAuth tokens for a linked provider account.
// (Provider, ProviderAccountID) is unique; the token refresher treats this as
// an external upsert-capable store.
type Account struct {
	Provider          Source     `json:"provider"`
	ProviderAccountID string     `json:"providerAccountId"`
	UserID            string     `json:"userId"`
	AccessToken       string     `json:"-"`
	RefreshToken      string     `json:"-"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TokenExpired reports whether the access token is missing or expires within
// the given leeway.
func (a *Account) TokenExpired(leeway time.Duration) bool {
	if a.AccessToken == "" {
		return true
	}
	if a.ExpiresAt == nil {
		return false
	}
	return time.Now().Add(leeway).After(*a.ExpiresAt)
}
