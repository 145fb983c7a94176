// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package tokens refreshes OAuth access tokens for linked provider accounts.
package tokens

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/eventide-app/eventide/internal/logging"
	"github.com/eventide-app/eventide/internal/models"
)

// tokenLeeway treats tokens expiring within this window as already expired,
// so a token never dies mid-fetch.
const tokenLeeway = 5 * time.Minute

// AccountStore is the persistence surface for linked accounts.
// GetAccount returns (nil, nil) when no account exists.
type AccountStore interface {
	GetAccount(ctx context.Context, provider models.Source, accountID string) (*models.Account, error)
	UpdateAccountTokens(ctx context.Context, provider models.Source, accountID, accessToken, refreshToken string, expiresAt *time.Time) error
}

// Config holds the OAuth client settings for one provider.
type Config struct {
	TokenEndpoint string
	ClientID      string
	ClientSecret  string

	// RetryAttempts bounds refresh retries; RetryDelay is the base backoff.
	RetryAttempts int
	RetryDelay    time.Duration
}

// Refresher ensures a usable access token for a linked account, refreshing
// through the provider's OAuth endpoint when the stored token has expired.
type Refresher struct {
	store  AccountStore
	cfg    Config
	client *http.Client
}

// NewRefresher creates a token refresher.
func NewRefresher(store AccountStore, cfg Config) *Refresher {
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Refresher{
		store:  store,
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// EnsureFresh returns a valid access token for the account, refreshing and
// persisting new tokens when the stored one has expired.
func (r *Refresher) EnsureFresh(ctx context.Context, provider models.Source, accountID string) (string, error) {
	account, err := r.store.GetAccount(ctx, provider, accountID)
	if err != nil {
		return "", fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return "", fmt.Errorf("no linked account for (%s, %s)", provider, accountID)
	}

	if !account.TokenExpired(tokenLeeway) {
		return account.AccessToken, nil
	}
	if account.RefreshToken == "" {
		return "", fmt.Errorf("token expired and no refresh token stored for (%s, %s)", provider, accountID)
	}

	refreshed, err := r.refreshWithRetry(ctx, account.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token for (%s, %s): %w", provider, accountID, err)
	}

	// Some providers rotate the refresh token; keep the old one otherwise.
	newRefresh := refreshed.RefreshToken
	if newRefresh == "" {
		newRefresh = account.RefreshToken
	}

	var expiresAt *time.Time
	if refreshed.ExpiresIn > 0 {
		t := time.Now().UTC().Add(time.Duration(refreshed.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	if err := r.store.UpdateAccountTokens(ctx, provider, accountID, refreshed.AccessToken, newRefresh, expiresAt); err != nil {
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}

	logging.Info().Str("provider", string(provider)).Str("account_id", accountID).
		Msg("Access token refreshed")
	return refreshed.AccessToken, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// refreshWithRetry posts the refresh grant with bounded linear backoff.
// Attempts are capped; this never loops until a token appears.
func (r *Refresher) refreshWithRetry(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * r.cfg.RetryDelay
			logging.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).
				Msg("Token refresh retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := r.refreshOnce(ctx, refreshToken)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all %d refresh attempts failed: %w", r.cfg.RetryAttempts, lastErr)
}

func (r *Refresher) refreshOnce(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", r.cfg.ClientID)
	form.Set("client_secret", r.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &tr, nil
}

// AccountTokenSource binds a Refresher to one (provider, account) pair so it
// satisfies the adapter-facing token interface.
type AccountTokenSource struct {
	Refresher *Refresher
	Provider  models.Source
	AccountID string
}

// Token returns a fresh access token for the bound account.
func (s AccountTokenSource) Token(ctx context.Context) (string, error) {
	return s.Refresher.EnsureFresh(ctx, s.Provider, s.AccountID)
}
