// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package tokens

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventide-app/eventide/internal/models"
)

type fakeAccountStore struct {
	account *models.Account

	savedAccess  string
	savedRefresh string
	savedExpiry  *time.Time
	saves        int
}

func (s *fakeAccountStore) GetAccount(context.Context, models.Source, string) (*models.Account, error) {
	return s.account, nil
}

func (s *fakeAccountStore) UpdateAccountTokens(_ context.Context, _ models.Source, _ string, accessToken, refreshToken string, expiresAt *time.Time) error {
	s.savedAccess = accessToken
	s.savedRefresh = refreshToken
	s.savedExpiry = expiresAt
	s.saves++
	return nil
}

func expiredAccount() *models.Account {
	past := time.Now().Add(-time.Hour)
	return &models.Account{
		Provider:          models.SourceEventbrite,
		ProviderAccountID: "default",
		AccessToken:       "stale-token",
		RefreshToken:      "refresh-abc",
		ExpiresAt:         &past,
	}
}

func TestEnsureFreshReturnsUnexpiredTokenWithoutRefresh(t *testing.T) {
	future := time.Now().Add(2 * time.Hour)
	store := &fakeAccountStore{account: &models.Account{
		Provider:     models.SourceEventbrite,
		AccessToken:  "still-good",
		RefreshToken: "refresh-abc",
		ExpiresAt:    &future,
	}}

	r := NewRefresher(store, Config{TokenEndpoint: "http://127.0.0.1:0"})
	token, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default")
	if err != nil {
		t.Fatalf("EnsureFresh: %v", err)
	}
	if token != "still-good" {
		t.Errorf("token = %q, want stored token returned as-is", token)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 (no refresh should happen)", store.saves)
	}
}

func TestEnsureFreshRefreshesAndPersists(t *testing.T) {
	var gotGrant, gotRefresh string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotGrant = r.PostFormValue("grant_type")
		gotRefresh = r.PostFormValue("refresh_token")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "fresh-token", "refresh_token": "refresh-rotated", "expires_in": 3600}`)
	}))
	defer server.Close()

	store := &fakeAccountStore{account: expiredAccount()}
	r := NewRefresher(store, Config{TokenEndpoint: server.URL})

	token, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default")
	if err != nil {
		t.Fatalf("EnsureFresh: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("token = %q", token)
	}
	if gotGrant != "refresh_token" || gotRefresh != "refresh-abc" {
		t.Errorf("grant = (%q, %q), want refresh_token grant with stored token", gotGrant, gotRefresh)
	}
	if store.savedAccess != "fresh-token" || store.savedRefresh != "refresh-rotated" {
		t.Errorf("persisted = (%q, %q), want rotated tokens stored", store.savedAccess, store.savedRefresh)
	}
	if store.savedExpiry == nil || time.Until(*store.savedExpiry) < 55*time.Minute {
		t.Errorf("expiry = %v, want roughly an hour out", store.savedExpiry)
	}
}

func TestEnsureFreshKeepsRefreshTokenWhenNotRotated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"access_token": "fresh-token", "expires_in": 3600}`)
	}))
	defer server.Close()

	store := &fakeAccountStore{account: expiredAccount()}
	r := NewRefresher(store, Config{TokenEndpoint: server.URL})

	if _, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default"); err != nil {
		t.Fatalf("EnsureFresh: %v", err)
	}
	if store.savedRefresh != "refresh-abc" {
		t.Errorf("persisted refresh = %q, want original kept", store.savedRefresh)
	}
}

func TestEnsureFreshRetriesBoundedly(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	store := &fakeAccountStore{account: expiredAccount()}
	r := NewRefresher(store, Config{
		TokenEndpoint: server.URL,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})

	if _, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default"); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want exactly the configured attempts", calls)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0 on failure", store.saves)
	}
}

func TestEnsureFreshRequiresLinkedAccount(t *testing.T) {
	r := NewRefresher(&fakeAccountStore{account: nil}, Config{TokenEndpoint: "http://127.0.0.1:0"})
	if _, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default"); err == nil {
		t.Error("expected error for missing account")
	}
}

func TestEnsureFreshRequiresRefreshToken(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	store := &fakeAccountStore{account: &models.Account{
		Provider:    models.SourceEventbrite,
		AccessToken: "stale",
		ExpiresAt:   &past,
	}}
	r := NewRefresher(store, Config{TokenEndpoint: "http://127.0.0.1:0"})
	if _, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default"); err == nil {
		t.Error("expected error when no refresh token is stored")
	}
}

func TestEnsureFreshRejectsResponseWithoutAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"token_type": "bearer"}`)
	}))
	defer server.Close()

	store := &fakeAccountStore{account: expiredAccount()}
	r := NewRefresher(store, Config{TokenEndpoint: server.URL, RetryAttempts: 1, RetryDelay: time.Millisecond})
	if _, err := r.EnsureFresh(context.Background(), models.SourceEventbrite, "default"); err == nil {
		t.Error("expected error for response missing access_token")
	}
}
