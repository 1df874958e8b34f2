// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pickpair/cliparse"
	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/store/sqlstore"
)

// SetupTestStore opens a fresh in-memory sqlite item store with the full
// schema. It is closed when the test ends.
func SetupTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	s, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseType:   cliparse.DatabaseSQLite,
		DatabaseURL:    ":memory:",
		StoreTimeout:   2 * time.Second,
		AllowedOrigins: []string{"*"},
		SessionIdleTTL: 30 * time.Minute,
	}
}

// SeedItems inserts items into the store, failing the test on error
func SeedItems(t *testing.T, s *sqlstore.Store, items ...models.Item) {
	t.Helper()

	if err := s.Seed(context.Background(), items); err != nil {
		t.Fatalf("Failed to seed items: %v", err)
	}
}

// Item builds an item with the given counters
func Item(id string, votes, wins int64) models.Item {
	return models.Item{ID: id, Payload: "https://img.example/" + id + ".png", Votes: votes, Wins: wins}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
