// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/ranking"
	"github.com/danielhkuo/pickpair/session"
	"github.com/danielhkuo/pickpair/store/sqlstore"
	"github.com/danielhkuo/pickpair/testutil"
)

func setupSessionHandler(t *testing.T, items ...models.Item) (*SessionHandler, *sqlstore.Store) {
	t.Helper()

	s := testutil.SetupTestStore(t)
	if len(items) > 0 {
		testutil.SeedItems(t, s, items...)
	}

	mgr := session.NewManager(s, session.Options{
		StoreTimeout: 2 * time.Second,
		Sampler:      ranking.NewSeededSampler(7, 11),
	})
	return NewSessionHandler(mgr), s
}

// createSession runs POST /sessions and returns the id from the Location header
func createSession(t *testing.T, h *SessionHandler) (string, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	h.CreateSession(w, testutil.MakeRequest("POST", "/sessions", nil, nil))

	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/sessions/") {
		t.Fatalf("Expected Location /sessions/{id}, got '%s'", loc)
	}
	return strings.TrimPrefix(loc, "/sessions/"), w
}

func sessionRequest(method, id, action string, body any) *http.Request {
	path := "/sessions/" + id
	if action != "" {
		path += "/" + action
	}
	req := testutil.MakeRequest(method, path, body, nil)
	req.SetPathValue("id", id)
	return req
}

func itemCounters(t *testing.T, s *sqlstore.Store) map[string]models.Item {
	t.Helper()

	items, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	out := make(map[string]models.Item, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}

func TestCreateSession(t *testing.T) {
	h, _ := setupSessionHandler(t, testutil.Item("a", 10, 7), testutil.Item("b", 10, 3))

	id, w := createSession(t, h)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var view models.SessionView
	testutil.AssertJSON(t, w, &view)

	if view.SessionID != id {
		t.Errorf("Expected session_id %s, got %s", id, view.SessionID)
	}
	if view.State != models.StateReady {
		t.Errorf("Expected state ready, got %s", view.State)
	}
	if len(view.Pair) != 2 {
		t.Fatalf("Expected 2 items in pair, got %d", len(view.Pair))
	}
	if view.Pair[0].ID == view.Pair[1].ID {
		t.Error("Expected distinct items in pair")
	}
	for _, item := range view.Pair {
		if item.Votes != nil || item.Wins != nil || item.Score != nil {
			t.Errorf("Expected counters hidden before choosing, got %+v", item)
		}
		if item.Payload == "" {
			t.Error("Expected payload to be shown")
		}
	}
	if view.Outcome != nil {
		t.Error("Expected no outcome before choosing")
	}
}

func TestCreateSessionInsufficientPopulation(t *testing.T) {
	h, s := setupSessionHandler(t, testutil.Item("only", 0, 0))

	id, w := createSession(t, h)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// The session survives in loading and can be started once items exist
	w = httptest.NewRecorder()
	h.GetSession(w, sessionRequest("GET", id, "", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.SessionView
	testutil.AssertJSON(t, w, &view)
	if view.State != models.StateLoading {
		t.Errorf("Expected state loading, got %s", view.State)
	}
	if len(view.Pair) != 0 {
		t.Errorf("Expected no pair while loading, got %d items", len(view.Pair))
	}

	testutil.SeedItems(t, s, testutil.Item("second", 0, 0))

	w = httptest.NewRecorder()
	h.Start(w, sessionRequest("POST", id, "start", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertJSON(t, w, &view)
	if view.State != models.StateReady {
		t.Errorf("Expected state ready after start, got %s", view.State)
	}
}

func TestChooseAndAdvance(t *testing.T) {
	h, s := setupSessionHandler(t, testutil.Item("a", 10, 7), testutil.Item("b", 10, 3))

	id, w := createSession(t, h)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.SessionView
	testutil.AssertJSON(t, w, &created)
	chosenID := created.Pair[0].ID
	otherID := created.Pair[1].ID

	w = httptest.NewRecorder()
	h.Choose(w, sessionRequest("POST", id, "choose", map[string]int{"index": 0}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resolved models.SessionView
	testutil.AssertJSON(t, w, &resolved)

	if resolved.State != models.StateResolved {
		t.Fatalf("Expected state resolved, got %s", resolved.State)
	}
	if resolved.Outcome == nil {
		t.Fatal("Expected an outcome after choosing")
	}
	wantCorrect := chosenID == "a"
	if resolved.Outcome.Correct != wantCorrect {
		t.Errorf("Expected correct=%v choosing %s, got %v", wantCorrect, chosenID, resolved.Outcome.Correct)
	}
	for _, item := range resolved.Pair {
		if item.Votes == nil || item.Wins == nil || item.Score == nil {
			t.Errorf("Expected counters revealed after choosing, got %+v", item)
		}
	}

	after := itemCounters(t, s)
	if after[chosenID].Votes != 11 || after[otherID].Votes != 11 {
		t.Errorf("Expected both items at 11 votes, got %d and %d", after[chosenID].Votes, after[otherID].Votes)
	}
	wantWins := map[string]int64{"a": 7, "b": 3}
	if wantCorrect {
		wantWins[chosenID]++
	}
	for id, wins := range wantWins {
		if after[id].Wins != wins {
			t.Errorf("Expected %s wins %d, got %d", id, wins, after[id].Wins)
		}
	}

	w = httptest.NewRecorder()
	h.Advance(w, sessionRequest("POST", id, "advance", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var next models.SessionView
	testutil.AssertJSON(t, w, &next)
	if next.State != models.StateReady {
		t.Errorf("Expected state ready after advance, got %s", next.State)
	}
	if next.Outcome != nil {
		t.Error("Expected outcome cleared after advance")
	}
	if len(next.Pair) != 2 {
		t.Errorf("Expected a fresh pair from the two-item population, got %d items", len(next.Pair))
	}
}

func TestChooseValidation(t *testing.T) {
	h, _ := setupSessionHandler(t, testutil.Item("a", 1, 1), testutil.Item("b", 1, 0))
	id, _ := createSession(t, h)

	tests := []struct {
		name           string
		sessionID      string
		body           string
		expectedStatus int
	}{
		{"invalid JSON", id, `{not json`, http.StatusBadRequest},
		{"missing index", id, `{}`, http.StatusBadRequest},
		{"index out of range", id, `{"index":2}`, http.StatusBadRequest},
		{"negative index", id, `{"index":-1}`, http.StatusBadRequest},
		{"unknown session", "does-not-exist", `{"index":0}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/sessions/"+tt.sessionID+"/choose", strings.NewReader(tt.body))
			req.SetPathValue("id", tt.sessionID)
			w := httptest.NewRecorder()

			h.Choose(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// None of the rejected requests moved the round
	w := httptest.NewRecorder()
	h.GetSession(w, sessionRequest("GET", id, "", nil))
	var view models.SessionView
	testutil.AssertJSON(t, w, &view)
	if view.State != models.StateReady {
		t.Errorf("Expected state ready after rejected choices, got %s", view.State)
	}
}

func TestInvalidTransitions(t *testing.T) {
	h, _ := setupSessionHandler(t, testutil.Item("a", 0, 0), testutil.Item("b", 0, 0))
	id, _ := createSession(t, h)

	// advance while ready
	w := httptest.NewRecorder()
	h.Advance(w, sessionRequest("POST", id, "advance", nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// start while ready
	w = httptest.NewRecorder()
	h.Start(w, sessionRequest("POST", id, "start", nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = httptest.NewRecorder()
	h.Choose(w, sessionRequest("POST", id, "choose", map[string]int{"index": 1}))
	testutil.AssertStatus(t, w, http.StatusOK)

	// choose twice
	w = httptest.NewRecorder()
	h.Choose(w, sessionRequest("POST", id, "choose", map[string]int{"index": 1}))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestDeleteSession(t *testing.T) {
	h, _ := setupSessionHandler(t, testutil.Item("a", 0, 0), testutil.Item("b", 0, 0))
	id, _ := createSession(t, h)

	w := httptest.NewRecorder()
	h.DeleteSession(w, sessionRequest("DELETE", id, "", nil))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	h.GetSession(w, sessionRequest("GET", id, "", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	h.DeleteSession(w, sessionRequest("DELETE", id, "", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestChooseStoreUnavailable(t *testing.T) {
	h, s := setupSessionHandler(t, testutil.Item("a", 3, 1), testutil.Item("b", 3, 2))
	id, _ := createSession(t, h)

	s.Close()

	w := httptest.NewRecorder()
	h.Choose(w, sessionRequest("POST", id, "choose", map[string]int{"index": 0}))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	w = httptest.NewRecorder()
	h.GetSession(w, sessionRequest("GET", id, "", nil))
	var view models.SessionView
	testutil.AssertJSON(t, w, &view)
	if view.State != models.StateReady {
		t.Errorf("Expected round kept in ready for retry, got %s", view.State)
	}
}

// TestConcurrentSessions runs several voters against the same items and
// checks no vote is lost
func TestConcurrentSessions(t *testing.T) {
	h, s := setupSessionHandler(t,
		testutil.Item("a", 0, 0), testutil.Item("b", 0, 0),
		testutil.Item("c", 0, 0), testutil.Item("d", 0, 0),
	)

	const voters, rounds = 8, 5
	var wg sync.WaitGroup
	errs := make(chan error, voters)

	for v := 0; v < voters; v++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			h.CreateSession(w, testutil.MakeRequest("POST", "/sessions", nil, nil))
			if w.Code != http.StatusCreated {
				errs <- fmt.Errorf("create: status %d", w.Code)
				return
			}
			id := strings.TrimPrefix(w.Header().Get("Location"), "/sessions/")

			for r := 0; r < rounds; r++ {
				w = httptest.NewRecorder()
				h.Choose(w, sessionRequest("POST", id, "choose", map[string]int{"index": r % 2}))
				if w.Code != http.StatusOK {
					errs <- fmt.Errorf("choose: status %d: %s", w.Code, w.Body.String())
					return
				}

				w = httptest.NewRecorder()
				h.Advance(w, sessionRequest("POST", id, "advance", nil))
				if w.Code != http.StatusOK {
					errs <- fmt.Errorf("advance: status %d: %s", w.Code, w.Body.String())
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	var total int64
	for _, item := range itemCounters(t, s) {
		total += item.Votes
		if item.Wins > item.Votes {
			t.Errorf("Item %s has wins %d > votes %d", item.ID, item.Wins, item.Votes)
		}
	}
	if want := int64(voters * rounds * 2); total != want {
		t.Errorf("Expected %d total votes, got %d", want, total)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"insufficient population", models.ErrInsufficientPopulation, http.StatusConflict},
		{"store unavailable", fmt.Errorf("fetch items: %w: %w", models.ErrStoreUnavailable, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"item not found", fmt.Errorf("apply delta: %w: x", models.ErrItemNotFound), http.StatusConflict},
		{"item not found joined with failed resample", errors.Join(models.ErrItemNotFound, models.ErrStoreUnavailable), http.StatusConflict},
		{"invalid choice", models.ErrInvalidChoice, http.StatusBadRequest},
		{"invalid transition", models.ErrInvalidTransition, http.StatusConflict},
		{"partial update wrapping store error", fmt.Errorf("%w: %w", models.ErrPartialUpdate, models.ErrStoreUnavailable), http.StatusInternalServerError},
		{"session not found", models.ErrSessionNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, got)
			}
		})
	}
}
