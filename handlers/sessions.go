// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pickpair/middleware"
	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/session"
)

type SessionHandler struct {
	mgr *session.Manager
}

func NewSessionHandler(mgr *session.Manager) *SessionHandler {
	return &SessionHandler{mgr: mgr}
}

// CreateSession handles POST /sessions
// The session is registered even when its first round cannot start; the
// Location header points at it so the client can retry /start.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	c, err := h.mgr.Create(r.Context())
	w.Header().Set("Location", "/sessions/"+c.ID())
	if err != nil {
		slog.Warn("session created without a pair", "session_id", c.ID(), "error", err)
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, c.View())
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c.View())
}

// Start handles POST /sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := c.Start(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c.View())
}

// Choose handles POST /sessions/{id}/choose
func (h *SessionHandler) Choose(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.ChooseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Index == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index is required")
		return
	}

	if err := c.Choose(r.Context(), *req.Index); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c.View())
}

// Advance handles POST /sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := c.Advance(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c.View())
}

// DeleteSession handles DELETE /sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	if err := h.mgr.Remove(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return nil, false
	}

	c, err := h.mgr.Get(id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return c, true
}

// statusFor maps an engine error to its HTTP status. Order matters: a
// partial update wraps its cause, and a vanished item may be joined with
// the error of the resample that followed it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrPartialUpdate):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrItemNotFound),
		errors.Is(err, models.ErrInsufficientPopulation):
		return http.StatusConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	middleware.ErrorResponse(w, status, err.Error())
}
