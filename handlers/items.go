// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/pickpair/middleware"
	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/ranking"
	"github.com/danielhkuo/pickpair/store"
)

type ItemHandler struct {
	store   store.ItemStore
	timeout time.Duration
}

func NewItemHandler(s store.ItemStore, timeout time.Duration) *ItemHandler {
	return &ItemHandler{store: s, timeout: timeout}
}

// Leaderboard handles GET /items
// Returns every item with its counters, ranked by win ratio
func (h *ItemHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	items, err := h.store.FetchAll(ctx)
	if err != nil {
		slog.Error("failed to fetch items", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Item store unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LeaderboardResponse{
		Items: ranking.Rank(items),
		Total: len(items),
	})
}
