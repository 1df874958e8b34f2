// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pickpair/cliparse"
	"github.com/danielhkuo/pickpair/handlers"
	"github.com/danielhkuo/pickpair/middleware"
	"github.com/danielhkuo/pickpair/session"
	"github.com/danielhkuo/pickpair/store"
)

func NewRouter(mgr *session.Manager, items store.ItemStore, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(mgr)
	itemHandler := handlers.NewItemHandler(items, cfg.StoreTimeout)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Leaderboard
	mux.HandleFunc("GET /items", middleware.WithLogging(itemHandler.Leaderboard))

	// Voter sessions
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.DeleteSession))
	mux.HandleFunc("POST /sessions/{id}/start", middleware.WithLogging(sessionHandler.Start))
	mux.HandleFunc("POST /sessions/{id}/choose", middleware.WithLogging(sessionHandler.Choose))
	mux.HandleFunc("POST /sessions/{id}/advance", middleware.WithLogging(sessionHandler.Advance))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pickpair API v1"))
	})

	return mux
}
