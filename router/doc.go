// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pickpair API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(mgr, itemStore, cfg)

# Endpoints

Health:

	GET /health

Leaderboard:

	GET /items - Every item ranked by win ratio

Voter sessions:

	POST   /sessions              - Create session, sample first pair
	GET    /sessions/{id}         - Current state, pair and outcome
	DELETE /sessions/{id}         - Drop session
	POST   /sessions/{id}/start   - Retry first sample
	POST   /sessions/{id}/choose  - Pick pair[index]
	POST   /sessions/{id}/advance - Next pair

All routes except /health and / are wrapped with middleware.WithLogging.
CORS is applied around the whole mux in main.
*/
package router
