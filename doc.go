// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pickpair API server.

pickpair shows a voter two items side by side. The voter picks the one
they think the crowd prefers; the pick is judged against each item's win
ratio so far, then both items' counters are updated.

# Starting the Server

Configuration comes from CLI flags, environment variables or a .env file:

	DATABASE_URL=pickpair.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -seed items.json

# Configuration

  - DATABASE_TYPE (-t): memory, sqlite (default), postgres or gorm
  - DATABASE_URL (-d): DSN, required unless the type is memory
  - PORT (-p): Server port (default: 3318)
  - STORE_TIMEOUT (-timeout): Bound on each store call (default: 5s)
  - SEED_FILE (-seed): JSON items inserted at startup if absent
  - SESSION_IDLE_TTL (-session-ttl): Idle sessions are dropped after this (default: 30m)
  - POPULATION_LIMIT (-limit): Max items fetched before sampling (default: all)
  - CORS_ORIGINS (-origins): Comma separated origins (default: *)

# Architecture

  - ranking: pair sampling, vote evaluation, leaderboard ordering
  - session: per-voter round state machine and session registry
  - store: item store contract with memory, database/sql and gorm adapters
  - handlers: HTTP request handlers (sessions, items)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain, request and response types
  - db: Schema creation and seed files
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
