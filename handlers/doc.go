// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pickpair API.

# Handler Types

Each handler is a struct holding the dependencies it needs:

  - SessionHandler: voter sessions and their rounds (backed by session.Manager)
  - ItemHandler: the item leaderboard (backed by a store.ItemStore)

	sessionHandler := handlers.NewSessionHandler(mgr)
	itemHandler := handlers.NewItemHandler(itemStore, cfg.StoreTimeout)

# Round Lifecycle

A session moves through loading → ready → resolved → ready ...

	POST   /sessions              → CreateSession (samples the first pair)
	GET    /sessions/{id}         → GetSession
	POST   /sessions/{id}/start   → Start (retry while loading)
	POST   /sessions/{id}/choose  → Choose, body {"index": 0|1}
	POST   /sessions/{id}/advance → Advance (next pair)
	DELETE /sessions/{id}         → DeleteSession

Counters and scores of the pair stay hidden until the round is resolved.

# Error Mapping

Engine errors map to statuses with errors.Is:

	ErrInvalidChoice                              → 400
	ErrSessionNotFound                            → 404
	ErrInvalidTransition, ErrItemNotFound,
	ErrInsufficientPopulation                     → 409
	ErrPartialUpdate                              → 500
	ErrStoreUnavailable                           → 503

# Leaderboard

	GET /items → Leaderboard

Items are ranked by win ratio, then vote count, then id (see ranking.Rank).
*/
package handlers
