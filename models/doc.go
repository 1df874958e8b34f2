// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types shared by
every other package, plus the sentinel errors callers match with errors.Is.

# Domain Types

  - Item: id, opaque payload, votes and wins counters
  - Pair: the two distinct items of one round
  - Delta: additive change to one item's counters
  - Evaluation: correctness and deltas for one choice
  - Outcome: what a resolved round reports back
  - RankedItem: leaderboard entry

# Response Types

  - SessionView: session_id, state, pair, outcome
  - ItemView: item as shown to a voter (counters only once resolved)
  - LeaderboardResponse: items, total
  - ErrorResponse: error, message

# Constants

Session states:

	StateLoading  = "loading"
	StateReady    = "ready"
	StateResolved = "resolved"

# Errors

	ErrInsufficientPopulation  fewer than two items to compare
	ErrStoreUnavailable        backend failure or timeout, retriable
	ErrItemNotFound            an item vanished between sampling and update
	ErrInvalidChoice           index or id not part of the pair
	ErrInvalidTransition       action not allowed in the current state
	ErrPartialUpdate           one of the two deltas was not applied
	ErrInvalidDelta            delta would break 0 <= wins <= votes
	ErrSessionNotFound         unknown session id
*/
package models
