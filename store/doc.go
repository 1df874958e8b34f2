// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store defines the item store contract and its adapters.

# Contract

	FetchAll(ctx) ([]models.Item, error)
	ApplyDelta(ctx, id, voteDelta, winDelta) error

ApplyDelta is additive. Calling it twice with the same delta moves the
counters by twice the delta. Errors:

  - models.ErrItemNotFound: no row with that id
  - models.ErrStoreUnavailable: transport/backend failure (wrapped with the cause)
  - models.ErrInvalidDelta: negative delta or wins > votes

Optional capabilities:

  - BatchApplier: ApplyDeltas in one transaction (all or nothing)
  - Seeder: insert-if-absent seeding

# Adapters

  - store/memory: mutex-guarded map, for tests and the memory backend
  - store/sqlstore: database/sql over sqlite (modernc.org/sqlite) or postgres (lib/pq)
  - store/gormstore: gorm over postgres (pgx)
*/
package store
