// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and seed loading.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on sqlite and postgres.

# Tables

  - item: id, payload, votes, wins, created_at

Constraints enforce the counter invariant at the database level:

	votes >= 0
	0 <= wins <= votes

# Seeding

Items are created outside the voting engine. LoadSeedFile reads them from
a JSON file:

	[
	  {"id": "a", "payload": "https://example.com/a.png"},
	  {"id": "b", "payload": "https://example.com/b.png", "votes": 4, "wins": 1}
	]

Stores seed with insert-if-absent, so restarting with the same file keeps
existing counters.
*/
package db
