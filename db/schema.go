// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are valid for both sqlite and postgres.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Items
	`CREATE TABLE IF NOT EXISTS item (
    id TEXT PRIMARY KEY,
    payload TEXT NOT NULL DEFAULT '',
    votes BIGINT NOT NULL DEFAULT 0,
    wins BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT item_votes_nonnegative CHECK (votes >= 0),
    CONSTRAINT item_wins_bounded CHECK (wins >= 0 AND wins <= votes)
)`,
	`CREATE INDEX IF NOT EXISTS idx_item_votes ON item(votes)`,
}
