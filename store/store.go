// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/pickpair/models"
)

// ItemStore is the only persistence surface the voting engine uses.
// Counter changes are additive: the backend performs votes = votes + n
// itself, never an absolute write computed from a client-side read.
type ItemStore interface {
	FetchAll(ctx context.Context) ([]models.Item, error)
	ApplyDelta(ctx context.Context, id string, voteDelta, winDelta int64) error
}

// BatchApplier is implemented by stores that can apply several deltas in
// one transaction. Either every delta is applied or none is.
type BatchApplier interface {
	ApplyDeltas(ctx context.Context, deltas []models.Delta) error
}

// Seeder inserts items that do not exist yet and leaves existing counters alone
type Seeder interface {
	Seed(ctx context.Context, items []models.Item) error
}

// ValidateDelta rejects deltas that could break 0 <= wins <= votes
func ValidateDelta(id string, voteDelta, winDelta int64) error {
	if id == "" {
		return fmt.Errorf("%w: item id required", models.ErrInvalidDelta)
	}
	if voteDelta < 0 || winDelta < 0 {
		return fmt.Errorf("%w: negative delta for %s", models.ErrInvalidDelta, id)
	}
	if winDelta > voteDelta {
		return fmt.Errorf("%w: win delta %d exceeds vote delta %d for %s", models.ErrInvalidDelta, winDelta, voteDelta, id)
	}
	return nil
}

// ValidateItem checks a seed item
func ValidateItem(item models.Item) error {
	if item.ID == "" {
		return fmt.Errorf("%w: item id required", models.ErrInvalidDelta)
	}
	if item.Votes < 0 || item.Wins < 0 || item.Wins > item.Votes {
		return fmt.Errorf("%w: item %s has votes=%d wins=%d", models.ErrInvalidDelta, item.ID, item.Votes, item.Wins)
	}
	return nil
}
