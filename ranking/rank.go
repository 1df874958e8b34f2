// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"sort"

	"github.com/danielhkuo/pickpair/models"
)

// Rank orders items for the leaderboard
func Rank(items []models.Item) []models.RankedItem {
	ranked := make([]models.RankedItem, len(items))
	for i, item := range items {
		ranked[i] = models.RankedItem{Item: item, Score: Score(item)}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		// 1. Higher win ratio wins
		if a.Score != b.Score {
			return a.Score > b.Score
		}

		// 2. More votes wins (a ratio backed by more rounds)
		if a.Item.Votes != b.Item.Votes {
			return a.Item.Votes > b.Item.Votes
		}

		// 3. Stable tie-breaking by item ID (ascending)
		return a.Item.ID < b.Item.ID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1 // 1-indexed ranking
	}

	return ranked
}
