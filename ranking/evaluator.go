// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"fmt"

	"github.com/danielhkuo/pickpair/models"
)

// Score is the win ratio of an item, 0 when it has never been voted on
func Score(item models.Item) float64 {
	if item.Votes <= 0 {
		return 0.0
	}
	return float64(item.Wins) / float64(item.Votes)
}

// Evaluate judges a choice against the pair snapshot the voter saw.
//
// A choice is correct when the chosen item's score is at least the rival's.
// Ties count as correct, so an item with no history (score 0) is a correct
// pick against any other unvoted item.
//
// Both items get one vote. The chosen item gets a win only when correct.
func Evaluate(pair models.Pair, chosenID string) (models.Evaluation, error) {
	var chosen, other models.Item
	switch chosenID {
	case pair[0].ID:
		chosen, other = pair[0], pair[1]
	case pair[1].ID:
		chosen, other = pair[1], pair[0]
	default:
		return models.Evaluation{}, fmt.Errorf("%w: %q is not in the pair", models.ErrInvalidChoice, chosenID)
	}

	chosenScore := Score(chosen)
	otherScore := Score(other)
	correct := chosenScore >= otherScore

	eval := models.Evaluation{
		Correct:     correct,
		ChosenScore: chosenScore,
		OtherScore:  otherScore,
		Chosen:      models.Delta{ItemID: chosen.ID, Votes: 1},
		Other:       models.Delta{ItemID: other.ID, Votes: 1},
	}
	if correct {
		eval.Chosen.Wins = 1
	}

	return eval, nil
}

// Apply returns item with delta added to its counters
func Apply(item models.Item, delta models.Delta) models.Item {
	item.Votes += delta.Votes
	item.Wins += delta.Wins
	return item
}
