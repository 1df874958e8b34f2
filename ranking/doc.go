// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ranking holds the pure parts of the pairwise voting engine:
pair sampling, choice evaluation, and leaderboard ordering. Nothing here
performs I/O; every function works on the snapshot it is given.

# Sampling

	pair, err := ranking.NewSampler().Sample(items)

Sample picks two distinct indices directly (no shuffle of the whole
population), so every unordered pair has probability 2/(n(n-1)).
It fails with models.ErrInsufficientPopulation below two distinct items.

# Evaluation

	eval, err := ranking.Evaluate(pair, chosenID)

Score is wins/votes (0 with no votes). A choice is correct when the
chosen score is >= the rival's score; ties, including the 0 vs 0 case,
count as correct. Deltas:

	chosen: votes +1, wins +1 if correct
	other:  votes +1

# Leaderboard

Rank sorts by score desc, votes desc, then id asc, and assigns 1-indexed
ranks.
*/
package ranking
