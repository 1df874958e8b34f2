// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/danielhkuo/pickpair/models"
)

// Sampler picks a uniformly random pair of distinct items.
// A nil Rand uses the global math/rand/v2 source. Safe for concurrent use.
type Sampler struct {
	mu   sync.Mutex
	Rand *rand.Rand
}

// NewSampler returns a Sampler backed by the global random source
func NewSampler() *Sampler {
	return &Sampler{}
}

// NewSeededSampler returns a deterministic Sampler (tests, replays)
func NewSeededSampler(seed1, seed2 uint64) *Sampler {
	return &Sampler{Rand: rand.New(rand.NewPCG(seed1, seed2))}
}

// Sample draws two distinct items from population.
// Items sharing an id are counted once, so the pair always has distinct ids.
// Every unordered pair is equally likely.
func (s *Sampler) Sample(population []models.Item) (models.Pair, error) {
	candidates := distinctByID(population)
	n := len(candidates)
	if n < 2 {
		return models.Pair{}, fmt.Errorf("%w: have %d, need 2", models.ErrInsufficientPopulation, n)
	}

	// Two distinct indices: draw i from n, j from the remaining n-1 and skip over i.
	i := s.intN(n)
	j := s.intN(n - 1)
	if j >= i {
		j++
	}

	return models.Pair{candidates[i], candidates[j]}, nil
}

func (s *Sampler) intN(n int) int {
	if s == nil || s.Rand == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Rand.IntN(n)
}

// distinctByID keeps the first occurrence of every id
func distinctByID(items []models.Item) []models.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
