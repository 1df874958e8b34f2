package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/store"
)

type Store struct {
	mu   sync.RWMutex
	byID map[string]models.Item
}

func New(seed ...models.Item) *Store {
	s := &Store{byID: make(map[string]models.Item, len(seed))}
	for _, item := range seed {
		s.byID[item.ID] = item
	}
	return s
}

// FetchAll returns a copy of every item ordered by id
func (s *Store) FetchAll(ctx context.Context) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch items: %w: %w", models.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ApplyDelta(ctx context.Context, id string, voteDelta, winDelta int64) error {
	if err := store.ValidateDelta(id, voteDelta, winDelta); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply delta to %s: %w: %w", id, models.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrItemNotFound, id)
	}
	item.Votes += voteDelta
	item.Wins += winDelta
	s.byID[id] = item
	return nil
}

// ApplyDeltas applies all deltas under one lock; nothing changes if any id is missing
func (s *Store) ApplyDeltas(ctx context.Context, deltas []models.Delta) error {
	for _, d := range deltas {
		if err := store.ValidateDelta(d.ItemID, d.Votes, d.Wins); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply deltas: %w: %w", models.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range deltas {
		if _, ok := s.byID[d.ItemID]; !ok {
			return fmt.Errorf("%w: %s", models.ErrItemNotFound, d.ItemID)
		}
	}
	for _, d := range deltas {
		item := s.byID[d.ItemID]
		item.Votes += d.Votes
		item.Wins += d.Wins
		s.byID[d.ItemID] = item
	}
	return nil
}

func (s *Store) Seed(ctx context.Context, items []models.Item) error {
	_ = ctx

	for _, item := range items {
		if err := store.ValidateItem(item); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, exists := s.byID[item.ID]; exists {
			continue
		}
		s.byID[item.ID] = item
	}
	return nil
}

// Remove deletes an item. The engine never deletes; this exists so tests
// can make an item vanish between sampling and update.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// Get returns one item by id
func (s *Store) Get(id string) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.byID[id]
	return item, ok
}
