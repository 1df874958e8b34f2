// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/store"
)

// Manager keeps one Controller per voter session. All sessions share the
// same store.
type Manager struct {
	store store.ItemStore
	opts  Options

	mu       sync.RWMutex
	sessions map[string]*Controller
}

func NewManager(s store.ItemStore, opts Options) *Manager {
	return &Manager{
		store:    s,
		opts:     opts,
		sessions: make(map[string]*Controller),
	}
}

// Create registers a new session and starts its first round. The session
// is kept even when Start fails, so the caller can retry Start on it.
func (m *Manager) Create(ctx context.Context) (*Controller, error) {
	c := NewController(uuid.NewString(), m.store, m.opts)

	m.mu.Lock()
	m.sessions[c.ID()] = c
	m.mu.Unlock()

	return c, c.Start(ctx)
}

func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	return c, nil
}

func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PruneIdle drops sessions unused for longer than maxIdle and returns how
// many were removed
func (m *Manager) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	// Controllers may hold their own lock across store I/O, so check them
	// without holding the registry lock.
	m.mu.RLock()
	snapshot := make(map[string]*Controller, len(m.sessions))
	for id, c := range m.sessions {
		snapshot[id] = c
	}
	m.mu.RUnlock()

	var stale []string
	for id, c := range snapshot {
		if c.IdleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, id := range stale {
		if m.sessions[id] == snapshot[id] {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunPruner calls PruneIdle every interval until ctx is done
func (m *Manager) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger := m.opts.Logger
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.PruneIdle(maxIdle); n > 0 && logger != nil {
				logger.Info("idle sessions pruned", "count", n)
			}
		}
	}
}
