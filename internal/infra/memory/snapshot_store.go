// Package memory holds an in-process snapshot adapter, used as the
// no-durability fallback and in tests.
package memory

import (
	"context"
	"sync"

	"quizdeck/internal/domain"
)

// SnapshotStore is an in-memory implementation of app.SnapshotStore.
// It survives nothing, but round-trips through JSON-free copies so it
// behaves like the durable adapters.
type SnapshotStore struct {
	mu    sync.RWMutex
	state domain.AppState
	saved bool
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Load(_ context.Context) (domain.AppState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return domain.AppState{}, false, nil
	}
	return s.state, true, nil
}

func (s *SnapshotStore) Save(_ context.Context, state domain.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.saved = true
	return nil
}
