// Package redis persists the application state as a single JSON blob
// under a fixed key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizdeck/internal/domain"
)

// stateKey is the one namespaced key the whole state lives under.
const stateKey = "quizdeck:app-state"

// SnapshotStore is a Redis-backed implementation of app.SnapshotStore.
type SnapshotStore struct {
	client *redis.Client
}

func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.AppState, bool, error) {
	raw, err := s.client.Get(ctx, stateKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AppState{}, false, nil
	}
	if err != nil {
		return domain.AppState{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var state domain.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.AppState{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return state, true, nil
}

func (s *SnapshotStore) Save(ctx context.Context, state domain.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, stateKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
