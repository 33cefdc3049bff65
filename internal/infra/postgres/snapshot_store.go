// Package postgres persists the application state as a JSONB row,
// for deployments that want the snapshot off the local disk.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizdeck/internal/domain"
)

const stateKey = "quizdeck:app-state"

// SnapshotStore is a Postgres-backed implementation of app.SnapshotStore.
// The app_state table is created by the bun migrations in the
// migrations subpackage.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.AppState, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM app_state WHERE key = $1`, stateKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
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
	_, err = s.pool.Exec(ctx,
		`INSERT INTO app_state (key, data, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		stateKey, raw)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
