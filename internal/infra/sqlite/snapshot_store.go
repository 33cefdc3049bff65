// Package sqlite persists the application state in a local single-file
// database: one row keyed by a fixed name, surviving restarts on the
// same device.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"quizdeck/internal/domain"
)

const stateKey = "quizdeck:app-state"

// SnapshotStore is a SQLite-backed implementation of app.SnapshotStore.
type SnapshotStore struct {
	db *sql.DB
}

// Open opens (or creates) the database file and ensures the snapshot
// table exists.
func Open(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create app_state table: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.AppState, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM app_state WHERE key = ?`, stateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AppState{}, false, nil
	}
	if err != nil {
		return domain.AppState{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var state domain.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.AppState{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return state, true, nil
}

func (s *SnapshotStore) Save(ctx context.Context, state domain.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		stateKey, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
