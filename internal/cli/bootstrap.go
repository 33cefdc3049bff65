package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"quizdeck/internal/app"
	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/infra/memory"
	pgsnapshot "quizdeck/internal/infra/postgres"
	redissnapshot "quizdeck/internal/infra/redis"
	sqlitesnapshot "quizdeck/internal/infra/sqlite"
)

// openStore wires the configured snapshot backend into a bootstrapped
// state store. The returned cleanup closes backend connections and must
// run after the store is closed.
func openStore(ctx context.Context, cfg config.Config) (*app.Store, func(), error) {
	var (
		snapshots app.SnapshotStore
		cleanup   = func() {}
	)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		snapshots = memory.NewSnapshotStore()
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		snapshots = redissnapshot.NewSnapshotStore(client)
		cleanup = func() { _ = client.Close() }
	case config.BackendPostgres:
		pool, err := pgxpool.Connect(ctx, cfg.Storage.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		snapshots = pgsnapshot.NewSnapshotStore(pool)
		cleanup = pool.Close
	case config.BackendSQLite:
		db, err := sqlitesnapshot.Open(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		snapshots = db
		cleanup = func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return app.NewStore(ctx, snapshots, cfg.Seed()), cleanup, nil
}

// loginAs dispatches a Login and reports failure by observing the
// resulting state; the reducer itself stays silent on bad credentials.
// A snapshot can carry a current user from an earlier run, so the
// session is cleared first and the matched account must have the
// supplied email.
func loginAs(store *app.Store, email, password string) (domain.User, error) {
	store.Dispatch(domain.Logout{})
	state := store.Dispatch(domain.Login{Email: email, Password: password})
	user, ok := state.CurrentUser()
	if !ok || user.Email != email {
		return domain.User{}, fmt.Errorf("invalid email or password")
	}
	return user, nil
}
