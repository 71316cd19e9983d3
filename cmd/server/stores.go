package main

import (
	"context"
	"fmt"

	"github.com/domapp/portal/internal/core/ports"
	"github.com/domapp/portal/internal/infrastructure/db/mongo"
	"github.com/domapp/portal/internal/infrastructure/db/redis"
	"github.com/domapp/portal/internal/infrastructure/db/sqldb"
	"github.com/domapp/portal/internal/infrastructure/memory"
	"github.com/domapp/portal/internal/pkg/config"
)

type closeFunc func()

// openUserStore connects the configured user backend and prepares its schema.
func openUserStore(ctx context.Context, cfg *config.Config) (ports.UserRepository, closeFunc, error) {
	switch cfg.UserStore {
	case config.UserStoreMongo:
		client, repo, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.UserStorePostgres, config.UserStoreSQLite:
		sc := sqldb.Config{Dialect: sqldb.DialectSQLite, DSN: cfg.SQLite.Path}
		if cfg.UserStore == config.UserStorePostgres {
			sc = sqldb.Config{Dialect: sqldb.DialectPostgres, DSN: cfg.Postgres.DSN}
		}
		db, err := sqldb.Open(ctx, sc)
		if err != nil {
			return nil, nil, err
		}
		return sqldb.NewUserRepository(db, sc.Dialect), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown user store %q", cfg.UserStore)
	}
}

// openSessionStore connects the configured session backend.
func openSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, closeFunc, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSessionStore(client), func() { _ = client.Close() }, nil

	case config.SessionStoreMemory:
		return memory.NewSessionStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
