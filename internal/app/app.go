// Package app assembles the service's components from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/codegrapher/graphers/internal/candidate/repository"
	"github.com/codegrapher/graphers/internal/candidate/service"
	"github.com/codegrapher/graphers/internal/config"
	"github.com/codegrapher/graphers/internal/database"
	"github.com/codegrapher/graphers/internal/denylist"
	"github.com/codegrapher/graphers/internal/export"
	"github.com/codegrapher/graphers/internal/storage"
	"github.com/codegrapher/graphers/internal/tokens"
	"github.com/codegrapher/graphers/internal/users"
	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	connectAttempts = 5
	connectBackoff  = time.Second
)

// App holds the wired components. Mongo and Redis are nil when not connected.
type App struct {
	Config     *config.Config
	Mongo      *mongo.Client
	Redis      *redis.Client
	Users      *users.Service
	Candidates *service.Service
	Exporter   *export.Exporter
	History    export.History
	Storage    *storage.MinIOStorage
}

// New connects to the stores named in cfg and builds every service. Mongo is
// mandatory; Redis and MinIO are optional and only logged when unreachable.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	client, err := database.ConnectMongoRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, connectAttempts, connectBackoff)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Mongo: client}
	db := client.Database(cfg.MongoDB.Database)

	if addr := cfg.RedisAddr(); addr != "" {
		rc, err := database.ConnectRedis(ctx, addr, cfg.Redis.Password, cfg.Redis.DB, 5*time.Second)
		if err != nil {
			logger.Warnf("redis at %s unavailable: %v", addr, err)
		} else {
			a.Redis = rc
			logger.Infof("connected to redis at %s", addr)
		}
	}

	issuer, err := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenTTL)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	userRepo := users.NewMongoUserRepository(db.Collection(users.CollectionName))
	candRepo := repository.NewMongoRepo(db.Collection(repository.CollectionName))
	for name, ensure := range map[string]func(context.Context) error{
		"users":      userRepo.EnsureIndexes,
		"candidates": candRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("%s indexes: %w", name, err)
		}
	}

	opts := []users.Option{users.WithBcryptCost(cfg.Auth.BcryptCost)}
	if cfg.Auth.DenylistEnabled {
		store, err := a.denylistStore(ctx, db)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		opts = append(opts, users.WithDenylist(denylist.NewService(store, issuer.TTL())))
	}
	a.Users = users.NewService(userRepo, issuer, opts...)
	a.Candidates = service.New(candRepo)

	a.Exporter = &export.Exporter{
		Source:      a.Candidates,
		BatchSize:   cfg.Export.BatchSize,
		Dir:         cfg.Export.Dir,
		FileName:    cfg.Export.FileName,
		UniqueNames: cfg.Export.UniqueNames,
	}
	if cfg.Export.History {
		h := export.NewMongoHistory(db.Collection(export.HistoryCollection))
		if err := h.EnsureIndexes(ctx); err != nil {
			logger.Warnf("report history disabled: %v", err)
		} else {
			a.History = h
			a.Exporter.History = h
		}
	}
	if cfg.MinIO.Endpoint != "" {
		st, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			logger.Warnf("report upload disabled: %v", err)
		} else {
			a.Storage = st
			a.Exporter.Uploader = st
		}
	}
	return a, nil
}

// denylistStore prefers Redis and falls back to a Mongo collection.
func (a *App) denylistStore(ctx context.Context, db *mongo.Database) (denylist.Store, error) {
	if a.Redis != nil {
		logger.Infof("token denylist: redis")
		return denylist.NewRedisStore(a.Redis, ""), nil
	}
	ms := denylist.NewMongoStore(db.Collection(denylist.CollectionName))
	if err := ms.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	logger.Infof("token denylist: mongo collection %s", denylist.CollectionName)
	return ms, nil
}

// Ready pings every configured dependency.
func (a *App) Ready(ctx context.Context) (map[string]bool, bool) {
	deps := map[string]bool{}
	ready := true
	deps["mongo"] = a.Mongo != nil && a.Mongo.Ping(ctx, nil) == nil
	ready = ready && deps["mongo"]
	if a.Config != nil && a.Config.RedisAddr() != "" {
		deps["redis"] = a.Redis != nil && a.Redis.Ping(ctx).Err() == nil
		ready = ready && deps["redis"]
	}
	return deps, ready
}

// Close releases the store connections.
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warnf("close redis: %v", err)
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			logger.Warnf("disconnect mongo: %v", err)
		}
	}
}
