package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/config"
	"github.com/fekuna/omnipos-stocktake-service/internal/database"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/store"
	"github.com/fekuna/omnipos-stocktake-service/internal/store/repository"
	"go.uber.org/zap"
)

// openStore connects the configured backend. The returned cleanup releases
// everything openStore acquired and must be called once on shutdown.
func openStore(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (store.Store, func(), error) {
	prefix := cfg.Store.KeyPrefix

	switch cfg.Store.Backend {
	case "memory":
		log.Warn("Using in-memory store, data is lost on exit")
		return repository.NewMemoryRepository(prefix), func() {}, nil

	case "file":
		repo, err := repository.NewFileRepository(cfg.Store.FilePath, prefix)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using file store", zap.String("path", cfg.Store.FilePath))
		return repo, func() { _ = repo.Close() }, nil

	case "postgres":
		db, err := database.NewPostgres(&database.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPGRepository(db, prefix)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("Connected to PostgreSQL store", zap.String("db_name", cfg.Postgres.DBName))
		return repo, func() { _ = repo.Close() }, nil

	case "redis":
		client, err := database.NewRedisClient(&database.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisRepository(client, prefix)

		lease, err := repo.AcquireLease(ctx, cfg.Redis.LeaseTTL, log)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		leaseCtx, stopLease := context.WithCancel(context.Background())
		go lease.KeepAlive(leaseCtx)

		log.Info("Connected to Redis store", zap.String("addr", cfg.Redis.Addr))
		return repo, func() {
			stopLease()
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := lease.Release(releaseCtx); err != nil {
				log.Warn("Failed to release store lease", zap.Error(err))
			}
			_ = repo.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", store.ErrUnknownBackend, cfg.Store.Backend)
	}
}
