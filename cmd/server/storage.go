package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/productivity/internal/config"
	"github.com/fastygo/productivity/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/productivity/internal/infrastructure/postgres"
	"github.com/fastygo/productivity/internal/services/lifecycle"
	"github.com/fastygo/productivity/internal/store"
	"github.com/fastygo/productivity/repository/boltdb"
	"github.com/fastygo/productivity/repository/postgres"
)

type storage struct {
	repos  store.Backend
	pinger monitor.Pinger
}

// openStorage opens the configured backend and registers its shutdown hook.
func openStorage(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (storage, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := pgInfra.Open(ctx, cfg, logger)
		if err != nil {
			return storage{}, err
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		return storage{
			repos: store.Backend{
				Tasks:         postgres.NewTaskRepository(pool),
				Insights:      postgres.NewInsightRepository(pool),
				Notifications: postgres.NewNotificationRepository(pool),
				Communication: postgres.NewCommunicationRepository(pool),
			},
			pinger: pool,
		}, nil
	default:
		db, err := boltdb.Open(cfg.Storage.BoltPath)
		if err != nil {
			return storage{}, err
		}
		manager.Register("boltdb", func(context.Context) error {
			return db.Close()
		})
		logger.Info("task store opened", zap.String("path", cfg.Storage.BoltPath))
		return storage{
			repos: store.Backend{
				Tasks:         boltdb.NewTaskRepository(db),
				Insights:      boltdb.NewInsightRepository(db),
				Notifications: boltdb.NewNotificationRepository(db),
				Communication: boltdb.NewCommunicationRepository(db),
			},
			pinger: db,
		}, nil
	}
}
