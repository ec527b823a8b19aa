package main

import (
	"context"
	"fmt"

	"github.com/retailku/order-admin/pkg/config"
	"github.com/retailku/order-admin/pkg/database"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/storage"
	"github.com/retailku/order-admin/pkg/storage/firestore"
	"github.com/retailku/order-admin/pkg/storage/memory"
	"github.com/retailku/order-admin/pkg/storage/mongo"
	"github.com/retailku/order-admin/pkg/storage/postgres"
)

// openStore connects the document store selected by store.driver.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Gateway, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.New()
		if cfg.Store.FixturePath != "" {
			n, err := storage.LoadFixture(ctx, cfg.Store.FixturePath, store)
			if err != nil {
				return nil, err
			}
			log.Info().Int("documents", n).Str("path", cfg.Store.FixturePath).Msg("memory store seeded")
		}
		return store, nil

	case config.DriverMongo:
		store, err := mongo.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		store := postgres.New(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.DriverFirestore:
		store, err := firestore.Connect(ctx, &cfg.Firestore)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
