package cmd

import (
	"context"
	"fmt"

	"github.com/99minutos/freight-pricing/internal/api/handler"
	"github.com/99minutos/freight-pricing/internal/core/ports"
	"github.com/99minutos/freight-pricing/internal/infrastructure/config"
	mongodb "github.com/99minutos/freight-pricing/internal/infrastructure/db/mongo"
	"github.com/99minutos/freight-pricing/internal/infrastructure/db/postgres"
)

// store bundles the persistence adapters of the selected driver.
type store struct {
	prices  ports.PriceRepository
	history ports.HistoryRepository
	regions ports.RegionDirectory
	check   handler.DependencyCheck
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return &store{
			prices:  mongodb.NewPriceRepository(db),
			history: mongodb.NewHistoryRepository(db),
			regions: mongodb.NewRegionDirectory(db),
			check: handler.DependencyCheck{Name: "mongodb", Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}},
			migrate: func(ctx context.Context) error { return mongodb.EnsureIndexes(ctx, db) },
			close:   client.Disconnect,
		}, nil

	case config.StorePostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxOpenConns: cfg.Postgres.MaxOpenConns})
		if err != nil {
			return nil, err
		}
		return &store{
			prices:  postgres.NewPriceRepository(db),
			history: postgres.NewHistoryRepository(db),
			regions: postgres.NewRegionDirectory(db),
			check: handler.DependencyCheck{Name: "postgres", Ping: func(ctx context.Context) error {
				return postgres.Ping(ctx, db)
			}},
			migrate: func(ctx context.Context) error { return postgres.Migrate(ctx, db) },
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
