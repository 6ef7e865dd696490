package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository/clickhouse"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository/postgres"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository/sqlite"
)

// openStore connects the configured event store. The caller closes it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.EventRepository, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		client, err := sqlite.NewClient(ctx, cfg.SQLite, log)
		if err != nil {
			return nil, err
		}
		return sqlite.NewRepository(client, log), nil
	case "postgres":
		client, err := postgres.NewClient(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		return postgres.NewRepository(client, log), nil
	case "clickhouse":
		client, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
		if err != nil {
			return nil, err
		}
		return clickhouse.NewRepository(client, log), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func closeStore(repo repository.EventRepository, log *zap.Logger) {
	if err := repo.Close(); err != nil {
		log.Error("Failed to close event store", zap.Error(err))
	}
}
