package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/packsmith/packsmith/internal/catalog"
	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/config"
	"github.com/packsmith/packsmith/internal/engine"
	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
	"github.com/packsmith/packsmith/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// closeStorage closes the store, logging rather than failing on error.
func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "failed to close storage", nil)
	}
}

// loadIndex builds a catalog index from the locally cached catalog.
func loadIndex(ctx context.Context, store service.Storage) (*catalog.Index, error) {
	idx, err := catalog.Load(ctx, catalog.NewStoreProvider(store))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if idx.Len() == 0 {
		return nil, common.NewUserError("catalog is empty; run 'packsmith catalog refresh' first", nil)
	}
	return idx, nil
}

// newEngine creates a composition engine with configuration overrides applied.
func newEngine(store service.Storage, idx *catalog.Index) *engine.Engine {
	cfg := engine.DefaultConfig()
	if chunk := viper.GetInt("ingest.chunk_size"); chunk > 0 {
		cfg.ChunkSize = chunk
	}
	return engine.NewWithConfig(store, idx, cfg)
}

// loadShipment fetches a shipment by ID.
func loadShipment(ctx context.Context, store service.Storage, id string) (*model.Shipment, error) {
	shipment, err := store.GetShipment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipment %s: %w", id, err)
	}
	return shipment, nil
}
