package main

import (
	"context"
	"fmt"

	"github.com/harsh-0015/freelance-tracker/internal/config"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
	"github.com/harsh-0015/freelance-tracker/internal/storage/mongostore"
	"github.com/harsh-0015/freelance-tracker/internal/storage/sqlstore"
)

// openStore connects to the configured backend once. SQL backends are
// migrated as part of opening.
func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverMySQL:
		dsn := cfg.DBPath
		if cfg.Driver == config.DriverMySQL {
			dsn = cfg.MySQLDSN
		}
		store, err := sqlstore.New(ctx, cfg.Driver, dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMongo:
		store, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}

// storeTarget describes the backend for log lines without leaking credentials.
func storeTarget(cfg config.StorageConfig) string {
	switch cfg.Driver {
	case config.DriverSQLite:
		return cfg.DBPath
	case config.DriverMongo:
		return cfg.MongoDatabase
	default:
		return cfg.Driver
	}
}
