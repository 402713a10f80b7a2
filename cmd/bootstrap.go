package cmd

import (
	"context"
	"fmt"

	"esim-catalog/core/config"
	"esim-catalog/core/database"
	"esim-catalog/core/lock"
	"esim-catalog/core/logger"
	"esim-catalog/core/provider/esimaccess"
	"esim-catalog/core/storage"
	"esim-catalog/feature/catalog"
	"esim-catalog/feature/catalog/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles the dependencies shared by the sync, start and maintenance commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	redis   *redis.Client
	archive *catalog.Archive
	syncer  *catalog.Syncer
	source  catalog.Source
}

// bootstrap loads configuration, creates the logger and connects to the database.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	return &runtime{cfg: cfg, logger: logg, db: db}, nil
}

// withSyncer wires the lease, snapshot archive, metrics and provider client.
// Redis and the archive are optional: a missing redis URL keeps the lease
// in-process and a storage failure disables archiving.
func (r *runtime) withSyncer(ctx context.Context, reg prometheus.Registerer) error {
	client, err := lock.NewRedisClient(ctx, r.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	r.redis = client
	if client == nil {
		r.logger.Info("Redis not configured, sync lease is process-local")
	}

	if store, err := storage.NewClient(r.cfg.Storage); err != nil {
		r.logger.Warn("Snapshot archive disabled", zap.Error(err))
	} else {
		r.archive = catalog.NewArchive(store, r.cfg.Storage)
	}

	r.syncer = catalog.NewSyncer(r.db, lock.New(client), r.archive, metrics.New(reg), r.logger, r.cfg.Sync)
	r.source = catalog.NewAPISource(esimaccess.NewClient(r.cfg.Provider), r.cfg.Provider.LocationCode)
	return nil
}

// snapshotSource resolves a --snapshot value ("latest" or an object key) to a replay source.
func (r *runtime) snapshotSource(ctx context.Context, key string) (catalog.Source, error) {
	if r.archive == nil {
		return nil, fmt.Errorf("snapshot replay needs the storage archive")
	}
	if key == "latest" {
		latest, err := r.archive.Latest(ctx)
		if err != nil {
			return nil, err
		}
		key = latest
	}
	return r.archive.Source(key), nil
}

func (r *runtime) close() {
	if r.redis != nil {
		_ = r.redis.Close()
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.logger.Sync()
}
