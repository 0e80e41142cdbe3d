package cmd

import (
	"context"
	"fmt"

	"peer-feedback/core/config"
	"peer-feedback/core/database"
	"peer-feedback/core/logger"
	"peer-feedback/core/storage"
	"peer-feedback/feature/identity/archive"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	return &runtime{cfg: cfg, logger: l, db: db}, nil
}

// openArchive returns the event archive, or nil when archiving is disabled.
func (r *runtime) openArchive(ctx context.Context) (*archive.Archive, error) {
	if !r.cfg.Archive.Enabled {
		return nil, nil
	}

	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, r.cfg.Storage.Bucket, r.cfg.Storage.Region); err != nil {
		return nil, err
	}

	r.logger.Info("Identity event archive enabled",
		zap.String("bucket", r.cfg.Storage.Bucket),
		zap.String("prefix", r.cfg.Archive.Prefix),
	)
	return archive.New(client, r.cfg.Storage.Bucket, r.cfg.Archive.Prefix), nil
}

func (r *runtime) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.logger.Sync()
}
