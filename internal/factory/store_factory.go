package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/email-verify-api/internal/adapters/store"
	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"go.uber.org/zap"
)

// minGenerationTTLIntervals is the number of refresh intervals a DynamoDB
// generation should survive
const minGenerationTTLIntervals = 3

// StoreFactory creates disposable domain stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDisposableStore creates a disposable domain store based on the configuration
func (f *StoreFactory) CreateDisposableStore(ctx context.Context) (core.DisposableStore, error) {
	storeCfg, err := f.cfg.GetDisposable()
	if err != nil {
		return nil, fmt.Errorf("invalid disposable store configuration: %w", err)
	}

	f.logger.Info("Creating disposable domain store", zap.String("type", storeCfg.Store))

	switch storeCfg.Store {
	case "memory":
		return store.NewMemoryStore(nil, f.logger), nil
	case "redis":
		return store.NewRedisStore(ctx, storeCfg.RedisURL, storeCfg.Key, f.logger)
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(ctx, storeCfg.MySQLDSN, f.logger)
	case "dynamodb":
		f.checkGenerationTTL(storeCfg.DynamoDB.GenerationTTL)
		return store.NewDynamoDBStore(ctx,
			storeCfg.DynamoDB.Table,
			storeCfg.DynamoDB.Region,
			storeCfg.DynamoDB.Endpoint,
			storeCfg.DynamoDB.GenerationTTL,
			f.logger)
	default:
		return nil, fmt.Errorf("unsupported disposable store type: %s", storeCfg.Store)
	}
}

// checkGenerationTTL warns when the live generation could expire before a
// failed refresh is retried. Items of every generation carry expires_at.
func (f *StoreFactory) checkGenerationTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	refreshCfg, err := f.cfg.GetRefresh()
	if err != nil {
		return
	}
	if ttl < minGenerationTTLIntervals*refreshCfg.Interval {
		f.logger.Warn("DynamoDB generation TTL is shorter than three refresh intervals; the live set expires if refreshes keep failing",
			zap.Duration("generation_ttl", ttl),
			zap.Duration("refresh_interval", refreshCfg.Interval))
	}
}
