package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ipperhq/ipper/internal/adapters/store"
	"github.com/ipperhq/ipper/internal/config"
	"github.com/ipperhq/ipper/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates mention stores based on configuration
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

// CreateMentionStore creates a mention store based on the configuration
func (f *StoreFactory) CreateMentionStore() (core.MentionStore, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "csv":
		if err := os.MkdirAll(filepath.Dir(storeCfg.CSVPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
		return store.NewCSVStore(storeCfg.CSVPath, f.logger)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
