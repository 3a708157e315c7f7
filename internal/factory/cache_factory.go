package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/adapters/geocache"
	"github.com/mikey/phish-report/internal/config"
	"github.com/mikey/phish-report/internal/geo"
)

// CacheFactory creates geolocation caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a geolocation cache based on the
// configuration. memory is the default and keeps nothing between runs;
// sqlite and mysql persist entries so reruns against the same campaign
// do not spend geolocation quota.
func (f *CacheFactory) CreateCacheRepository() (geo.CacheRepository, error) {
	cacheCfg := f.cfg.GetCache()

	switch cacheCfg.Type {
	case "memory":
		return geocache.NewMemoryCache(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return geocache.NewSQLiteCache(cacheCfg.SQLitePath, cacheCfg.TTL, f.logger)
	case "mysql":
		return geocache.NewMySQLCache(cacheCfg.MySQLDSN, cacheCfg.TTL, f.logger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}
