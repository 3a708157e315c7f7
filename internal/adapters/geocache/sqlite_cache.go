package geocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

// SQLiteCache persists GeoInfo between runs so repeated reports against
// the same campaign do not burn geolocation quota. Entries expire after
// the configured TTL; failed lookups are cached like any other entry so
// a rerun within the TTL does not retry them.
type SQLiteCache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
}

// NewSQLiteCache opens (or creates) the cache database and prunes
// expired entries. The tool is single-shot, so cleanup happens at open
// rather than on a timer.
func NewSQLiteCache(dbPath string, ttl time.Duration, logger *zap.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS geo_cache (
			ip TEXT PRIMARY KEY,
			city TEXT,
			region TEXT,
			country TEXT,
			isp TEXT,
			status INTEGER,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_geo_expires_at ON geo_cache(expires_at)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}

	if err := cache.cleanup(context.Background()); err != nil {
		logger.Warn("Failed to clean up expired cache entries", zap.Error(err))
	}

	return cache, nil
}

// Get retrieves the cached GeoInfo for an IP.
func (c *SQLiteCache) Get(ctx context.Context, ip string) (*core.GeoInfo, bool) {
	var info core.GeoInfo
	var status int

	err := c.db.QueryRowContext(ctx, `
		SELECT ip, city, region, country, isp, status
		FROM geo_cache
		WHERE ip = ? AND expires_at > datetime('now')
	`, ip).Scan(&info.IP, &info.City, &info.Region, &info.Country, &info.ISP, &status)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query cache", zap.Error(err), zap.String("ip", ip))
		}
		return nil, false
	}

	info.Status = core.GeoStatus(status)
	return &info, true
}

// Set stores a GeoInfo keyed by its IP.
func (c *SQLiteCache) Set(ctx context.Context, info *core.GeoInfo) {
	expiresAt := time.Now().Add(c.ttl)

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO geo_cache (ip, city, region, country, isp, status, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, info.IP, info.City, info.Region, info.Country, info.ISP, int(info.Status), expiresAt.Format(time.RFC3339))

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("ip", info.IP))
	}
}

// cleanup removes expired entries.
func (c *SQLiteCache) cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM geo_cache
		WHERE expires_at <= datetime('now')
	`)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rows))
	}

	return nil
}

// Stop closes the database connection.
func (c *SQLiteCache) Stop() {
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
