package geocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

// MySQLCache is a shared GeoInfo cache for teams running reports from
// several machines against one geolocation quota.
type MySQLCache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
}

// NewMySQLCache connects to the cache database and prunes expired
// entries.
func NewMySQLCache(dsn string, ttl time.Duration, logger *zap.Logger) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS geo_cache (
			ip VARCHAR(45) PRIMARY KEY,
			city VARCHAR(255),
			region VARCHAR(255),
			country VARCHAR(64),
			isp VARCHAR(255),
			status INT,
			expires_at TIMESTAMP,
			INDEX idx_geo_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
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
func (c *MySQLCache) Get(ctx context.Context, ip string) (*core.GeoInfo, bool) {
	var info core.GeoInfo
	var status int

	err := c.db.QueryRowContext(ctx, `
		SELECT ip, city, region, country, isp, status
		FROM geo_cache
		WHERE ip = ? AND expires_at > NOW()
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
func (c *MySQLCache) Set(ctx context.Context, info *core.GeoInfo) {
	expiresAt := time.Now().Add(c.ttl)

	_, err := c.db.ExecContext(ctx, `
		REPLACE INTO geo_cache (ip, city, region, country, isp, status, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, info.IP, info.City, info.Region, info.Country, info.ISP, int(info.Status), expiresAt)

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("ip", info.IP))
	}
}

// cleanup removes expired entries.
func (c *MySQLCache) cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM geo_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rows))
	}

	return nil
}

// Stop closes the database connection.
func (c *MySQLCache) Stop() {
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
