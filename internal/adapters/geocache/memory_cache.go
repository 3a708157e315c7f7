package geocache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

// MemoryCache is the default, run-local GeoInfo cache. It lives for one
// process and needs no expiry. The mutex is there because the adapter
// is shared code, not because the pipeline is concurrent.
type MemoryCache struct {
	entries map[string]*core.GeoInfo
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*core.GeoInfo),
		logger:  logger,
	}
}

// Get retrieves the cached GeoInfo for an IP.
func (c *MemoryCache) Get(ctx context.Context, ip string) (*core.GeoInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.entries[ip]
	return info, ok
}

// Set stores a GeoInfo keyed by its IP.
func (c *MemoryCache) Set(ctx context.Context, info *core.GeoInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[info.IP] = info
}

// Stop is a no-op for the memory cache.
func (c *MemoryCache) Stop() {}
