package geocache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(zap.NewNop())
	ctx := context.Background()

	_, ok := cache.Get(ctx, "8.8.8.8")
	assert.False(t, ok)

	info := &core.GeoInfo{IP: "8.8.8.8", City: "Mountain View", Status: core.GeoResolved}
	cache.Set(ctx, info)

	got, ok := cache.Get(ctx, "8.8.8.8")
	require.True(t, ok)
	assert.Equal(t, info, got)

	// Overwrite replaces the entry.
	cache.Set(ctx, &core.GeoInfo{IP: "8.8.8.8", Status: core.GeoFailed})
	got, ok = cache.Get(ctx, "8.8.8.8")
	require.True(t, ok)
	assert.Equal(t, core.GeoFailed, got.Status)

	cache.Stop()
}
