package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

type fakeClient struct {
	results map[string]core.GeoInfo
	errs    map[string]error
	calls   int
}

func (c *fakeClient) Lookup(ctx context.Context, ip string) (core.GeoInfo, error) {
	c.calls++
	if err, ok := c.errs[ip]; ok {
		return core.GeoInfo{}, err
	}
	return c.results[ip], nil
}

type mapCache struct {
	entries map[string]*core.GeoInfo
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*core.GeoInfo)}
}

func (c *mapCache) Get(ctx context.Context, ip string) (*core.GeoInfo, bool) {
	info, ok := c.entries[ip]
	return info, ok
}

func (c *mapCache) Set(ctx context.Context, info *core.GeoInfo) {
	c.entries[info.IP] = info
}

func (c *mapCache) Stop() {}

func TestResolvePublicIP(t *testing.T) {
	client := &fakeClient{results: map[string]core.GeoInfo{
		"8.8.8.8": {City: "Mountain View", Region: "California", Country: "US", ISP: "AS15169 Google LLC"},
	}}
	r := NewResolver(client, newMapCache(), zap.NewNop())

	info := r.Resolve(context.Background(), "8.8.8.8")

	assert.Equal(t, core.GeoResolved, info.Status)
	assert.Equal(t, "8.8.8.8", info.IP)
	assert.Equal(t, "Mountain View, California, US", info.Location())
	assert.Equal(t, "AS15169 Google LLC", info.Provider())
}

func TestResolvePrivateIPNeverCallsClient(t *testing.T) {
	client := &fakeClient{}
	r := NewResolver(client, newMapCache(), zap.NewNop())

	for _, ip := range []string{"10.0.0.5", "192.168.1.10", "172.16.3.4", "127.0.0.1", "fd00::1"} {
		info := r.Resolve(context.Background(), ip)
		assert.Equal(t, core.GeoPrivate, info.Status, ip)
		assert.Equal(t, "Private/Reserved", info.Location(), ip)
	}
	assert.Zero(t, client.calls)
}

func TestResolveCachesResults(t *testing.T) {
	client := &fakeClient{results: map[string]core.GeoInfo{
		"8.8.8.8": {City: "Mountain View"},
	}}
	r := NewResolver(client, newMapCache(), zap.NewNop())

	for i := 0; i < 5; i++ {
		info := r.Resolve(context.Background(), "8.8.8.8")
		require.Equal(t, core.GeoResolved, info.Status)
	}
	assert.Equal(t, 1, client.calls)
}

func TestResolveFailureIsCachedNotRetried(t *testing.T) {
	client := &fakeClient{errs: map[string]error{
		"9.9.9.9": errors.New("unexpected status 429 from geolocation service"),
	}}
	r := NewResolver(client, newMapCache(), zap.NewNop())

	first := r.Resolve(context.Background(), "9.9.9.9")
	second := r.Resolve(context.Background(), "9.9.9.9")

	assert.Equal(t, core.GeoFailed, first.Status)
	assert.Equal(t, core.GeoFailed, second.Status)
	assert.Equal(t, "Lookup Failed", second.Location())
	assert.Equal(t, 1, client.calls)
}

func TestResolveWithoutClientDegrades(t *testing.T) {
	r := NewResolver(nil, newMapCache(), zap.NewNop())

	info := r.Resolve(context.Background(), "8.8.8.8")
	assert.Equal(t, core.GeoFailed, info.Status)

	// Private detection still works without a client.
	info = r.Resolve(context.Background(), "192.168.0.1")
	assert.Equal(t, core.GeoPrivate, info.Status)
}

func TestResolveUnusableAddresses(t *testing.T) {
	client := &fakeClient{}
	r := NewResolver(client, newMapCache(), zap.NewNop())

	empty := r.Resolve(context.Background(), "")
	assert.Equal(t, core.GeoUnavailable, empty.Status)

	garbage := r.Resolve(context.Background(), "not-an-ip")
	assert.Equal(t, core.GeoUnavailable, garbage.Status)

	assert.Zero(t, client.calls)
}
