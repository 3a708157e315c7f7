package geo

import (
	"context"
	"net/netip"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

// LookupClient performs one remote geolocation lookup.
type LookupClient interface {
	Lookup(ctx context.Context, ip string) (core.GeoInfo, error)
}

// CacheRepository stores GeoInfo keyed by IP for the resolver.
type CacheRepository interface {
	Get(ctx context.Context, ip string) (*core.GeoInfo, bool)
	Set(ctx context.Context, info *core.GeoInfo)
	Stop()
}

// Resolver maps IPs to GeoInfo. Private and malformed addresses are
// tagged locally; every distinct public IP costs at most one remote
// request, enforced by the cache, since the upstream service has a
// monthly quota. Failed lookups are cached too, so they are not
// retried in-run.
type Resolver struct {
	client     LookupClient
	cache      CacheRepository
	logger     *zap.Logger
	warnedOnce bool
}

// NewResolver creates a resolver. client may be nil (no usable token);
// public addresses then resolve to the failed marker without any
// network traffic.
func NewResolver(client LookupClient, cache CacheRepository, logger *zap.Logger) *Resolver {
	r := &Resolver{
		client: client,
		cache:  cache,
		logger: logger,
	}
	if client == nil {
		err := &core.ConfigError{Setting: "ipinfo.token", Reason: "not set; all lookups will be unresolved"}
		logger.Warn("Geolocation disabled", zap.Error(err))
		r.warnedOnce = true
	}
	return r
}

// Resolve returns the GeoInfo for one IP. It never fails the run:
// problems are encoded in the GeoInfo status.
func (r *Resolver) Resolve(ctx context.Context, ip string) core.GeoInfo {
	if ip == "" {
		return core.GeoInfo{Status: core.GeoUnavailable}
	}

	if cached, ok := r.cache.Get(ctx, ip); ok {
		return *cached
	}

	info := r.resolveUncached(ctx, ip)
	r.cache.Set(ctx, &info)
	return info
}

func (r *Resolver) resolveUncached(ctx context.Context, ip string) core.GeoInfo {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		r.logger.Debug("Not a usable IP address", zap.String("ip", ip))
		return core.GeoInfo{IP: ip, Status: core.GeoUnavailable}
	}

	if IsPrivate(addr) {
		return core.GeoInfo{IP: ip, Status: core.GeoPrivate}
	}

	if r.client == nil {
		return core.GeoInfo{IP: ip, Status: core.GeoFailed}
	}

	info, err := r.client.Lookup(ctx, ip)
	if err != nil {
		lookupErr := &core.LookupError{IP: ip, Err: err}
		r.logger.Warn("IP lookup failed", zap.Error(lookupErr))
		return core.GeoInfo{IP: ip, Status: core.GeoFailed}
	}

	info.IP = ip
	info.Status = core.GeoResolved
	return info
}
