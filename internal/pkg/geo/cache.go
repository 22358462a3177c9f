package geo

import (
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/metrics"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// CachedResolver 在解析器前加一层 Redis 缓存，仅缓存有效结果
type CachedResolver struct {
	next LocationResolver
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedResolver(next LocationResolver, rdb *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl}
}

// Resolve 缓存读写与下游查询共用同一个 timeout 预算
func (c *CachedResolver) Resolve(ctx context.Context, ip string, timeout time.Duration) Location {
	parsed := NormalizeIP(ip)
	if parsed == nil || !IsPublicIP(parsed) || c.rdb == nil {
		return c.next.Resolve(ctx, ip, timeout)
	}
	key := consts.GeoLocationKey + parsed.String()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var loc Location
		if json.Unmarshal(raw, &loc) == nil && loc.Known() {
			metrics.GeoCacheHits.Inc()
			return loc
		}
	}

	remaining := timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining = time.Until(deadline); remaining <= 0 {
			metrics.GeoFallbacks.WithLabelValues("timeout").Inc()
			return Unknown()
		}
	}

	loc := c.next.Resolve(ctx, ip, remaining)
	if !loc.Known() || ctx.Err() != nil {
		return loc
	}
	if data, err := json.Marshal(loc); err == nil {
		if err = c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.WarnContext(ctx, "geo cache write failed", "ip", parsed.String(), "err", err)
		}
	}
	return loc
}
