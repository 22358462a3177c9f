package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ViewsRecorded 成功写入的浏览事件
	ViewsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abode_views_recorded_total",
			Help: "View events persisted, by entity type",
		},
		[]string{"entity_type"},
	)

	// ViewRecordFailures 浏览记录失败，stage: lookup | event | recency
	ViewRecordFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abode_view_record_failures_total",
			Help: "View recording failures, by entity type and stage",
		},
		[]string{"entity_type", "stage"},
	)

	// GeoFallbacks 地理位置降级为 Unknown 的次数
	GeoFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abode_geo_fallbacks_total",
			Help: "Geolocation lookups that fell back to Unknown, by reason",
		},
		[]string{"reason"},
	)

	// GeoCacheHits 地理位置缓存命中
	GeoCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "abode_geo_cache_hits_total",
		Help: "Geolocation lookups served from cache",
	})

	// TrendingFallbacks 热门榜走全量兜底的次数
	TrendingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abode_trending_fallbacks_total",
			Help: "Trending queries that used the latest-entities fallback",
		},
		[]string{"entity_type"},
	)

	// GeoBreakerState 0 closed, 1 half-open, 2 open
	GeoBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "abode_geo_breaker_state",
		Help: "Geolocation circuit breaker state",
	})
)

// Handler /metrics
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
