package consts

const (
	DefaultRecencyCapacity  = 10
	DefaultRecommendLimit   = 3
	DefaultTrendingLimit    = 8
	MaxListLimit            = 50
	DefaultTrendingWindow   = 7
	DefaultGeoTimeoutMillis = 800
)

const (
	// RecentViewsSessionKey 会话中保存最近浏览的键前缀
	RecentViewsSessionKey = "recent_views:"
)

const (
	RoleAdmin = "ADMIN"
	RoleAgent = "AGENT"
)

const (
	SourceES = "es"
	SourceDB = "db"
)

// EntityKindKey gin.Context 中路由绑定的实体类型
const EntityKindKey = "entity_kind"
