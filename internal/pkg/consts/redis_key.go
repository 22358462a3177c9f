package consts

const (
	PropertyDirtyKey    = "property:dirty"
	PostDirtyKey        = "post:dirty"
	PropertyDetailKey   = "property:detail:"
	GeoLocationKey      = "geo:location:"
	RecencyCacheKey     = "recency:client:"
	ViewCountJobLock    = "lock:job:view_count"
	RecencyPruneJobLock = "lock:job:recency_prune"
	TokenBlacklistKey   = "token:blacklist:"
)
