package api

import (
	"Abode/internal/api/config"
	"Abode/internal/api/middleware"
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/logger"
	"Abode/internal/pkg/metrics"
	"Abode/internal/pkg/response"
	log "log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const devSessionSecret = "abode-dev-session-secret"

// entityRoutes 路由前缀与实体类型
var entityRoutes = []struct {
	path string
	kind model.EntityType
}{
	{"properties", model.EntityProperty},
	{"posts", model.EntityPost},
}

func SetupRouter(group *HandlersGroup, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// TraceId & Logger & CORS & Session
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r)
	if cfg.Server.Audit {
		r.Use(middleware.AuditMiddleware())
	}
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowOrigins))
	r.Use(sessions.Sessions(sessionName(cfg.Recency), newSessionStore(cfg.Recency)))

	r.GET("/metrics", metrics.Handler())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Success(c, "pong")
		})

		// 浏览上报，匿名可用
		viewGroup := apiGroup.Group("/views")
		viewGroup.Use(middleware.AuthOptionalMiddleware())
		for _, route := range entityRoutes {
			viewGroup.POST("/"+route.path+"/:id", middleware.EntityKind(route.kind), group.ViewHandler.RecordView)
		}

		for _, route := range entityRoutes {
			kindGroup := apiGroup.Group("/"+route.path, middleware.EntityKind(route.kind), middleware.AuthOptionalMiddleware())
			{
				kindGroup.GET("/trending", group.RankingHandler.GetTrending)
				kindGroup.GET("/recent", group.RankingHandler.GetRecentlyViewed)
				kindGroup.POST("/resolve", group.RankingHandler.Resolve)
				kindGroup.GET("/:id/recommended", group.RankingHandler.GetRecommended)
			}
		}

		propertyGroup := apiGroup.Group("/properties")
		{
			propertyGroup.GET("/search", group.PropertyHandler.SearchProperties)
			propertyGroup.GET("/:id", group.PropertyHandler.GetProperty)

			// 需要登录 & 管理员或经纪人，经纪人只能删除自己的房源
			authGroup := propertyGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin, consts.RoleAgent))
			{
				authGroup.DELETE("/:id", group.PropertyHandler.DeleteProperty)
			}
		}
	}

	return r
}

func sessionName(cfg config.RecencyConfig) string {
	if cfg.SessionName == "" {
		return "abode_session"
	}
	return cfg.SessionName
}

// newSessionStore 最近浏览存放在签名 cookie 中
func newSessionStore(cfg config.RecencyConfig) sessions.Store {
	secret := cfg.SessionSecret
	if secret == "" {
		log.Warn("recency.session_secret is empty, using development secret")
		secret = devSessionSecret
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
