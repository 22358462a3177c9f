package logger

import (
	"Abode/internal/pkg/consts"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

var accessSkipPaths = map[string]struct{}{
	"/metrics":  {},
	"/api/ping": {},
}

// SetupGin 访问日志走 slog，与业务日志共用 trace_id 与远端上报
func SetupGin(r *gin.Engine) {
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		if _, skip := accessSkipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if kind, ok := c.Get(consts.EntityKindKey); ok {
			attrs = append(attrs, "entity_type", kind)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		level := log.LevelInfo
		if c.Writer.Status() >= 500 {
			level = log.LevelError
		}
		log.Log(c.Request.Context(), level, "GIN_ACCESS", attrs...)
	})
}
