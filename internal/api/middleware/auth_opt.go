package middleware

import (
	"Abode/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 user_id，失败或缺失则为 0 (匿名浏览)
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint64(0))

		if token, ok := bearerToken(c); ok {
			if claims, err := security.ValidateToken(token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("roles", claims.Roles)
			}
		}

		c.Next()
	}
}
