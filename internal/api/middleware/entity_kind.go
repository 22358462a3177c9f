package middleware

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"

	"github.com/gin-gonic/gin"
)

// EntityKind 路由分组绑定实体类型
func EntityKind(kind model.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(consts.EntityKindKey, kind)
		c.Next()
	}
}
