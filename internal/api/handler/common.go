package handler

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/recency"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// entityKind 路由分组注入的实体类型
func entityKind(c *gin.Context) (model.EntityType, bool) {
	v, ok := c.Get(consts.EntityKindKey)
	if !ok {
		return model.ParseEntityKind(c.Param("kind"))
	}
	kind, ok := v.(model.EntityType)
	return kind, ok
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// sessionCache 浏览器会话中的最近浏览，按实体类型分开
func sessionCache(c *gin.Context, kind model.EntityType, capacity int) *recency.Cache {
	storage := recency.NewSessionStorage(sessions.Default(c))
	return recency.NewCache(storage, consts.RecentViewsSessionKey+string(kind), capacity)
}
