package model

import (
	"Abode/internal/pkg/consts"
	"time"
)

// EntityType 可追踪浏览的实体类型
type EntityType string

const (
	EntityProperty EntityType = "property"
	EntityPost     EntityType = "post"
)

// ParseEntityKind 路由中的复数形式转实体类型
func ParseEntityKind(kind string) (EntityType, bool) {
	switch kind {
	case "properties", "property":
		return EntityProperty, true
	case "posts", "post":
		return EntityPost, true
	default:
		return "", false
	}
}

// DirtyKey 浏览量待回写的实体集合，未知类型返回空串
func (t EntityType) DirtyKey() string {
	switch t {
	case EntityProperty:
		return consts.PropertyDirtyKey
	case EntityPost:
		return consts.PostDirtyKey
	default:
		return ""
	}
}

// Trackable 房源与文章的公共视图
type Trackable interface {
	EntityID() uint64
	EntityKind() EntityType
	Active() bool
	LastUpdated() time.Time
}
