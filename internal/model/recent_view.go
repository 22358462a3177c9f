package model

import (
	"time"
)

// RecentView 用户最近浏览，(viewer, entity) 唯一
type RecentView struct {
	ID         uint64     `gorm:"primaryKey"`
	ViewerID   uint64     `gorm:"not null;uniqueIndex:uk_recent_view,priority:1;index:idx_viewer_kind_time,priority:1" json:"viewerId"`
	EntityType EntityType `gorm:"type:varchar(16);not null;uniqueIndex:uk_recent_view,priority:2;index:idx_viewer_kind_time,priority:2" json:"entityType"`
	EntityID   uint64     `gorm:"not null;uniqueIndex:uk_recent_view,priority:3" json:"entityId"`
	ViewedAt   time.Time  `gorm:"not null;index:idx_viewer_kind_time,priority:3" json:"viewedAt"`
}

func (RecentView) TableName() string {
	return "recent_views"
}
