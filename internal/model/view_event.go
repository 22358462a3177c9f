package model

import (
	"time"
)

const UnknownValue = "Unknown"

// ViewEvent 单次浏览记录，写入后不更新
type ViewEvent struct {
	ID         uint64     `gorm:"primaryKey"`
	EntityType EntityType `gorm:"type:varchar(16);not null;index:idx_entity_viewed,priority:1" json:"entityType"`
	EntityID   uint64     `gorm:"not null;index:idx_entity_viewed,priority:2" json:"entityId"`
	ViewerID   *uint64    `gorm:"index:idx_viewer_id" json:"viewerId"` // 匿名浏览为空
	DeviceType string     `gorm:"type:varchar(32);not null;default:'Unknown'" json:"deviceType"`
	Browser    string     `gorm:"type:varchar(64);not null;default:'Unknown'" json:"browser"`
	OS         string     `gorm:"column:os;type:varchar(64);not null;default:'Unknown'" json:"os"`
	Country    string     `gorm:"type:varchar(64);not null;default:'Unknown'" json:"country"`
	City       string     `gorm:"type:varchar(64);not null;default:'Unknown'" json:"city"`
	ViewedAt   time.Time  `gorm:"not null;index:idx_entity_viewed,priority:3" json:"viewedAt"`
}

func (ViewEvent) TableName() string {
	return "view_events"
}
