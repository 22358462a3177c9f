package model

import (
	"time"
)

const (
	PropertyStatusSale = "sale"
	PropertyStatusRent = "rent"
	PropertyStatusSold = "sold"
)

type Property struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	AgentID     uint64    `gorm:"not null;index:idx_agent_id" json:"agent_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Status      string    `gorm:"type:varchar(16);not null;index:idx_status_county,priority:1" json:"status"`
	Detail      string    `gorm:"type:varchar(64);not null;index:idx_detail" json:"detail"` // 房源细分类型: apartment, villa...
	County      string    `gorm:"type:varchar(64);not null;index:idx_status_county,priority:2" json:"county"`
	City        string    `gorm:"type:varchar(64)" json:"city"`
	Bedrooms    int       `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms   int       `gorm:"not null;default:0" json:"bathrooms"`
	Area        float64   `gorm:"not null;default:0" json:"area"`
	IsActive    bool      `gorm:"not null;index:idx_active_updated,priority:1" json:"is_active"`
	ViewsCount  int64     `gorm:"not null;default:0" json:"views_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `gorm:"index:idx_active_updated,priority:2" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) EntityID() uint64 { return p.ID }
func (p *Property) EntityKind() EntityType { return EntityProperty }
func (p *Property) Active() bool { return p.IsActive }
func (p *Property) LastUpdated() time.Time { return p.UpdatedAt }
