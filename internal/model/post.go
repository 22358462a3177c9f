package model

import (
	"time"
)

type Post struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	AuthorID   uint64    `gorm:"not null;index:idx_author_id" json:"author_id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Category   string    `gorm:"type:varchar(64);not null;index:idx_category" json:"category"`
	Published  bool      `gorm:"not null;default:false;index:idx_published_updated,priority:1" json:"published"`
	ViewsCount int64     `gorm:"not null;default:0" json:"views_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `gorm:"index:idx_published_updated,priority:2" json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) EntityID() uint64 { return p.ID }
func (p *Post) EntityKind() EntityType { return EntityPost }
func (p *Post) Active() bool { return p.Published }
func (p *Post) LastUpdated() time.Time { return p.UpdatedAt }
