package testutil

import (
	"Abode/internal/model"
	"testing"
	"time"

	"gorm.io/gorm"
)

// SeedProperty 写入房源，updatedAt 为零值时使用当前时间
func SeedProperty(t *testing.T, db *gorm.DB, p model.Property) *model.Property {
	t.Helper()
	if p.Status == "" {
		p.Status = model.PropertyStatusSale
	}
	if p.Title == "" {
		p.Title = "property"
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	if !p.UpdatedAt.IsZero() {
		if err := db.Model(&p).UpdateColumn("updated_at", p.UpdatedAt).Error; err != nil {
			t.Fatalf("seed property: %v", err)
		}
	}
	return &p
}

func SeedPost(t *testing.T, db *gorm.DB, p model.Post) *model.Post {
	t.Helper()
	if p.Title == "" {
		p.Title = "post"
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if !p.UpdatedAt.IsZero() {
		if err := db.Model(&p).UpdateColumn("updated_at", p.UpdatedAt).Error; err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}
	return &p
}

// SeedViews 写入 n 条浏览记录
func SeedViews(t *testing.T, db *gorm.DB, kind model.EntityType, id uint64, n int, at time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		ev := &model.ViewEvent{
			EntityType: kind,
			EntityID:   id,
			DeviceType: model.UnknownValue,
			Browser:    model.UnknownValue,
			OS:         model.UnknownValue,
			Country:    model.UnknownValue,
			City:       model.UnknownValue,
			ViewedAt:   at,
		}
		if err := db.Create(ev).Error; err != nil {
			t.Fatalf("seed views: %v", err)
		}
	}
}
