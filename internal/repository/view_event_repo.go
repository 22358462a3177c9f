package repository

import (
	"Abode/internal/model"
	"context"

	"gorm.io/gorm"
)

type ViewEventRepo interface {
	CreateViewEvent(ctx context.Context, event *model.ViewEvent) error
	CountByEntities(ctx context.Context, kind model.EntityType, ids []uint64) (map[uint64]int64, error)
}

type ViewEventRepoImpl struct {
	db *gorm.DB
}

func NewViewEventRepository(db *gorm.DB) ViewEventRepo {
	return &ViewEventRepoImpl{db: db}
}

func (s *ViewEventRepoImpl) CreateViewEvent(ctx context.Context, event *model.ViewEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

// CountByEntities 全量浏览次数，无记录的实体计为 0
func (s *ViewEventRepoImpl) CountByEntities(ctx context.Context, kind model.EntityType, ids []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []TrendingRow
	err := s.db.WithContext(ctx).
		Model(&model.ViewEvent{}).
		Select("entity_id, COUNT(*) AS view_count").
		Where("entity_type = ? AND entity_id IN ?", kind, ids).
		Group("entity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.EntityID] = row.ViewCount
	}
	return counts, nil
}
