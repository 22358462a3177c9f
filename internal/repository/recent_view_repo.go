package repository

import (
	"Abode/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecentViewRepo interface {
	Upsert(ctx context.Context, viewerID uint64, kind model.EntityType, entityID uint64, viewedAt time.Time) error
	ListRecent(ctx context.Context, viewerID uint64, kind model.EntityType, limit int) ([]uint64, error)
	Trim(ctx context.Context, viewerID uint64, kind model.EntityType, keep int) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type RecentViewRepoImpl struct {
	db *gorm.DB
}

func NewRecentViewRepository(db *gorm.DB) RecentViewRepo {
	return &RecentViewRepoImpl{db: db}
}

// Upsert 依赖唯一索引 uk_recent_view，重复浏览只刷新时间
func (s *RecentViewRepoImpl) Upsert(ctx context.Context, viewerID uint64, kind model.EntityType, entityID uint64, viewedAt time.Time) error {
	entry := &model.RecentView{
		ViewerID:   viewerID,
		EntityType: kind,
		EntityID:   entityID,
		ViewedAt:   viewedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "viewer_id"}, {Name: "entity_type"}, {Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
	}).Create(entry).Error
}

func (s *RecentViewRepoImpl) ListRecent(ctx context.Context, viewerID uint64, kind model.EntityType, limit int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	err := s.db.WithContext(ctx).
		Model(&model.RecentView{}).
		Where("viewer_id = ? AND entity_type = ?", viewerID, kind).
		Order("viewed_at DESC, id DESC").
		Limit(limit).
		Pluck("entity_id", &ids).Error
	return ids, err
}

// Trim 只保留最近 keep 条
// 保留集合与删除在同一条语句中计算，并发写入的新记录不会被误删；
// MySQL 不支持 IN 子查询带 LIMIT，外面再包一层派生表
func (s *RecentViewRepoImpl) Trim(ctx context.Context, viewerID uint64, kind model.EntityType, keep int) error {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.RecentView{}).
		Where("viewer_id = ? AND entity_type = ?", viewerID, kind).
		Count(&total).Error
	if err != nil || total <= int64(keep) {
		return err
	}

	newest := s.db.Model(&model.RecentView{}).
		Select("id").
		Where("viewer_id = ? AND entity_type = ?", viewerID, kind).
		Order("viewed_at DESC, id DESC").
		Limit(keep)
	kept := s.db.Table("(?) AS kept", newest).Select("id")

	return s.db.WithContext(ctx).
		Where("viewer_id = ? AND entity_type = ? AND id NOT IN (?)", viewerID, kind, kept).
		Delete(&model.RecentView{}).Error
}

func (s *RecentViewRepoImpl) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("viewed_at < ?", cutoff).Delete(&model.RecentView{})
	return res.RowsAffected, res.Error
}
