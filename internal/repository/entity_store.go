package repository

import (
	"Abode/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// TrendingRow 窗口期内的浏览聚合
type TrendingRow struct {
	EntityID  uint64
	ViewCount int64
}

// EntityStore 房源与文章的公共读写
type EntityStore interface {
	Kind() model.EntityType
	FindByID(ctx context.Context, id uint64) (model.Trackable, error)
	FindActiveByIDs(ctx context.Context, ids []uint64) ([]model.Trackable, error)
	ListActiveLatest(ctx context.Context, excludeIDs []uint64, limit int) ([]model.Trackable, error)
	TrendingSince(ctx context.Context, since time.Time, limit int) ([]TrendingRow, error)
	FindSimilar(ctx context.Context, anchor model.Trackable, limit int) ([]model.Trackable, error)
	CountActive(ctx context.Context) (int64, error)
	UpdateViewsCount(ctx context.Context, id uint64, count int64) error
	Delete(ctx context.Context, id uint64) error
}

// EntityRegistry 按实体类型查找存储
type EntityRegistry map[model.EntityType]EntityStore

func NewEntityRegistry(stores ...EntityStore) EntityRegistry {
	r := make(EntityRegistry, len(stores))
	for _, s := range stores {
		r[s.Kind()] = s
	}
	return r
}

func (r EntityRegistry) Get(kind model.EntityType) (EntityStore, bool) {
	s, ok := r[kind]
	return s, ok
}

type entityTable struct {
	kind   model.EntityType
	table  string
	active string
}

func toTrackables[T model.Trackable](items []T) []model.Trackable {
	out := make([]model.Trackable, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func findActiveByIDs[T any](ctx context.Context, db *gorm.DB, t entityTable, ids []uint64) ([]*T, error) {
	rows := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}
	err := db.WithContext(ctx).
		Where("id IN ? AND "+t.active+" = ?", ids, true).
		Find(&rows).Error
	return rows, err
}

func listActiveLatest[T any](ctx context.Context, db *gorm.DB, t entityTable, exclude []uint64, limit int) ([]*T, error) {
	var rows []*T
	q := db.WithContext(ctx).Where(t.active+" = ?", true)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	err := q.Order("updated_at DESC, id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// trendingSince 只取聚合列，实体由调用方再查
func trendingSince(ctx context.Context, db *gorm.DB, t entityTable, since time.Time, limit int) ([]TrendingRow, error) {
	var rows []TrendingRow
	err := db.WithContext(ctx).
		Table("view_events AS v").
		Select("v.entity_id AS entity_id, COUNT(*) AS view_count").
		Joins("JOIN "+t.table+" AS e ON e.id = v.entity_id").
		Where("v.entity_type = ? AND v.viewed_at >= ? AND e."+t.active+" = ?", t.kind, since, true).
		Group("v.entity_id, e.updated_at").
		Order("view_count DESC, e.updated_at DESC, v.entity_id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func countActive(ctx context.Context, db *gorm.DB, t entityTable) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Table(t.table).Where(t.active+" = ?", true).Count(&n).Error
	return n, err
}

func updateViewsCount(ctx context.Context, db *gorm.DB, t entityTable, id uint64, count int64) error {
	return db.WithContext(ctx).Table(t.table).
		Where("id = ?", id).
		UpdateColumn("views_count", count).Error
}

// deleteCascade 同一事务删除实体及其浏览记录、最近浏览
func deleteCascade(ctx context.Context, db *gorm.DB, t entityTable, entity any, id uint64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity_type = ? AND entity_id = ?", t.kind, id).Delete(&model.ViewEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", t.kind, id).Delete(&model.RecentView{}).Error; err != nil {
			return err
		}
		res := tx.Delete(entity, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
