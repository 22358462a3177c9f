package repository

import (
	"Abode/internal/model"
	"Abode/internal/pkg/query"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var propertyTable = entityTable{kind: model.EntityProperty, table: "properties", active: "is_active"}

type PropertyRepo interface {
	EntityStore
	CreateProperty(ctx context.Context, property *model.Property) error
	GetProperty(ctx context.Context, id uint64) (*model.Property, error)
	SearchProperties(ctx context.Context, p query.Predicate, offset, limit int) ([]*model.Property, error)
}

type PropertyRepoImpl struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepo {
	return &PropertyRepoImpl{db: db}
}

func (s *PropertyRepoImpl) Kind() model.EntityType {
	return model.EntityProperty
}

func (s *PropertyRepoImpl) CreateProperty(ctx context.Context, property *model.Property) error {
	return s.db.WithContext(ctx).Create(property).Error
}

// GetProperty 不区分上下架，不存在返回 nil
func (s *PropertyRepoImpl) GetProperty(ctx context.Context, id uint64) (*model.Property, error) {
	var property model.Property
	err := s.db.WithContext(ctx).First(&property, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &property, nil
}

func (s *PropertyRepoImpl) FindByID(ctx context.Context, id uint64) (model.Trackable, error) {
	property, err := s.GetProperty(ctx, id)
	if err != nil || property == nil {
		return nil, err
	}
	return property, nil
}

func (s *PropertyRepoImpl) FindActiveByIDs(ctx context.Context, ids []uint64) ([]model.Trackable, error) {
	rows, err := findActiveByIDs[model.Property](ctx, s.db, propertyTable, ids)
	if err != nil {
		return nil, err
	}
	return toTrackables(rows), nil
}

func (s *PropertyRepoImpl) ListActiveLatest(ctx context.Context, excludeIDs []uint64, limit int) ([]model.Trackable, error) {
	rows, err := listActiveLatest[model.Property](ctx, s.db, propertyTable, excludeIDs, limit)
	if err != nil {
		return nil, err
	}
	return toTrackables(rows), nil
}

func (s *PropertyRepoImpl) TrendingSince(ctx context.Context, since time.Time, limit int) ([]TrendingRow, error) {
	return trendingSince(ctx, s.db, propertyTable, since, limit)
}

// FindSimilar 同细分类型，或同状态且同郡
func (s *PropertyRepoImpl) FindSimilar(ctx context.Context, anchor model.Trackable, limit int) ([]model.Trackable, error) {
	a, ok := anchor.(*model.Property)
	if !ok {
		return []model.Trackable{}, nil
	}

	similar := query.AnyOf(
		query.Eq("detail", a.Detail),
		query.All(query.Eq("status", a.Status), query.Eq("county", a.County)),
	)
	where, args, err := query.PropertySchema.ToSQL(similar)
	if err != nil {
		return nil, err
	}

	var rows []*model.Property
	err = s.db.WithContext(ctx).
		Where("is_active = ? AND id <> ?", true, a.ID).
		Where(where, args...).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTrackables(rows), nil
}

// SearchProperties 仅检索上架房源
func (s *PropertyRepoImpl) SearchProperties(ctx context.Context, p query.Predicate, offset, limit int) ([]*model.Property, error) {
	where, args, err := query.PropertySchema.ToSQL(p)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if where != "" {
		q = q.Where(where, args...)
	}

	var rows []*model.Property
	err = q.Order("updated_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, err
}

func (s *PropertyRepoImpl) CountActive(ctx context.Context) (int64, error) {
	return countActive(ctx, s.db, propertyTable)
}

func (s *PropertyRepoImpl) UpdateViewsCount(ctx context.Context, id uint64, count int64) error {
	return updateViewsCount(ctx, s.db, propertyTable, id, count)
}

func (s *PropertyRepoImpl) Delete(ctx context.Context, id uint64) error {
	return deleteCascade(ctx, s.db, propertyTable, &model.Property{}, id)
}
