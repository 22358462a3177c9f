package repository

import (
	"Abode/internal/model"
	"Abode/internal/pkg/query"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var postTable = entityTable{kind: model.EntityPost, table: "posts", active: "published"}

type PostRepo interface {
	EntityStore
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func (s *PostRepoImpl) Kind() model.EntityType {
	return model.EntityPost
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) FindByID(ctx context.Context, id uint64) (model.Trackable, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil || post == nil {
		return nil, err
	}
	return post, nil
}

func (s *PostRepoImpl) FindActiveByIDs(ctx context.Context, ids []uint64) ([]model.Trackable, error) {
	rows, err := findActiveByIDs[model.Post](ctx, s.db, postTable, ids)
	if err != nil {
		return nil, err
	}
	return toTrackables(rows), nil
}

func (s *PostRepoImpl) ListActiveLatest(ctx context.Context, excludeIDs []uint64, limit int) ([]model.Trackable, error) {
	rows, err := listActiveLatest[model.Post](ctx, s.db, postTable, excludeIDs, limit)
	if err != nil {
		return nil, err
	}
	return toTrackables(rows), nil
}

func (s *PostRepoImpl) TrendingSince(ctx context.Context, since time.Time, limit int) ([]TrendingRow, error) {
	return trendingSince(ctx, s.db, postTable, since, limit)
}

// FindSimilar 同分类的其他已发布文章
func (s *PostRepoImpl) FindSimilar(ctx context.Context, anchor model.Trackable, limit int) ([]model.Trackable, error) {
	a, ok := anchor.(*model.Post)
	if !ok {
		return []model.Trackable{}, nil
	}

	where, args, err := query.PostSchema.ToSQL(query.Eq("category", a.Category))
	if err != nil {
		return nil, err
	}

	var rows []*model.Post
	err = s.db.WithContext(ctx).
		Where("published = ? AND id <> ?", true, a.ID).
		Where(where, args...).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTrackables(rows), nil
}

func (s *PostRepoImpl) CountActive(ctx context.Context) (int64, error) {
	return countActive(ctx, s.db, postTable)
}

func (s *PostRepoImpl) UpdateViewsCount(ctx context.Context, id uint64, count int64) error {
	return updateViewsCount(ctx, s.db, postTable, id, count)
}

func (s *PostRepoImpl) Delete(ctx context.Context, id uint64) error {
	return deleteCascade(ctx, s.db, postTable, &model.Post{}, id)
}
