package service

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/repository"
	"context"
	log "log/slog"
)

type RecentViewService interface {
	ListRecentlyViewed(ctx context.Context, kind model.EntityType, viewerID uint64, clientIDs []uint64, limit int) []model.Trackable
}

type recentViewServiceImpl struct {
	recentRepo repository.RecentViewRepo
	resolver   EntityResolver
	capacity   int
}

func NewRecentViewService(recentRepo repository.RecentViewRepo, resolver EntityResolver, capacity int) RecentViewService {
	if capacity <= 0 {
		capacity = consts.DefaultRecencyCapacity
	}
	return &recentViewServiceImpl{
		recentRepo: recentRepo,
		resolver:   resolver,
		capacity:   capacity,
	}
}

// ListRecentlyViewed 登录用户的持久化记录在前，客户端缓存补充在后
func (s *recentViewServiceImpl) ListRecentlyViewed(ctx context.Context, kind model.EntityType, viewerID uint64, clientIDs []uint64, limit int) []model.Trackable {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	ids := make([]uint64, 0, s.capacity+len(clientIDs))
	if viewerID > 0 {
		durable, err := s.recentRepo.ListRecent(ctx, viewerID, kind, s.capacity)
		if err != nil {
			log.WarnContext(ctx, "list recent views failed", "viewer_id", viewerID, "entity_type", kind, "err", err)
		} else {
			ids = append(ids, durable...)
		}
	}
	ids = append(ids, clientIDs...)

	// 失效实体在还原时被丢弃，截断放在还原之后
	items := s.resolver.Resolve(ctx, kind, ids)
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
