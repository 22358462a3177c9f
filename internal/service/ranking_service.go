package service

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/metrics"
	"Abode/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"time"
)

type RankingService interface {
	GetTrending(ctx context.Context, kind model.EntityType, limit int) []model.Trackable
	GetRecommended(ctx context.Context, kind model.EntityType, anchorID uint64, limit int) []model.Trackable
}

type rankingServiceImpl struct {
	registry repository.EntityRegistry
	window   time.Duration
	now      func() time.Time
}

func NewRankingService(registry repository.EntityRegistry, windowDays int) RankingService {
	if windowDays <= 0 {
		windowDays = consts.DefaultTrendingWindow
	}
	return &rankingServiceImpl{
		registry: registry,
		window:   time.Duration(windowDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

// GetTrending 窗口期内浏览最多的活跃实体，不足部分以最近更新补齐
// 聚合失败时整体回落到最近更新列表，不返回错误
func (s *rankingServiceImpl) GetTrending(ctx context.Context, kind model.EntityType, limit int) []model.Trackable {
	store, ok := s.registry.Get(kind)
	if !ok || limit <= 0 {
		return []model.Trackable{}
	}

	selected, err := s.rankByViews(ctx, store, limit)
	if err != nil {
		log.WarnContext(ctx, "trending aggregation failed, fallback to latest", "entity_type", kind, "err", err)
		metrics.TrendingFallbacks.WithLabelValues(string(kind)).Inc()
		latest, err := store.ListActiveLatest(ctx, nil, limit)
		if err != nil {
			log.ErrorContext(ctx, "trending fallback failed", "entity_type", kind, "err", err)
			return []model.Trackable{}
		}
		return latest
	}

	if len(selected) >= limit {
		return selected[:limit]
	}

	exclude := make([]uint64, len(selected))
	for i, item := range selected {
		exclude[i] = item.EntityID()
	}
	backfill, err := store.ListActiveLatest(ctx, exclude, limit-len(selected))
	if err != nil {
		log.WarnContext(ctx, "trending backfill failed", "entity_type", kind, "err", err)
		return selected
	}
	return append(selected, backfill...)
}

func (s *rankingServiceImpl) rankByViews(ctx context.Context, store repository.EntityStore, limit int) ([]model.Trackable, error) {
	rows, err := store.TrendingSince(ctx, s.now().Add(-s.window), limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.Trackable{}, nil
	}

	counts := make(map[uint64]int64, len(rows))
	ids := make([]uint64, len(rows))
	for i, row := range rows {
		counts[row.EntityID] = row.ViewCount
		ids[i] = row.EntityID
	}

	entities, err := store.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 聚合与回表之间实体可能被更新，按同一排序键重新排一次
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if ca, cb := counts[a.EntityID()], counts[b.EntityID()]; ca != cb {
			return ca > cb
		}
		if ua, ub := a.LastUpdated(), b.LastUpdated(); !ua.Equal(ub) {
			return ua.After(ub)
		}
		return a.EntityID() > b.EntityID()
	})
	return entities, nil
}

// GetRecommended 与锚点相似的活跃实体，锚点不存在或查询失败时返回空
func (s *rankingServiceImpl) GetRecommended(ctx context.Context, kind model.EntityType, anchorID uint64, limit int) []model.Trackable {
	store, ok := s.registry.Get(kind)
	if !ok || anchorID == 0 {
		return []model.Trackable{}
	}
	if limit <= 0 {
		limit = consts.DefaultRecommendLimit
	}

	anchor, err := store.FindByID(ctx, anchorID)
	if err != nil {
		log.WarnContext(ctx, "recommend anchor lookup failed", "entity_type", kind, "anchor_id", anchorID, "err", err)
		return []model.Trackable{}
	}
	if anchor == nil {
		return []model.Trackable{}
	}

	similar, err := store.FindSimilar(ctx, anchor, limit)
	if err != nil {
		log.WarnContext(ctx, "recommend query failed", "entity_type", kind, "anchor_id", anchorID, "err", err)
		return []model.Trackable{}
	}

	res := make([]model.Trackable, 0, len(similar))
	for _, item := range similar {
		if item.EntityID() == anchorID || !item.Active() {
			continue
		}
		res = append(res, item)
		if len(res) == limit {
			break
		}
	}
	return res
}
