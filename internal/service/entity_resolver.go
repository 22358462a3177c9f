package service

import (
	"Abode/internal/model"
	"Abode/internal/repository"
	"context"
	log "log/slog"
)

// EntityResolver 将 ID 列表还原为可展示的实体
type EntityResolver interface {
	Resolve(ctx context.Context, kind model.EntityType, ids []uint64) []model.Trackable
}

type entityResolverImpl struct {
	registry repository.EntityRegistry
}

func NewEntityResolver(registry repository.EntityRegistry) EntityResolver {
	return &entityResolverImpl{registry: registry}
}

// Resolve 按输入顺序返回活跃实体，重复与失效 ID 被丢弃，查询失败返回空
func (r *entityResolverImpl) Resolve(ctx context.Context, kind model.EntityType, ids []uint64) []model.Trackable {
	store, ok := r.registry.Get(kind)
	if !ok {
		return []model.Trackable{}
	}

	ordered := dedupIDs(ids)
	if len(ordered) == 0 {
		return []model.Trackable{}
	}

	rows, err := store.FindActiveByIDs(ctx, ordered)
	if err != nil {
		log.WarnContext(ctx, "resolve entities failed", "entity_type", kind, "count", len(ordered), "err", err)
		return []model.Trackable{}
	}

	byID := make(map[uint64]model.Trackable, len(rows))
	for _, row := range rows {
		byID[row.EntityID()] = row
	}

	res := make([]model.Trackable, 0, len(rows))
	for _, id := range ordered {
		if item, ok := byID[id]; ok {
			res = append(res, item)
		}
	}
	return res
}

// dedupIDs 保留首次出现的顺序，并丢弃 0
func dedupIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	res := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
