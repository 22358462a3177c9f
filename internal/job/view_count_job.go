package job

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/logger"
	"Abode/internal/pkg/redis"
	"Abode/internal/pkg/util"
	"Abode/internal/repository"
	"context"
	log "log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const viewCountBatchSize = 500

// ViewCountJob 按脏集合重新统计实体浏览量并回写
type ViewCountJob struct {
	registry repository.EntityRegistry
	viewRepo repository.ViewEventRepo
}

func NewViewCountJob(registry repository.EntityRegistry, viewRepo repository.ViewEventRepo) *ViewCountJob {
	return &ViewCountJob{
		registry: registry,
		viewRepo: viewRepo,
	}
}

func (s *ViewCountJob) Run() {
	ctx := logger.NewJobContext("view-count")

	lockID := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.ViewCountJobLock, lockID, 5*time.Minute, 1)
	if err != nil {
		log.ErrorContext(ctx, "view count job lock error", "err", err)
		return
	}
	if !ok {
		log.InfoContext(ctx, "view count job is running elsewhere, skip")
		return
	}
	defer redis.UnLock(ctx, consts.ViewCountJobLock, lockID)

	for _, kind := range slices.Sorted(maps.Keys(s.registry)) {
		n, err := s.flush(ctx, kind)
		if err != nil {
			log.ErrorContext(ctx, "sync views count error", "entity_type", kind, "err", err)
			continue
		}
		if n > 0 {
			log.InfoContext(ctx, "sync views count success", "entity_type", kind, "count", n)
		}
	}
}

func (s *ViewCountJob) flush(ctx context.Context, kind model.EntityType) (int, error) {
	dirtyKey := kind.DirtyKey()
	if dirtyKey == "" {
		return 0, nil
	}
	processingKey := dirtyKey + ":processing"

	// 上次中断遗留的集合优先处理，避免被 rename 覆盖
	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		renamed, err := redis.Rename(ctx, dirtyKey, processingKey)
		if err != nil || !renamed {
			return 0, err
		}
		if members, err = redis.GetSet(ctx, processingKey); err != nil {
			return 0, err
		}
	}

	// 非法成员直接跳过
	ids := util.ParseIDList(strings.Join(members, ","))

	store := s.registry[kind]
	updated := 0
	for start := 0; start < len(ids); start += viewCountBatchSize {
		batch := ids[start:min(start+viewCountBatchSize, len(ids))]
		counts, err := s.viewRepo.CountByEntities(ctx, kind, batch)
		if err != nil {
			return updated, err
		}
		for _, id := range batch {
			if err = store.UpdateViewsCount(ctx, id, counts[id]); err != nil {
				log.ErrorContext(ctx, "update views count error", "entity_type", kind, "entity_id", id, "err", err)
				continue
			}
			updated++
		}
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete processing set error", "key", processingKey, "err", err)
	}
	return updated, nil
}
