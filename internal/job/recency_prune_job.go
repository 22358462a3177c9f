package job

import (
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/logger"
	"Abode/internal/pkg/redis"
	"Abode/internal/repository"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// RecencyPruneJob 清理超过保留期的最近浏览记录
type RecencyPruneJob struct {
	recentRepo repository.RecentViewRepo
	retention  time.Duration
	now        func() time.Time
}

func NewRecencyPruneJob(recentRepo repository.RecentViewRepo, retentionDays int) *RecencyPruneJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &RecencyPruneJob{
		recentRepo: recentRepo,
		retention:  time.Duration(retentionDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

func (s *RecencyPruneJob) Run() {
	ctx := logger.NewJobContext("recency-prune")

	lockID := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.RecencyPruneJobLock, lockID, 10*time.Minute, 1)
	if err != nil || !ok {
		log.InfoContext(ctx, "recency prune job skipped", "locked", !ok, "err", err)
		return
	}
	defer redis.UnLock(ctx, consts.RecencyPruneJobLock, lockID)

	cutoff := s.now().Add(-s.retention)
	n, err := s.recentRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		log.ErrorContext(ctx, "prune recent views error", "cutoff", cutoff, "err", err)
		return
	}
	log.InfoContext(ctx, "prune recent views success", "deleted", n, "cutoff", cutoff)
}
