package service

import (
	"Abode/internal/model"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/geo"
	"Abode/internal/pkg/metrics"
	"Abode/internal/pkg/useragent"
	"Abode/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// RequestContext 一次浏览请求携带的客户端信息
type RequestContext struct {
	ViewerID  uint64 // 0 表示匿名
	UserAgent string
	IP        string
}

// RecordResult 浏览记录结果，失败时 Err 非空
type RecordResult struct {
	Success        bool
	EventID        uint64
	RecencyUpdated bool
	Err            error
}

type ViewService interface {
	RecordView(ctx context.Context, kind model.EntityType, entityID uint64, req *RequestContext) *RecordResult
}

type viewServiceImpl struct {
	registry   repository.EntityRegistry
	viewRepo   repository.ViewEventRepo
	recentRepo repository.RecentViewRepo
	resolver   geo.LocationResolver
	geoTimeout time.Duration
	capacity   int
	now        func() time.Time
}

func NewViewService(
	registry repository.EntityRegistry,
	viewRepo repository.ViewEventRepo,
	recentRepo repository.RecentViewRepo,
	resolver geo.LocationResolver,
	geoTimeout time.Duration,
	capacity int,
) ViewService {
	if geoTimeout <= 0 {
		geoTimeout = consts.DefaultGeoTimeoutMillis * time.Millisecond
	}
	if capacity <= 0 {
		capacity = consts.DefaultRecencyCapacity
	}
	return &viewServiceImpl{
		registry:   registry,
		viewRepo:   viewRepo,
		recentRepo: recentRepo,
		resolver:   resolver,
		geoTimeout: geoTimeout,
		capacity:   capacity,
		now:        time.Now,
	}
}

// RecordView 记录一次浏览
// 实体不存在时不写入任何数据；浏览事件与最近浏览分别写入，后者失败不回滚前者
func (s *viewServiceImpl) RecordView(ctx context.Context, kind model.EntityType, entityID uint64, req *RequestContext) *RecordResult {
	if req == nil {
		req = &RequestContext{}
	}

	store, ok := s.registry.Get(kind)
	if !ok {
		return &RecordResult{Err: ErrEntityKind}
	}
	if entityID == 0 {
		return &RecordResult{Err: ErrEntityNotFound}
	}

	entity, err := store.FindByID(ctx, entityID)
	if err != nil {
		log.ErrorContext(ctx, "record view lookup failed", "entity_type", kind, "entity_id", entityID, "err", err)
		metrics.ViewRecordFailures.WithLabelValues(string(kind), "lookup").Inc()
		return &RecordResult{Err: UnExpectedError}
	}
	if entity == nil {
		return &RecordResult{Err: ErrEntityNotFound}
	}

	client := useragent.Parse(req.UserAgent)
	loc := s.locate(ctx, req.IP)
	viewedAt := s.now()

	event := &model.ViewEvent{
		EntityType: kind,
		EntityID:   entityID,
		DeviceType: client.DeviceType,
		Browser:    client.Browser,
		OS:         client.OS,
		Country:    loc.Country,
		City:       loc.City,
		ViewedAt:   viewedAt,
	}
	if req.ViewerID > 0 {
		viewerID := req.ViewerID
		event.ViewerID = &viewerID
	}

	if err = s.viewRepo.CreateViewEvent(ctx, event); err != nil {
		log.ErrorContext(ctx, "record view event failed", "entity_type", kind, "entity_id", entityID, "err", err)
		metrics.ViewRecordFailures.WithLabelValues(string(kind), "event").Inc()
		return &RecordResult{Err: UnExpectedError}
	}
	metrics.ViewsRecorded.WithLabelValues(string(kind)).Inc()

	res := &RecordResult{Success: true, EventID: event.ID}
	if req.ViewerID == 0 {
		return res
	}

	if err = s.touchRecent(ctx, req.ViewerID, kind, entityID, viewedAt); err != nil {
		log.ErrorContext(ctx, "record recent view failed",
			"viewer_id", req.ViewerID, "entity_type", kind, "entity_id", entityID, "err", err)
		metrics.ViewRecordFailures.WithLabelValues(string(kind), "recency").Inc()
		res.Success = false
		res.Err = UnExpectedError
		return res
	}
	res.RecencyUpdated = true
	return res
}

func (s *viewServiceImpl) touchRecent(ctx context.Context, viewerID uint64, kind model.EntityType, entityID uint64, viewedAt time.Time) error {
	if err := s.recentRepo.Upsert(ctx, viewerID, kind, entityID, viewedAt); err != nil {
		return err
	}
	return s.recentRepo.Trim(ctx, viewerID, kind, s.capacity)
}

func (s *viewServiceImpl) locate(ctx context.Context, ip string) geo.Location {
	if s.resolver == nil {
		return geo.Unknown()
	}
	loc := s.resolver.Resolve(ctx, ip, s.geoTimeout)
	if loc.Country == "" {
		loc.Country = model.UnknownValue
	}
	if loc.City == "" {
		loc.City = model.UnknownValue
	}
	return loc
}
