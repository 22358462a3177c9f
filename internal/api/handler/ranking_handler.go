package handler

import (
	"Abode/internal/api/dto"
	"Abode/internal/pkg/consts"
	"Abode/internal/pkg/response"
	"Abode/internal/pkg/util"
	"Abode/internal/service"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingSvc    service.RankingService
	recentSvc     service.RecentViewService
	resolver      service.EntityResolver
	trendingLimit int
	capacity      int
}

func NewRankingHandler(
	rankingSvc service.RankingService,
	recentSvc service.RecentViewService,
	resolver service.EntityResolver,
	trendingLimit int,
	capacity int,
) *RankingHandler {
	return &RankingHandler{
		rankingSvc:    rankingSvc,
		recentSvc:     recentSvc,
		resolver:      resolver,
		trendingLimit: trendingLimit,
		capacity:      capacity,
	}
}

func (s *RankingHandler) GetTrending(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		response.Error(c, service.ErrEntityKind)
		return
	}
	var req dto.ListLimitDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	limit := util.ClampLimit(req.Limit, s.trendingLimit, consts.MaxListLimit)
	items := s.rankingSvc.GetTrending(c.Request.Context(), kind, limit)
	response.Success(c, service.ToEntityDTOs(items))
}

func (s *RankingHandler) GetRecommended(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		response.Error(c, service.ErrEntityKind)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.ListLimitDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	limit := util.ClampLimit(req.Limit, consts.DefaultRecommendLimit, consts.MaxListLimit)
	items := s.rankingSvc.GetRecommended(c.Request.Context(), kind, id, limit)
	response.Success(c, service.ToEntityDTOs(items))
}

// GetRecentlyViewed 登录用户的持久化记录 + 会话缓存 + 客户端本地缓存 (ids 参数)
func (s *RankingHandler) GetRecentlyViewed(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		response.Error(c, service.ErrEntityKind)
		return
	}
	var req dto.ListLimitDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	clientIDs := sessionCache(c, kind, s.capacity).List(ctx)
	clientIDs = append(clientIDs, util.ParseIDList(c.Query("ids"))...)
	if len(clientIDs) > consts.MaxListLimit {
		clientIDs = clientIDs[:consts.MaxListLimit]
	}

	limit := util.ClampLimit(req.Limit, s.capacity, s.capacity)
	items := s.recentSvc.ListRecentlyViewed(ctx, kind, c.GetUint64("user_id"), clientIDs, limit)
	response.Success(c, service.ToEntityDTOs(items))
}

// Resolve 批量还原实体，输入顺序保留，失效 ID 被丢弃
func (s *RankingHandler) Resolve(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		response.Error(c, service.ErrEntityKind)
		return
	}
	var req dto.ResolveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items := s.resolver.Resolve(c.Request.Context(), kind, req.IDs)
	response.Success(c, service.ToEntityDTOs(items))
}
