package handler

import (
	"Abode/internal/api/dto"
	"Abode/internal/pkg/response"
	"Abode/internal/service"
	"errors"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type ViewHandler struct {
	viewSvc  service.ViewService
	capacity int
}

func NewViewHandler(viewSvc service.ViewService, capacity int) *ViewHandler {
	return &ViewHandler{
		viewSvc:  viewSvc,
		capacity: capacity,
	}
}

// RecordView 页面渲染后上报一次浏览，失败不影响页面
func (s *ViewHandler) RecordView(c *gin.Context) {
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

	ctx := c.Request.Context()
	res := s.viewSvc.RecordView(ctx, kind, id, &service.RequestContext{
		ViewerID:  c.GetUint64("user_id"),
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	})
	if errors.Is(res.Err, service.ErrEntityNotFound) {
		response.Error(c, res.Err)
		return
	}

	// 事件已写入即更新会话缓存
	if res.EventID != 0 {
		if err := sessionCache(c, kind, s.capacity).Touch(ctx, id); err != nil {
			log.WarnContext(ctx, "touch session recency failed", "entity_type", kind, "entity_id", id, "err", err)
		}
	}

	out := dto.RecordViewDTO{
		Success:        res.Success,
		EventID:        res.EventID,
		RecencyUpdated: res.RecencyUpdated,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	response.Success(c, out)
}
