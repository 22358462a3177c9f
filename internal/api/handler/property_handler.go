package handler

import (
	"Abode/internal/api/dto"
	"Abode/internal/pkg/response"
	"Abode/internal/service"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertySvc service.PropertyService
}

func NewPropertyHandler(propertySvc service.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		propertySvc: propertySvc,
	}
}

func (s *PropertyHandler) SearchProperties(c *gin.Context) {
	var req dto.PropertySearchDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := s.propertySvc.SearchProperties(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetProperty 房源详情，浏览由页面另行上报
func (s *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	property, err := s.propertySvc.GetProperty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, property)
}

func (s *PropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err := s.propertySvc.DeleteProperty(c.Request.Context(), c.GetUint64("user_id"), c.GetStringSlice("roles"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
