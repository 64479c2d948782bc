package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService service.PropertyService
}

func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// CreateProperty 创建物业
func (s *PropertyHandler) CreateProperty(c *gin.Context) {
	var req dto.CreatePropertyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.propertyService.CreateProperty(c, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetProperty 物业详情
func (s *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, ok := pathID(c, "property_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.propertyService.GetProperty(c, viewerID, propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListProperties 名下与托管的物业
func (s *PropertyHandler) ListProperties(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	res, err := s.propertyService.ListProperties(c, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
