package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// CreateRequest 提交维修工单
func (s *MaintenanceHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateMaintenanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.maintenanceService.CreateRequest(c, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetRequest 工单详情
func (s *MaintenanceHandler) GetRequest(c *gin.Context) {
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.maintenanceService.GetRequest(c, viewerID, requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListByProperty 物业下的工单
func (s *MaintenanceHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := pathID(c, "property_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.maintenanceService.ListByProperty(c, viewerID, propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListMine 自己提交的工单
func (s *MaintenanceHandler) ListMine(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	res, err := s.maintenanceService.ListMine(c, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateStatus 工单状态流转，仅管理侧角色可操作
func (s *MaintenanceHandler) UpdateStatus(c *gin.Context) {
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	var req dto.UpdateMaintenanceStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.maintenanceService.UpdateStatus(c, viewerID, requestID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
