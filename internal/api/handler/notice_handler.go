package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	noticeService     service.NoticeService
	preferenceService service.PreferenceService
}

func NewNoticeHandler(noticeService service.NoticeService, preferenceService service.PreferenceService) *NoticeHandler {
	return &NoticeHandler{
		noticeService:     noticeService,
		preferenceService: preferenceService,
	}
}

// GetNoticeList 通知盒子分页列表
func (s *NoticeHandler) GetNoticeList(c *gin.Context) {
	var query dto.NoticeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.noticeService.GetNoticeList(c, viewerID, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkAsRead 单条通知已读
func (s *NoticeHandler) MarkAsRead(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	if err := s.noticeService.MarkAsRead(c, viewerID, c.Param("notice_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllAsRead 全部通知已读
func (s *NoticeHandler) MarkAllAsRead(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	if err := s.noticeService.MarkAllAsRead(c, viewerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetUnreadCount 通知未读数角标
func (s *NoticeHandler) GetUnreadCount(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	count, err := s.noticeService.GetUnreadCount(c, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// GetPreference 通知偏好
func (s *NoticeHandler) GetPreference(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	res, err := s.preferenceService.GetPreference(c, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdatePreference 更新通知偏好
func (s *NoticeHandler) UpdatePreference(c *gin.Context) {
	var req dto.PreferenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.preferenceService.UpdatePreference(c, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
