package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	convService service.ConversationService
}

func NewConversationHandler(convService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}

// CreateConversation 创建会话，首条消息一并提交
func (s *ConversationHandler) CreateConversation(c *gin.Context) {
	var req dto.CreateConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	viewerID := c.GetUint64("user_id")

	res, err := s.convService.CreateConversation(c, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetConversation 会话详情
func (s *ConversationHandler) GetConversation(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.convService.GetConversation(c, viewerID, convID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SetStarred 星标开关
func (s *ConversationHandler) SetStarred(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	var req dto.StarReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.convService.SetStarred(c, viewerID, convID, *req.Starred); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetArchived 归档开关
func (s *ConversationHandler) SetArchived(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	var req dto.ArchiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.convService.SetArchived(c, viewerID, convID, *req.Archived); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddLabel 给会话打标签
func (s *ConversationHandler) AddLabel(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	var req dto.LabelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.convService.AddLabel(c, viewerID, convID, req.Label); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveLabel 移除标签
func (s *ConversationHandler) RemoveLabel(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	var req dto.LabelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.convService.RemoveLabel(c, viewerID, convID, req.Label); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleMute 静音开关，返回切换后的状态
func (s *ConversationHandler) ToggleMute(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	muted, err := s.convService.ToggleMute(c, viewerID, convID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"muted": muted})
}

// MarkRead 整个会话批量已读
func (s *ConversationHandler) MarkRead(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.convService.MarkRead(c, viewerID, convID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
