package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	msgService service.MessageService
}

func NewMessageHandler(msgService service.MessageService) *MessageHandler {
	return &MessageHandler{msgService: msgService}
}

// GetThread 线程全量视图
func (s *MessageHandler) GetThread(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.GetThread(c, viewerID, convID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetThreadPage 倒序分页
func (s *MessageHandler) GetThreadPage(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	var query dto.ThreadPageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.GetThreadPage(c, viewerID, convID, query.Page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendMessage 发送消息
func (s *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.SendMessage(c, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMessage 按 ID 取单条消息
func (s *MessageHandler) GetMessage(c *gin.Context) {
	msgID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.GetMessage(c, viewerID, msgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// EditMessage 编辑自己的消息
func (s *MessageHandler) EditMessage(c *gin.Context) {
	msgID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	var req dto.EditMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.msgService.EditMessage(c, viewerID, msgID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteMessage 软删除自己的消息
func (s *MessageHandler) DeleteMessage(c *gin.Context) {
	msgID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	if err := s.msgService.DeleteMessage(c, viewerID, msgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SaveDraft 保存草稿
func (s *MessageHandler) SaveDraft(c *gin.Context) {
	var req dto.SaveDraftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.SaveDraft(c, viewerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendDraft 草稿转正发送
func (s *MessageHandler) SendDraft(c *gin.Context) {
	draftID, ok := pathID(c, "message_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.SendDraft(c, viewerID, draftID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListDrafts 会话里自己的草稿
func (s *MessageHandler) ListDrafts(c *gin.Context) {
	convID, ok := pathID(c, "conversation_id")
	if !ok {
		return
	}
	viewerID := c.GetUint64("user_id")

	res, err := s.msgService.ListDrafts(c, viewerID, convID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
