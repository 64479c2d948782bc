package handler

import (
	"Homeport/internal/api/dto"
	"Homeport/internal/pkg/response"
	"Homeport/internal/service"

	"github.com/gin-gonic/gin"
)

type InboxHandler struct {
	inboxService service.InboxService
}

func NewInboxHandler(inboxService service.InboxService) *InboxHandler {
	return &InboxHandler{inboxService: inboxService}
}

// ListConversations 收件箱列表，filter/search 走 query 参数
func (s *InboxHandler) ListConversations(c *gin.Context) {
	var query dto.InboxQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	viewerID := c.GetUint64("user_id")

	res, err := s.inboxService.ListConversations(c, viewerID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
