package dto

import "time"

// SendMessageReq 发送消息请求
type SendMessageReq struct {
	ConversationID uint64          `json:"conversationId" binding:"required"`
	Content        string          `json:"content" binding:"required"`
	Subject        string          `json:"subject" binding:"omitempty,max=255"`
	Importance     string          `json:"importance" binding:"omitempty,oneof=normal high"`
	Attachments    []AttachmentDTO `json:"attachments" binding:"omitempty,dive"`
}

// EditMessageReq 编辑消息请求
type EditMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// SaveDraftReq 保存草稿。DraftID 为空时新建，非空时覆盖已有草稿。
type SaveDraftReq struct {
	ConversationID uint64          `json:"conversationId" binding:"required"`
	DraftID        uint64          `json:"draftId"`
	Content        string          `json:"content"`
	Subject        string          `json:"subject" binding:"omitempty,max=255"`
	Importance     string          `json:"importance" binding:"omitempty,oneof=normal high"`
	Attachments    []AttachmentDTO `json:"attachments" binding:"omitempty,dive"`
}

// ThreadPageQuery 线程分页查询，page 从 0 开始
type ThreadPageQuery struct {
	Page int `form:"page" binding:"omitempty,min=0"`
}

// MessageDTO 消息视图。ID 用字符串承载：
// 已落库的消息是十进制数字，乐观插入的临时消息是 tmp- 前缀。
type MessageDTO struct {
	ID             string          `json:"id"`
	ConversationID uint64          `json:"conversationId"`
	SenderID       uint64          `json:"senderId"`
	SenderName     string          `json:"senderName"`
	Content        string          `json:"content"`
	Subject        string          `json:"subject,omitempty"`
	Importance     string          `json:"importance"`
	Attachments    []AttachmentDTO `json:"attachments"`
	IsDraft        bool            `json:"isDraft"`
	Pending        bool            `json:"pending"`
	Deleted        bool            `json:"deleted"`
	EditedAt       *time.Time      `json:"editedAt"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ThreadResp 线程响应，消息按时间正序
type ThreadResp struct {
	ConversationID uint64        `json:"conversationId"`
	Messages       []*MessageDTO `json:"messages"`
}

// ThreadPageResp 倒序分页响应
type ThreadPageResp struct {
	ConversationID uint64        `json:"conversationId"`
	Page           int           `json:"page"`
	PageSize       int           `json:"pageSize"`
	Messages       []*MessageDTO `json:"messages"`
	HasMore        bool          `json:"hasMore"`
}

// MarkReadResp 批量已读响应
type MarkReadResp struct {
	Marked int64 `json:"marked"`
}
