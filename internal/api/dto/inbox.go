package dto

import "time"

// InboxQuery 收件箱列表查询参数
type InboxQuery struct {
	Filter string `form:"filter" binding:"omitempty,oneof=inbox sent starred archived drafts maintenance properties tenants"`
	Search string `form:"search" binding:"omitempty,max=255"`
}

// ConversationSummaryDTO 收件箱里的一行会话
type ConversationSummaryDTO struct {
	ID                   uint64     `json:"id"`
	Title                string     `json:"title"`
	Type                 string     `json:"type"`
	Importance           string     `json:"importance"`
	PropertyID           *uint64    `json:"propertyId,omitempty"`
	MaintenanceRequestID *uint64    `json:"maintenanceRequestId,omitempty"`
	CreatedBy            uint64     `json:"createdBy"`
	ThreadCount          uint64     `json:"threadCount"`
	UnreadCount          int64      `json:"unreadCount"`
	LastMessagePreview   string     `json:"lastMessagePreview"`
	LastMessageAt        *time.Time `json:"lastMessageAt"`
	LastSenderName       string     `json:"lastSenderName"`
	IsStarred            bool       `json:"isStarred"`
	IsArchived           bool       `json:"isArchived"`
	IsMuted              bool       `json:"isMuted"`
	Labels               []string   `json:"labels"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// InboxResp 收件箱响应
type InboxResp struct {
	Conversations []*ConversationSummaryDTO `json:"conversations"`
	UnreadTotal   int64                     `json:"unreadTotal"`
}
