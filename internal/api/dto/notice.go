package dto

import "time"

// NoticeQuery 通知盒子分页
type NoticeQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// NoticeDTO 通知盒子里的一条通知
type NoticeDTO struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	SenderID       uint64    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	SenderAvatar   string    `json:"senderAvatar"`
	ConversationID uint64    `json:"conversationId"`
	MessageID      uint64    `json:"messageId"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NoticeListResp 通知列表响应
type NoticeListResp struct {
	Notices     []*NoticeDTO `json:"notices"`
	UnreadCount int64        `json:"unreadCount"`
}

// PreferenceReq 通知偏好设置
type PreferenceReq struct {
	EmailEnabled *bool      `json:"emailEnabled" binding:"required"`
	SMSEnabled   *bool      `json:"smsEnabled" binding:"required"`
	PushEnabled  *bool      `json:"pushEnabled" binding:"required"`
	MutedUntil   *time.Time `json:"mutedUntil"`
}
