package dto

import "time"

// CreateMaintenanceReq 创建工单请求，同时会开一条 maintenance 会话
type CreateMaintenanceReq struct {
	PropertyID  uint64 `json:"propertyId" binding:"required"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=4000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// UpdateMaintenanceStatusReq 工单状态流转
type UpdateMaintenanceStatusReq struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

// MaintenanceDTO 工单视图
type MaintenanceDTO struct {
	ID             uint64    `json:"id"`
	PropertyID     uint64    `json:"propertyId"`
	TenantID       uint64    `json:"tenantId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	ConversationID uint64    `json:"conversationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
