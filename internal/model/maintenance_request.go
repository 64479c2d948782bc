package model

import "time"

// 工单状态
const (
	MaintenanceOpen       = "open"
	MaintenanceInProgress = "in_progress"
	MaintenanceResolved   = "resolved"
	MaintenanceClosed     = "closed"
)

// MaintenanceRequest 维修工单表，maintenance 类型会话挂在工单下
type MaintenanceRequest struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID  uint64    `gorm:"index;not null" json:"propertyId"`
	TenantID    uint64    `gorm:"index;not null" json:"tenantId"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Priority    string    `gorm:"type:varchar(16);not null;default:'normal'" json:"priority"`
	Status      string    `gorm:"type:varchar(32);not null;default:'open';index" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (MaintenanceRequest) TableName() string { return "maintenance_requests" }
