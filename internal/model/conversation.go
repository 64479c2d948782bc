package model

import "time"

// Conversation 会话主表
type Conversation struct {
	ID                   uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title                string     `gorm:"type:varchar(255)" json:"title"`
	Type                 string     `gorm:"type:varchar(32);not null;default:'direct';index" json:"type"` // direct/broadcast/maintenance/property/tenant
	PropertyID           *uint64    `gorm:"index" json:"propertyId"`
	MaintenanceRequestID *uint64    `gorm:"index" json:"maintenanceRequestId"`
	CreatedBy            uint64     `gorm:"not null;index" json:"createdBy"`
	Status               string     `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	Importance           string     `gorm:"type:varchar(16);not null;default:'normal'" json:"importance"`
	IsArchived           bool       `gorm:"not null;default:false" json:"isArchived"`
	IsStarred            bool       `gorm:"not null;default:false" json:"isStarred"`
	ThreadCount          uint64     `gorm:"not null;default:0" json:"threadCount"`         // 非删除消息数的冗余计数
	LastMessageAt        *time.Time `gorm:"index" json:"lastMessageAt"`                     // 无消息时为 NULL，排序时 NULL 沉底
	LastSenderName       string     `gorm:"type:varchar(128)" json:"lastSenderName"`        // 冗余的最后发送者显示名，标题搜索一并匹配
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationParticipant 会话参与者表。创建者随会话原子加入且角色为 admin。
type ConversationParticipant struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64     `gorm:"uniqueIndex:idx_conv_user;not null" json:"conversationId"`
	UserID         uint64     `gorm:"uniqueIndex:idx_conv_user;index;not null" json:"userId"`
	Role           string     `gorm:"type:varchar(32);not null;default:'participant'" json:"role"` // admin/participant
	JoinedAt       time.Time  `json:"joinedAt"`
	LeftAt         *time.Time `json:"leftAt"`
	LastReadAt     *time.Time `json:"lastReadAt"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }
