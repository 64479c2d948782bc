package model

import "time"

// ConversationLabel 查看者私有的会话标签。标签值 "muted" 复用为静音标记。
type ConversationLabel struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint64    `gorm:"uniqueIndex:idx_user_conv_label;not null" json:"userId"`
	ConversationID uint64    `gorm:"uniqueIndex:idx_user_conv_label;index;not null" json:"conversationId"`
	Label          string    `gorm:"uniqueIndex:idx_user_conv_label;type:varchar(64);not null" json:"label"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (ConversationLabel) TableName() string { return "conversation_labels" }
