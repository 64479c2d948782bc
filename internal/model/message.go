package model

import (
	"time"

	"gorm.io/gorm"
)

// Attachment 消息附件元数据，对象内容存 MinIO
type Attachment struct {
	MimeType  string `json:"mimeType"`
	ObjectKey string `json:"objectKey"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
}

// Message 消息表。删除为软删除，deleted_at 置位后默认查询自动过滤，
// 按 ID 精确查询时用 Unscoped 仍可取回。
type Message struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64         `gorm:"index:idx_conv_created;not null" json:"conversationId"`
	SenderID       uint64         `gorm:"not null;index" json:"senderId"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Subject        string         `gorm:"type:varchar(255)" json:"subject"`
	MsgType        string         `gorm:"type:varchar(32);not null;default:'text'" json:"msgType"`
	Importance     string         `gorm:"type:varchar(16);not null;default:'normal'" json:"importance"` // normal/high
	Attachments    []Attachment   `gorm:"serializer:json" json:"attachments"`
	ReplyToID      *uint64        `json:"replyToId"`
	IsDraft        bool           `gorm:"not null;default:false;index" json:"isDraft"`
	EditedAt       *time.Time     `json:"editedAt"` // 编辑只盖时间戳，created_at 保持排序位置
	CreatedAt      time.Time      `gorm:"index:idx_conv_created" json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (Message) TableName() string { return "messages" }

// MessageDelivery 按接收者记录投递与已读状态，read_at 为 NULL 即未读。
// 发送者自己的投递行在创建时即预置为已读。
type MessageDelivery struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID      uint64     `gorm:"uniqueIndex:idx_msg_user;not null" json:"messageId"`
	UserID         uint64     `gorm:"uniqueIndex:idx_msg_user;index;not null" json:"userId"`
	ConversationID uint64     `gorm:"index;not null" json:"conversationId"` // 冗余会话 ID，按会话批量已读用
	DeliveredAt    time.Time  `json:"deliveredAt"`
	ReadAt         *time.Time `json:"readAt"`
}

func (MessageDelivery) TableName() string { return "message_deliveries" }
