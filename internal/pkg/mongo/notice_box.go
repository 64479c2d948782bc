package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型
const (
	NoticeNewMessage  int8 = 1 // 会话新消息
	NoticeBroadcast   int8 = 2 // 广播公告
	NoticeMaintenance int8 = 3 // 维修工单动态
)

// NoticeModel 应用内通知模型
type NoticeModel struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID     uint64             `bson:"receiver_id" json:"receiverId"`          // 通知接收者ID
	SenderID       uint64             `bson:"sender_id" json:"senderId"`              // 动作发起者ID (系统通知可为0)
	Type           int8               `bson:"type" json:"type"`                       // 通知类型
	ConversationID uint64             `bson:"conversation_id" json:"conversationId"`  // 关联会话ID
	MessageID      uint64             `bson:"message_id,omitempty" json:"messageId"`  // 关联消息ID
	Content        string             `bson:"content" json:"content"`                 // 通知文案预览
	Payload        map[string]any     `bson:"payload,omitempty" json:"payload"`       // 额外元数据 (如会话标题快照)
	IsRead         bool               `bson:"is_read" json:"isRead"`                  // 是否已读
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`            // 创建时间
}
