package kafka

import "time"

// 通知事件类型
const (
	EventNewMessage  = "new_message"
	EventBroadcast   = "broadcast"
	EventMaintenance = "maintenance"
)

// NotifyEvent 发送路径投进通知主题的事件，
// 消费侧据此落通知盒子并按偏好外发
type NotifyEvent struct {
	Type           string    `json:"type"`
	RecipientID    uint64    `json:"recipientId"`
	SenderID       uint64    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	ConversationID uint64    `json:"conversationId"`
	MessageID      uint64    `json:"messageId"`
	Title          string    `json:"title"`
	Preview        string    `json:"preview"`
	EmailEnabled   bool      `json:"emailEnabled"`
	SMSEnabled     bool      `json:"smsEnabled"`
	PushEnabled    bool      `json:"pushEnabled"`
	OccurredAt     time.Time `json:"occurredAt"`
}
