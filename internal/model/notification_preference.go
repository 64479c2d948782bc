package model

import "time"

// NotificationPreference 按用户维度的通知偏好。
// 不做全局可变状态，发送路径按需加载并显式传参。
type NotificationPreference struct {
	UserID       uint64     `gorm:"primaryKey" json:"userId"`
	EmailEnabled bool       `gorm:"not null;default:true" json:"emailEnabled"`
	SMSEnabled   bool       `gorm:"not null;default:false" json:"smsEnabled"`
	PushEnabled  bool       `gorm:"not null;default:true" json:"pushEnabled"`
	MutedUntil   *time.Time `json:"mutedUntil"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (NotificationPreference) TableName() string { return "notification_preferences" }

// DefaultPreference 未设置过偏好的用户使用默认值
func DefaultPreference(userID uint64) *NotificationPreference {
	return &NotificationPreference{
		UserID:       userID,
		EmailEnabled: true,
		SMSEnabled:   false,
		PushEnabled:  true,
	}
}
