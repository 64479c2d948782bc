package model

import "time"

// 平台角色
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWatcher = "watcher"
	RoleOwner   = "owner"
	RoleTenant  = "tenant"
	RoleVendor  = "vendor"
)

// Profile 用户资料表，消息发送者显示名的解析来源
type Profile struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email       string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName string    `gorm:"type:varchar(128);not null" json:"displayName"`
	Role        string    `gorm:"type:varchar(32);not null;default:'tenant'" json:"role"`
	Phone       string    `gorm:"type:varchar(32)" json:"phone"`
	AvatarURL   string    `gorm:"type:varchar(255)" json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Profile) TableName() string { return "profiles" }
