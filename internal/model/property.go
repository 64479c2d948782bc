package model

import "time"

// Property 物业/房产表，会话可关联到具体物业
type Property struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255);not null" json:"address"`
	City      string    `gorm:"type:varchar(128)" json:"city"`
	OwnerID   uint64    `gorm:"index;not null" json:"ownerId"`
	ManagerID *uint64   `gorm:"index" json:"managerId"`
	Status    string    `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Property) TableName() string { return "properties" }
