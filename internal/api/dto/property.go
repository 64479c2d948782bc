package dto

import "time"

// CreatePropertyReq 创建物业请求
type CreatePropertyReq struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Address   string  `json:"address" binding:"required,max=255"`
	City      string  `json:"city" binding:"omitempty,max=128"`
	ManagerID *uint64 `json:"managerId"`
}

// PropertyDTO 物业视图
type PropertyDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	OwnerID   uint64    `json:"ownerId"`
	ManagerID *uint64   `json:"managerId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
