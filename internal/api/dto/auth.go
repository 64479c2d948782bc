package dto

// RegisterReq 注册请求
type RegisterReq struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=64"`
	DisplayName string `json:"displayName" binding:"required,max=128"`
	Role        string `json:"role" binding:"omitempty,oneof=admin manager watcher owner tenant vendor"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResp 登录响应
type LoginResp struct {
	Token   string      `json:"token"`
	Profile *ProfileDTO `json:"profile"`
}

// ProfileDTO 对外暴露的用户资料
type ProfileDTO struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	AvatarURL   string `json:"avatarUrl"`
}
