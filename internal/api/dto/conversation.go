package dto

// CreateConversationReq 创建会话请求，首条消息随会话一并提交。
// 标题可省略，点对点会话不强制命名。
type CreateConversationReq struct {
	Title                string          `json:"title" binding:"omitempty,max=255"`
	Type                 string          `json:"type" binding:"omitempty,oneof=direct broadcast maintenance property tenant"`
	Importance           string          `json:"importance" binding:"omitempty,oneof=normal high"`
	ParticipantIDs       []uint64        `json:"participantIds" binding:"required,min=1"`
	PropertyID           *uint64         `json:"propertyId"`
	MaintenanceRequestID *uint64         `json:"maintenanceRequestId"`
	Content              string          `json:"content" binding:"required"`
	Attachments          []AttachmentDTO `json:"attachments" binding:"omitempty,dive"`
}

// AttachmentDTO 消息附件
type AttachmentDTO struct {
	MimeType  string `json:"mimeType" binding:"omitempty,max=128"`
	ObjectKey string `json:"objectKey" binding:"required,max=255"`
	Name      string `json:"name" binding:"omitempty,max=255"`
	Size      int64  `json:"size" binding:"omitempty,min=0"`
	URL       string `json:"url,omitempty"`
}

// StarReq 星标开关
type StarReq struct {
	Starred *bool `json:"starred" binding:"required"`
}

// ArchiveReq 归档开关
type ArchiveReq struct {
	Archived *bool `json:"archived" binding:"required"`
}

// LabelReq 标签增删
type LabelReq struct {
	Label string `json:"label" binding:"required,max=64"`
}
