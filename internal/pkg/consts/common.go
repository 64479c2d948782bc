package consts

// 会话类型
const (
	ConversationDirect      = "direct"
	ConversationBroadcast   = "broadcast"
	ConversationMaintenance = "maintenance"
	ConversationProperty    = "property"
	ConversationTenant      = "tenant"
)

// 参与者角色
const (
	ParticipantAdmin  = "admin"
	ParticipantMember = "participant"
)

// 消息重要性
const (
	ImportanceNormal = "normal"
	ImportanceHigh   = "high"
)

// 收件箱过滤器
const (
	FilterInbox       = "inbox"
	FilterSent        = "sent"
	FilterStarred     = "starred"
	FilterArchived    = "archived"
	FilterDrafts      = "drafts"
	FilterMaintenance = "maintenance"
	FilterProperties  = "properties"
	FilterTenants     = "tenants"
)

// MuteLabel 静音复用标签行的字面量，没有独立的 mute 字段
const MuteLabel = "muted"

// UnknownUserName 资料无法解析时的占位显示名
const UnknownUserName = "Unknown User"

// ThreadPageSize 无限滚动分页的固定页大小
const ThreadPageSize = 50
