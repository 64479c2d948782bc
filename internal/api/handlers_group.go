package api

import "Homeport/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler         *handler.AuthHandler
	InboxHandler        *handler.InboxHandler
	ConversationHandler *handler.ConversationHandler
	MessageHandler      *handler.MessageHandler
	NoticeHandler       *handler.NoticeHandler
	PropertyHandler     *handler.PropertyHandler
	MaintenanceHandler  *handler.MaintenanceHandler
}
