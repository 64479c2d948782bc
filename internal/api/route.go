package api

import (
	"Homeport/internal/api/middleware"
	"Homeport/internal/model"
	"Homeport/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", group.AuthHandler.Login)

			loggedGroup := authGroup.Group("")
			loggedGroup.Use(middleware.AuthMiddleware())
			{
				loggedGroup.POST("/logout", group.AuthHandler.Logout)
				loggedGroup.GET("/profile", group.AuthHandler.GetProfile)
			}
		}

		inboxGroup := apiGroup.Group("/inbox")
		inboxGroup.Use(middleware.AuthMiddleware())
		{
			inboxGroup.GET("/conversations", group.InboxHandler.ListConversations)
		}

		convGroup := apiGroup.Group("/conversations")
		convGroup.Use(middleware.AuthMiddleware())
		{
			convGroup.POST("", group.ConversationHandler.CreateConversation)
			convGroup.GET("/:conversation_id", group.ConversationHandler.GetConversation)
			convGroup.PUT("/:conversation_id/star", group.ConversationHandler.SetStarred)
			convGroup.PUT("/:conversation_id/archive", group.ConversationHandler.SetArchived)
			convGroup.POST("/:conversation_id/labels", group.ConversationHandler.AddLabel)
			convGroup.DELETE("/:conversation_id/labels", group.ConversationHandler.RemoveLabel)
			convGroup.POST("/:conversation_id/mute", group.ConversationHandler.ToggleMute)
			convGroup.POST("/:conversation_id/read", group.ConversationHandler.MarkRead)

			convGroup.GET("/:conversation_id/messages", group.MessageHandler.GetThread)
			convGroup.GET("/:conversation_id/messages/page", group.MessageHandler.GetThreadPage)
			convGroup.GET("/:conversation_id/drafts", group.MessageHandler.ListDrafts)
		}

		msgGroup := apiGroup.Group("/messages")
		msgGroup.Use(middleware.AuthMiddleware())
		{
			msgGroup.POST("", group.MessageHandler.SendMessage)
			msgGroup.GET("/:message_id", group.MessageHandler.GetMessage)
			msgGroup.PUT("/:message_id", group.MessageHandler.EditMessage)
			msgGroup.DELETE("/:message_id", group.MessageHandler.DeleteMessage)
			msgGroup.POST("/drafts", group.MessageHandler.SaveDraft)
			msgGroup.POST("/drafts/:message_id/send", group.MessageHandler.SendDraft)
		}

		noticeGroup := apiGroup.Group("/notices")
		noticeGroup.Use(middleware.AuthMiddleware())
		{
			noticeGroup.GET("", group.NoticeHandler.GetNoticeList)
			noticeGroup.GET("/unread/count", group.NoticeHandler.GetUnreadCount)
			noticeGroup.PUT("/:notice_id/read", group.NoticeHandler.MarkAsRead)
			noticeGroup.PUT("/read/all", group.NoticeHandler.MarkAllAsRead)
			noticeGroup.GET("/preferences", group.NoticeHandler.GetPreference)
			noticeGroup.PUT("/preferences", group.NoticeHandler.UpdatePreference)
		}

		propertyGroup := apiGroup.Group("/properties")
		propertyGroup.Use(middleware.AuthMiddleware())
		{
			propertyGroup.GET("", group.PropertyHandler.ListProperties)
			propertyGroup.GET("/:property_id", group.PropertyHandler.GetProperty)
			propertyGroup.GET("/:property_id/maintenance", group.MaintenanceHandler.ListByProperty)

			ownerGroup := propertyGroup.Group("")
			ownerGroup.Use(middleware.CheckRoles(model.RoleAdmin, model.RoleManager, model.RoleOwner))
			{
				ownerGroup.POST("", group.PropertyHandler.CreateProperty)
			}
		}

		maintenanceGroup := apiGroup.Group("/maintenance")
		maintenanceGroup.Use(middleware.AuthMiddleware())
		{
			maintenanceGroup.POST("", group.MaintenanceHandler.CreateRequest)
			maintenanceGroup.GET("/mine", group.MaintenanceHandler.ListMine)
			maintenanceGroup.GET("/:request_id", group.MaintenanceHandler.GetRequest)

			staffGroup := maintenanceGroup.Group("")
			staffGroup.Use(middleware.CheckRoles(model.RoleAdmin, model.RoleManager, model.RoleOwner, model.RoleVendor))
			{
				staffGroup.PUT("/:request_id/status", group.MaintenanceHandler.UpdateStatus)
			}
		}
	}

	return r
}
