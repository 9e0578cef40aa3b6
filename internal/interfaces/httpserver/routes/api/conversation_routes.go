package api

import (
	"github.com/gin-gonic/gin"

	"swampy-server/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRoutes, conversations *handlers.ConversationHandler, messages *handlers.MessageHandler) {
	router.GET("/conversations", conversations.List)
	router.POST("/conversations", conversations.Create)
	router.GET("/conversations/:id", conversations.Get)
	router.PUT("/conversations/:id", conversations.Update)
	router.DELETE("/conversations/:id", conversations.Delete)

	// Message routes nested under conversations, plus direct deletion
	router.POST("/conversations/:id/messages", messages.Append)
	router.DELETE("/messages/:id", messages.Delete)
}
