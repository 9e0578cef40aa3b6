package api

import (
	"github.com/gin-gonic/gin"

	"swampy-server/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.POST("/chat", handler.Stream)
}
