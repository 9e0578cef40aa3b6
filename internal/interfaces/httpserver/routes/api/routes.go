package api

import (
	"github.com/gin-gonic/gin"

	"swampy-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates the /api route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the api route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all routes under the /api prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/api")
	registerChatRoutes(group, r.handlers.Chat)
	registerConversationRoutes(group, r.handlers.Conversation, r.handlers.Message)
	registerDeployRoutes(group, r.handlers.Deploy)
}
