package api

import (
	"github.com/gin-gonic/gin"

	"swampy-server/internal/interfaces/httpserver/handlers"
)

func registerDeployRoutes(router gin.IRoutes, handler *handlers.DeployHandler) {
	router.POST("/deploy", handler.Deploy)
}
