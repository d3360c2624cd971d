package routes

import (
	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/metrics"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.GetHealth)
	server.GET("/metrics", gin.WrapH(metrics.Handler()))
}
