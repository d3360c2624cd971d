package routes

import (
	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/gin-gonic/gin"
)

func SellerRoutes(server *gin.Engine, c *controllers.Controller) {
	public := server.Group("/api/seller/auth")
	{
		public.POST("/register", c.SellerRegister)
		public.POST("/login", c.LoginLimiter.ByClientIP(), c.SellerLogin)
	}

	auth := server.Group("/api/seller/auth")
	auth.Use(middlewares.RequireSeller(c.Tokens, c.DB))
	{
		auth.GET("/profile", c.GetSellerProfile)
		auth.PUT("/profile", c.UpdateSellerProfile)
		auth.GET("/revenue", c.GetSellerRevenue)

		auth.GET("/products", c.GetSellerProducts)
		auth.GET("/products/:id", c.GetSellerProduct)

		auth.GET("/orders", c.GetSellerOrders)
		auth.GET("/orders/:id", c.GetSellerOrder)
		auth.PUT("/orders/:id/status", c.UpdateSellerOrderStatus)
	}

	enabled := auth.Group("")
	enabled.Use(middlewares.RequireEnabledSeller())
	{
		enabled.POST("/products", c.CreateProduct)
		enabled.PUT("/products/:id", c.UpdateSellerProduct)
		enabled.DELETE("/products/:id", c.DeleteSellerProduct)
	}
}
