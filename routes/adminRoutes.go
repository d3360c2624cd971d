package routes

import (
	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine, c *controllers.Controller) {
	server.POST("/api/admin/auth/login", c.LoginLimiter.ByClientIP(), c.AdminLogin)

	admin := server.Group("/api/admin/auth")
	admin.Use(middlewares.RequireAdmin(c.Tokens, c.DB))
	{
		admin.GET("/profile", c.GetAdminProfile)
		admin.POST("/admins", c.CreateAdmin)
		admin.GET("/stats", c.GetStats)

		admin.GET("/sellers", c.GetSellers)
		admin.POST("/sellers", c.CreateSeller)
		admin.POST("/sellers/bulk-delete", c.BulkDeleteSellers)
		admin.GET("/sellers/:id", c.GetSeller)
		admin.PUT("/sellers/:id", c.UpdateSeller)
		admin.PATCH("/sellers/:id/status", c.UpdateSellerStatus)
		admin.DELETE("/sellers/:id", c.DeleteSeller)

		admin.GET("/users", c.GetUsers)
		admin.POST("/users/bulk-delete", c.BulkDeleteUsers)
		admin.GET("/users/:id", c.GetUser)
		admin.DELETE("/users/:id", c.DeleteUser)

		admin.GET("/products", c.GetAllProducts)
		admin.POST("/products/bulk-delete", c.BulkDeleteProducts)
		admin.GET("/products/:id", c.GetProductByID)
		admin.PUT("/products/:id", c.UpdateProduct)
		admin.PATCH("/products/:id/status", c.UpdateProductStatus)
		admin.DELETE("/products/:id", c.DeleteProduct)

		admin.GET("/orders", c.GetAllOrders)
		admin.GET("/orders/:id", c.GetOrder)
		admin.PUT("/orders/:id/status", c.UpdateAdminOrderStatus)

		admin.GET("/categories", c.GetCategories)
		admin.POST("/categories", c.CreateCategory)
		admin.PUT("/categories/:id", c.UpdateCategory)
		admin.DELETE("/categories/:id", c.DeleteCategory)

		admin.GET("/ads", c.GetAds)
		admin.POST("/ads/:slot", c.AddAd)
		admin.PUT("/ads/:slot/:index", c.ReplaceAd)
		admin.PATCH("/ads/:slot/:index/toggle", c.ToggleAd)
		admin.DELETE("/ads/:slot/:index", c.DeleteAd)

		admin.GET("/combo-offers", c.GetComboOffers)
		admin.POST("/combo-offers", c.CreateComboOffer)
		admin.GET("/combo-offers/:id", c.GetComboOffer)
		admin.PUT("/combo-offers/:id", c.UpdateComboOffer)
		admin.DELETE("/combo-offers/:id", c.DeleteComboOffer)
		admin.POST("/combo-offers/:id/images", c.AddComboImages)
		admin.PUT("/combo-offers/:id/images/:index", c.ReplaceComboImage)
		admin.PATCH("/combo-offers/:id/images/:index/toggle", c.ToggleComboImage)
		admin.DELETE("/combo-offers/:id/images/:index", c.DeleteComboImage)

		admin.GET("/sponsored", c.GetSponsored)
		admin.POST("/sponsored/:productId", c.SponsorProduct)
		admin.DELETE("/sponsored/:productId", c.UnsponsorProduct)

		admin.GET("/layout", c.GetLayout)
		admin.PUT("/layout", c.UpdateLayout)
	}
}
