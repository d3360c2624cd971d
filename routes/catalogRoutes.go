package routes

import (
	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/gin-gonic/gin"
)

// CatalogRoutes registers the public storefront. A user token is optional and only
// used to record recently viewed products and recent searches.
func CatalogRoutes(server *gin.Engine, c *controllers.Controller) {
	server.GET("/api/categories", c.GetCategories)
	server.GET("/api/categories/:id", c.GetCategory)

	user := server.Group("/api/user")
	user.Use(middlewares.OptionalUser(c.Tokens, c.DB))
	{
		user.GET("/products", c.GetProducts)
		user.GET("/products/search", c.SearchProducts)
		user.GET("/products/:id", c.GetProduct)
		user.GET("/sellers/:id", c.GetPublicSeller)
		user.GET("/sponsored", c.GetSponsoredProducts)
		user.GET("/combo-offers", c.GetActiveComboOffers)
		user.GET("/layout", c.GetLayout)
		user.GET("/ads", c.GetActiveAds)
	}
}
