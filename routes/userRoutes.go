package routes

import (
	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/gin-gonic/gin"
)

func UserRoutes(server *gin.Engine, c *controllers.Controller) {
	public := server.Group("/api/user/auth")
	{
		public.POST("/send-otp", c.SendOTP)
		public.POST("/verify-otp", c.LoginLimiter.ByClientIP(), c.VerifyOTP)
	}

	auth := server.Group("/api/user/auth")
	auth.Use(middlewares.RequireUser(c.Tokens, c.DB))
	{
		auth.GET("/cart", c.GetCart)
		auth.POST("/cart", c.AddToCart)
		auth.DELETE("/cart", c.RemoveFromCart)
		auth.DELETE("/cart/clear", c.ClearCart)

		auth.GET("/wishlist", c.GetWishlist)
		auth.POST("/wishlist/:productId", c.ToggleWishlist)

		auth.GET("/saved", c.GetSavedItems)
		auth.POST("/saved", c.SaveForLater)
		auth.POST("/saved/:id/move-to-cart", c.MoveSavedToCart)
		auth.DELETE("/saved/:id", c.RemoveSavedItem)

		auth.GET("/profile", c.GetProfile)
		auth.PUT("/profile", c.UpdateProfile)
		auth.GET("/addresses", c.GetAddresses)
		auth.POST("/addresses", c.CreateAddress)
		auth.PUT("/addresses/:id", c.UpdateAddress)
		auth.DELETE("/addresses/:id", c.DeleteAddress)
		auth.GET("/recent-searches", c.GetRecentSearches)
		auth.DELETE("/recent-searches", c.ClearRecentSearches)
		auth.GET("/recently-viewed", c.GetRecentlyViewed)

		auth.POST("/create-order", c.CreateOrder)
		auth.POST("/verify-payment", c.VerifyPayment)
		auth.POST("/place-order", c.PlaceOrder)
		auth.GET("/orders", c.GetUserOrders)
		auth.GET("/orders/:id", c.GetUserOrder)
		auth.POST("/orders/:id/cancel", c.CancelOrder)
	}
}
