package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Marketplace API. Enjoy seamless interaction with this API.

The following are the endpoint groups for this API:

PUBLIC
- GET "/api/categories", "/api/categories/:id" - Browse categories
- GET "/api/user/products", "/api/user/products/search?q=", "/api/user/products/:id" - Browse products
- GET "/api/user/sellers/:id" - Seller storefront
- GET "/api/user/sponsored", "/api/user/combo-offers", "/api/user/layout", "/api/user/ads" - Merchandising

USER
- POST "/api/user/auth/send-otp", "/api/user/auth/verify-otp" - Phone login
- "/api/user/auth/cart", "/wishlist", "/saved" - Cart, wishlist and saved for later
- "/api/user/auth/profile", "/addresses", "/recent-searches", "/recently-viewed" - Profile
- POST "/api/user/auth/create-order", "/verify-payment", "/place-order" - Checkout
- "/api/user/auth/orders" - Order history and cancellation

SELLER
- POST "/api/seller/auth/register", "/api/seller/auth/login" - Seller account
- "/api/seller/auth/profile", "/revenue", "/products", "/orders" - Seller dashboard

ADMIN
- POST "/api/admin/auth/login" - Admin login
- "/api/admin/auth/sellers", "/users", "/products", "/orders", "/categories" - Management
- "/api/admin/auth/ads", "/combo-offers", "/sponsored", "/layout", "/stats" - Merchandising and stats`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
