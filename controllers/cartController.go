package controllers

import (
	"net/http"

	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/gin-gonic/gin"
)

func cartSummary(items []models.CartItem) gin.H {
	var subtotal float64
	var count int
	for _, it := range items {
		count += it.Quantity
		if it.Product != nil {
			subtotal += it.Product.DiscountedPrice * float64(it.Quantity)
		}
	}
	return gin.H{
		"items":     items,
		"itemCount": count,
		"subtotal":  models.RoundMoney(subtotal),
	}
}

func (c *Controller) GetCart(ctx *gin.Context) {
	items, err := services.ListCart(c.DB, middlewares.PrincipalID(ctx))
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Cart fetched successfully", cartSummary(items))
}

// AddToCart sets the quantity of a cart line; posting the same product, size and color
// again overwrites the quantity.
func (c *Controller) AddToCart(ctx *gin.Context) {
	var req models.ItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	item, err := services.AddToCart(c.DB, middlewares.PrincipalID(ctx), req)
	if err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Cart updated successfully", item)
}

func (c *Controller) RemoveFromCart(ctx *gin.Context) {
	var key models.LineKey
	if err := ctx.ShouldBindJSON(&key); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if err := services.RemoveFromCart(c.DB, middlewares.PrincipalID(ctx), key); err != nil {
		respondWithError(ctx, err, "Cart item")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Item removed from cart", nil)
}

func (c *Controller) ClearCart(ctx *gin.Context) {
	if err := services.ClearCart(c.DB, middlewares.PrincipalID(ctx)); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Cart cleared", nil)
}

func (c *Controller) GetWishlist(ctx *gin.Context) {
	items, err := services.ListWishlist(c.DB, middlewares.PrincipalID(ctx))
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Wishlist fetched successfully", items)
}

func (c *Controller) ToggleWishlist(ctx *gin.Context) {
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}
	inWishlist, err := services.ToggleWishlist(c.DB, middlewares.PrincipalID(ctx), productID)
	if err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	message := "Product removed from wishlist"
	if inWishlist {
		message = "Product added to wishlist"
	}
	sendJSONResponse(ctx, http.StatusOK, message, gin.H{"productId": productID, "inWishlist": inWishlist})
}

func (c *Controller) GetSavedItems(ctx *gin.Context) {
	items, err := services.ListSaved(c.DB, middlewares.PrincipalID(ctx))
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Saved items fetched successfully", items)
}

func (c *Controller) SaveForLater(ctx *gin.Context) {
	var key models.LineKey
	if err := ctx.ShouldBindJSON(&key); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	saved, err := services.SaveForLater(c.DB, middlewares.PrincipalID(ctx), key)
	if err != nil {
		respondWithError(ctx, err, "Cart item")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Item saved for later", saved)
}

func (c *Controller) MoveSavedToCart(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	item, err := services.MoveToCart(c.DB, middlewares.PrincipalID(ctx), id)
	if err != nil {
		respondWithError(ctx, err, "Saved item")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Item moved to cart", item)
}

func (c *Controller) RemoveSavedItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := services.RemoveSaved(c.DB, middlewares.PrincipalID(ctx), id); err != nil {
		respondWithError(ctx, err, "Saved item")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Saved item removed", nil)
}
