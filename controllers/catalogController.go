package controllers

import (
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const searchResultLimit = 50

func productFilterFromQuery(ctx *gin.Context, defaultLimit int) services.ProductFilter {
	page, limit := paginationParams(ctx, defaultLimit)
	return services.ProductFilter{
		Query:      strings.TrimSpace(ctx.Query("search")),
		CategoryID: queryUint(ctx, "category"),
		SellerID:   queryUint(ctx, "seller"),
		MinPrice:   queryFloat(ctx, "minPrice"),
		MaxPrice:   queryFloat(ctx, "maxPrice"),
		Size:       ctx.Query("size"),
		Color:      ctx.Query("color"),
		Gender:     ctx.Query("gender"),
		Status:     ctx.Query("status"),
		Sort:       ctx.Query("sort"),
		Page:       page,
		Limit:      limit,
	}
}

func (c *Controller) GetProducts(ctx *gin.Context) {
	filter := productFilterFromQuery(ctx, 20)
	filter.Status = ""

	products, total, err := services.ListProducts(services.PublicProducts(c.DB), filter)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if err := services.MarkSponsored(c.DB, services.Pointers(products)); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Products fetched successfully", paginated("products", products, total, filter.Page, filter.Limit))
}

func (c *Controller) GetProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	product, err := services.GetPublicProduct(c.DB, id)
	if err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	if user := middlewares.CurrentUser(ctx); user != nil {
		if err := services.RecordRecentView(c.DB, user.ID, product.ID); err != nil {
			logrus.WithError(err).WithField("userId", user.ID).Warn("failed to record recently viewed product")
		}
	}
	sendJSONResponse(ctx, http.StatusOK, "Product fetched successfully", product)
}

func (c *Controller) SearchProducts(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Search query is required")
		return
	}
	products, err := services.SearchProducts(ctx.Request.Context(), c.DB, c.Search, query, searchResultLimit)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if err := services.MarkSponsored(c.DB, services.Pointers(products)); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if user := middlewares.CurrentUser(ctx); user != nil {
		if err := services.RecordRecentSearch(c.DB, user.ID, query); err != nil {
			logrus.WithError(err).WithField("userId", user.ID).Warn("failed to record recent search")
		}
	}
	sendJSONResponse(ctx, http.StatusOK, "Search results", gin.H{"query": query, "products": products})
}

func (c *Controller) GetCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := c.DB.Order("name ASC").Find(&categories).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Categories fetched successfully", categories)
}

func (c *Controller) GetCategory(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var category models.Category
	if err := c.DB.First(&category, id).Error; err != nil {
		respondWithError(ctx, err, "Category")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Category fetched successfully", category)
}

func (c *Controller) GetPublicSeller(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	seller, products, err := services.GetPublicSeller(c.DB, id)
	if err != nil {
		respondWithError(ctx, err, "Seller")
		return
	}
	if err := services.MarkSponsored(c.DB, services.Pointers(products)); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Seller fetched successfully", gin.H{
		"seller": gin.H{
			"id":          seller.ID,
			"shopName":    seller.ShopName,
			"description": seller.Description,
			"city":        seller.City,
			"state":       seller.State,
			"logo":        seller.Logo,
		},
		"products": products,
	})
}

func (c *Controller) GetSponsoredProducts(ctx *gin.Context) {
	products, err := services.SponsoredProducts(c.DB)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Sponsored products fetched successfully", products)
}

// GetActiveComboOffers lists active, unexpired offers with only their enabled images.
func (c *Controller) GetActiveComboOffers(ctx *gin.Context) {
	var offers []models.ComboOffer
	err := c.DB.Preload("Products").
		Where("active = ? AND (valid_until IS NULL OR valid_until > ?)", true, c.now()).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	for i := range offers {
		offers[i].Images = models.ActiveImages(offers[i].Images)
	}
	sendJSONResponse(ctx, http.StatusOK, "Combo offers fetched successfully", offers)
}

func (c *Controller) loadLayout() (*models.Layout, error) {
	var layout models.Layout
	if err := c.DB.FirstOrCreate(&layout, models.Layout{Base: models.Base{ID: models.SingletonID}}).Error; err != nil {
		return nil, err
	}
	if layout.Components == nil {
		layout.Components = []models.LayoutComponent{}
	}
	return &layout, nil
}

func (c *Controller) GetLayout(ctx *gin.Context) {
	layout, err := c.loadLayout()
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Layout fetched successfully", layout)
}

func (c *Controller) loadSiteConfig() (*models.SiteConfig, error) {
	var site models.SiteConfig
	if err := c.DB.FirstOrCreate(&site, models.SiteConfig{Base: models.Base{ID: models.SingletonID}}).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// GetActiveAds serves the storefront: only enabled images, keyed by slot.
func (c *Controller) GetActiveAds(ctx *gin.Context) {
	site, err := c.loadSiteConfig()
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Ads fetched successfully", gin.H{
		"singleadd": models.ActiveImages(site.SingleAds),
		"doubleadd": models.ActiveImages(site.DoubleAds),
		"tripleadd": models.ActiveImages(site.TripleAds),
	})
}
