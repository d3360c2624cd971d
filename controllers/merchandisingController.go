package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxComboImages = 5

var errImageRequired = &utils.UploadError{Message: "an image file is required under \"image\""}

// Ads

func (c *Controller) GetAds(ctx *gin.Context) {
	site, err := c.loadSiteConfig()
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Ads fetched successfully", site)
}

func adSlot(ctx *gin.Context) (string, bool) {
	slot := strings.ToLower(ctx.Param("slot"))
	if !models.IsAdSlot(slot) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Ad slot must be one of: single, double, triple")
		return "", false
	}
	return slot, true
}

// updateAds runs fn against the locked site configuration and saves the result. The
// returned public id, if any, is deleted from media storage after the commit.
func (c *Controller) updateAds(ctx *gin.Context, slot string, fn func(g *[]models.GalleryImage) (string, error)) (*models.SiteConfig, error) {
	var site models.SiteConfig
	var stale string
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			FirstOrCreate(&site, models.SiteConfig{Base: models.Base{ID: models.SingletonID}}).Error
		if err != nil {
			return err
		}
		gallery := site.Ads(slot)
		images := []models.GalleryImage(*gallery)
		stale, err = fn(&images)
		if err != nil {
			return err
		}
		*gallery = images
		return tx.Save(&site).Error
	})
	if err != nil {
		return nil, err
	}
	c.deleteMedia(ctx.Request.Context(), stale)
	return &site, nil
}

func (c *Controller) AddAd(ctx *gin.Context) {
	slot, ok := adSlot(ctx)
	if !ok {
		return
	}
	img, err := c.uploadSingleImage(ctx, "image", maxAdImageSize, "ads")
	if err == nil && img == nil {
		err = errImageRequired
	}
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	site, err := c.updateAds(ctx, slot, func(g *[]models.GalleryImage) (string, error) {
		*g = models.GalleryAdd(*g, *img)
		return "", nil
	})
	if err != nil {
		c.deleteMedia(ctx.Request.Context(), img.PublicID)
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Ad added successfully", site)
}

func (c *Controller) ReplaceAd(ctx *gin.Context) {
	slot, ok := adSlot(ctx)
	if !ok {
		return
	}
	index, ok := parseIndex(ctx)
	if !ok {
		return
	}
	img, err := c.uploadSingleImage(ctx, "image", maxAdImageSize, "ads")
	if err == nil && img == nil {
		err = errImageRequired
	}
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	site, err := c.updateAds(ctx, slot, func(g *[]models.GalleryImage) (string, error) {
		old, err := models.GalleryReplace(*g, index, *img)
		return old.PublicID, err
	})
	if err != nil {
		c.deleteMedia(ctx.Request.Context(), img.PublicID)
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Ad replaced successfully", site)
}

func (c *Controller) ToggleAd(ctx *gin.Context) {
	slot, ok := adSlot(ctx)
	if !ok {
		return
	}
	index, ok := parseIndex(ctx)
	if !ok {
		return
	}
	site, err := c.updateAds(ctx, slot, func(g *[]models.GalleryImage) (string, error) {
		_, err := models.GalleryToggle(*g, index)
		return "", err
	})
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Ad toggled successfully", site)
}

func (c *Controller) DeleteAd(ctx *gin.Context) {
	slot, ok := adSlot(ctx)
	if !ok {
		return
	}
	index, ok := parseIndex(ctx)
	if !ok {
		return
	}
	site, err := c.updateAds(ctx, slot, func(g *[]models.GalleryImage) (string, error) {
		remaining, removed, err := models.GalleryRemove(*g, index)
		*g = remaining
		return removed.PublicID, err
	})
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Ad deleted successfully", site)
}

// Combo offers

type comboInput struct {
	Name          *string  `json:"name" form:"name" binding:"omitempty,min=1,max=150"`
	Description   *string  `json:"description" form:"description"`
	ProductIDs    []uint   `json:"productIds" form:"productIds"`
	Price         *float64 `json:"price" form:"price" binding:"omitempty,gt=0"`
	OriginalPrice *float64 `json:"originalPrice" form:"originalPrice" binding:"omitempty,gte=0"`
	Active        *bool    `json:"active" form:"active"`
	ValidUntil    *string  `json:"validUntil" form:"validUntil"`
}

func parseValidUntil(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, &utils.UploadError{Message: "validUntil must be an RFC 3339 timestamp or a YYYY-MM-DD date"}
}

func (in *comboInput) apply(o *models.ComboOffer) error {
	if in.Name != nil {
		o.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		o.OriginalPrice = *in.OriginalPrice
	}
	if in.Active != nil {
		o.Active = *in.Active
	}
	if in.ValidUntil != nil {
		t, err := parseValidUntil(*in.ValidUntil)
		if err != nil {
			return err
		}
		o.ValidUntil = t
	}
	return nil
}

// saveCombo writes the offer and, when productIDs is non-nil, replaces its products.
func saveCombo(tx *gorm.DB, offer *models.ComboOffer, productIDs []uint) error {
	if err := tx.Omit(clause.Associations).Save(offer).Error; err != nil {
		return err
	}
	if productIDs == nil {
		return nil
	}
	var products []models.Product
	if len(productIDs) > 0 {
		if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return err
		}
		if len(products) != len(uniqueIDs(productIDs)) {
			return models.ErrProductUnavailable
		}
	}
	return tx.Model(offer).Association("Products").Replace(products)
}

func uniqueIDs(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (c *Controller) GetComboOffers(ctx *gin.Context) {
	var offers []models.ComboOffer
	if err := c.DB.Preload("Products").Order("created_at DESC").Find(&offers).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Combo offers fetched successfully", offers)
}

func (c *Controller) GetComboOffer(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var offer models.ComboOffer
	if err := c.DB.Preload("Products").First(&offer, id).Error; err != nil {
		respondWithError(ctx, err, "Combo offer")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Combo offer fetched successfully", offer)
}

func (c *Controller) CreateComboOffer(ctx *gin.Context) {
	var in comboInput
	if err := ctx.ShouldBind(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name is required")
	}
	if in.Price == nil {
		missing = append(missing, "price is required")
	}
	if len(missing) > 0 {
		sendValidationErrors(ctx, "Validation failed", missing)
		return
	}

	offer := models.ComboOffer{Active: true, Images: []models.GalleryImage{}}
	if err := in.apply(&offer); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	uploaded, err := c.uploadImages(ctx, formFiles(ctx, "images"), maxComboImages, maxComboImageSize, "combo-offers")
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	for _, img := range uploaded {
		offer.Images = models.GalleryAdd(offer.Images, img)
	}
	productIDs := in.ProductIDs
	if productIDs == nil {
		productIDs = []uint{}
	}
	if err := c.DB.Transaction(func(tx *gorm.DB) error { return saveCombo(tx, &offer, productIDs) }); err != nil {
		for _, img := range uploaded {
			c.deleteMedia(ctx.Request.Context(), img.PublicID)
		}
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Combo offer created successfully", offer)
}

func (c *Controller) UpdateComboOffer(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var in comboInput
	if err := ctx.ShouldBind(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var offer models.ComboOffer
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&offer, id).Error; err != nil {
			return err
		}
		if err := in.apply(&offer); err != nil {
			return err
		}
		return saveCombo(tx, &offer, in.ProductIDs)
	})
	if err != nil {
		respondWithError(ctx, err, "Combo offer")
		return
	}
	if err := c.DB.Preload("Products").First(&offer, id).Error; err != nil {
		respondWithError(ctx, err, "Combo offer")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Combo offer updated successfully", offer)
}

func (c *Controller) DeleteComboOffer(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var offer models.ComboOffer
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&offer, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&offer).Association("Products").Clear(); err != nil {
			return err
		}
		return tx.Delete(&offer).Error
	})
	if err != nil {
		respondWithError(ctx, err, "Combo offer")
		return
	}
	for _, img := range offer.Images {
		c.deleteMedia(ctx.Request.Context(), img.PublicID)
	}
	sendJSONResponse(ctx, http.StatusOK, "Combo offer deleted successfully", nil)
}

// updateComboImages locks the offer's gallery for fn like updateAds does for ads.
func (c *Controller) updateComboImages(ctx *gin.Context, id uint, fn func(g *[]models.GalleryImage) (string, error)) (*models.ComboOffer, error) {
	var offer models.ComboOffer
	var stale string
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&offer, id).Error; err != nil {
			return err
		}
		images := []models.GalleryImage(offer.Images)
		var err error
		stale, err = fn(&images)
		if err != nil {
			return err
		}
		offer.Images = images
		return tx.Model(&offer).UpdateColumn("images", offer.Images).Error
	})
	if err != nil {
		return nil, err
	}
	c.deleteMedia(ctx.Request.Context(), stale)
	return &offer, nil
}

func (c *Controller) AddComboImages(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	files := formFiles(ctx, "images")
	if len(files) == 0 {
		respondWithError(ctx, &utils.UploadError{Message: "at least one image is required under \"images\""}, "")
		return
	}
	uploaded, err := c.uploadImages(ctx, files, maxComboImages, maxComboImageSize, "combo-offers")
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	offer, err := c.updateComboImages(ctx, id, func(g *[]models.GalleryImage) (string, error) {
		if len(*g)+len(uploaded) > maxComboImages {
			return "", &utils.UploadError{Message: "a combo offer can have at most 5 images"}
		}
		for _, img := range uploaded {
			*g = models.GalleryAdd(*g, img)
		}
		return "", nil
	})
	if err != nil {
		for _, img := range uploaded {
			c.deleteMedia(ctx.Request.Context(), img.PublicID)
		}
		respondWithError(ctx, err, "Combo offer")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Images added successfully", offer)
}

func (c *Controller) ReplaceComboImage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(ctx)
	if !ok {
		return
	}
	img, err := c.uploadSingleImage(ctx, "image", maxComboImageSize, "combo-offers")
	if err == nil && img == nil {
		err = errImageRequired
	}
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	offer, err := c.updateComboImages(ctx, id, func(g *[]models.GalleryImage) (string, error) {
		old, err := models.GalleryReplace(*g, index, *img)
		return old.PublicID, err
	})
	if err != nil {
		c.deleteMedia(ctx.Request.Context(), img.PublicID)
		respondWithError(ctx, err, "Combo offer")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Image replaced successfully", offer)
}

func (c *Controller) ToggleComboImage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(ctx)
	if !ok {
		return
	}
	offer, err := c.updateComboImages(ctx, id, func(g *[]models.GalleryImage) (string, error) {
		_, err := models.GalleryToggle(*g, index)
		return "", err
	})
	if err != nil {
		respondWithError(ctx, err, "Combo offer")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Image toggled successfully", offer)
}

func (c *Controller) DeleteComboImage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(ctx)
	if !ok {
		return
	}
	offer, err := c.updateComboImages(ctx, id, func(g *[]models.GalleryImage) (string, error) {
		remaining, removed, err := models.GalleryRemove(*g, index)
		*g = remaining
		return removed.PublicID, err
	})
	if err != nil {
		respondWithError(ctx, err, "Combo offer")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Image deleted successfully", offer)
}

// Sponsored products

func (c *Controller) GetSponsored(ctx *gin.Context) {
	var sponsored []models.SponsoredProduct
	if err := c.DB.Preload("Product").Order("position ASC").Order("id ASC").Find(&sponsored).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Sponsored products fetched successfully", sponsored)
}

type sponsorRequest struct {
	Position *int `json:"position" binding:"omitempty,min=0"`
}

// SponsorProduct marks a product as sponsored, or moves it when it already is.
func (c *Controller) SponsorProduct(ctx *gin.Context) {
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}
	var req sponsorRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			respondWithError(ctx, err, "")
			return
		}
	}
	var product models.Product
	if err := c.DB.Select("id").First(&product, productID).Error; err != nil {
		respondWithError(ctx, err, "Product")
		return
	}

	entry := models.SponsoredProduct{ProductID: productID}
	if req.Position != nil {
		entry.Position = *req.Position
	} else {
		var last struct{ Max int }
		if err := c.DB.Model(&models.SponsoredProduct{}).Select("COALESCE(MAX(position), -1) + 1 AS max").Scan(&last).Error; err != nil {
			respondWithError(ctx, err, "")
			return
		}
		entry.Position = last.Max
	}
	err := c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product sponsored", gin.H{"productId": productID, "position": entry.Position, "isSponsored": true})
}

func (c *Controller) UnsponsorProduct(ctx *gin.Context) {
	productID, ok := parseID(ctx, "productId")
	if !ok {
		return
	}
	res := c.DB.Where("product_id = ?", productID).Delete(&models.SponsoredProduct{})
	if res.Error != nil {
		respondWithError(ctx, res.Error, "")
		return
	}
	if res.RowsAffected == 0 {
		respondWithError(ctx, gorm.ErrRecordNotFound, "Sponsored product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product is no longer sponsored", gin.H{"productId": productID, "isSponsored": false})
}

// Layout

type layoutRequest struct {
	Components []models.LayoutComponent `json:"components" binding:"required"`
}

func (c *Controller) UpdateLayout(ctx *gin.Context) {
	var req layoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if err := models.ValidateLayout(req.Components); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	layout, err := c.loadLayout()
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	layout.Components = req.Components
	if err := c.DB.Save(layout).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Layout updated successfully", layout)
}
