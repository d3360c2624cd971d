package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// productInput is accepted as JSON or as multipart form data with the images under
// "images". Absent fields leave the product unchanged on update.
type productInput struct {
	Name                    *string            `json:"name" form:"name" binding:"omitempty,min=1,max=200"`
	Description             *string            `json:"description" form:"description"`
	Brand                   *string            `json:"brand" form:"brand" binding:"omitempty,max=100"`
	CategoryID              *uint              `json:"categoryId" form:"categoryId"`
	Price                   *float64           `json:"price" form:"price"`
	Discount                *float64           `json:"discount" form:"discount"`
	DiscountPercentage      *float64           `json:"discountPercentage" form:"discountPercentage"`
	Stock                   *int               `json:"stock" form:"stock"`
	Sizes                   []string           `json:"sizes" form:"sizes"`
	Colors                  []string           `json:"colors" form:"colors"`
	Material                *string            `json:"material" form:"material"`
	Fit                     *string            `json:"fit" form:"fit"`
	Gender                  *string            `json:"gender" form:"gender"`
	Dimensions              *models.Dimensions `json:"dimensions" form:"-"`
	DimensionsJSON          string             `json:"-" form:"dimensions"`
	Returnable              *bool              `json:"returnable" form:"returnable"`
	ReturnDays              *int               `json:"returnDays" form:"returnDays" binding:"omitempty,min=0"`
	CODAvailable            *bool              `json:"codAvailable" form:"codAvailable"`
	OnlinePaymentPercentage *float64           `json:"onlinePaymentPercentage" form:"onlinePaymentPercentage"`
	Status                  *string            `json:"status" form:"status"`
	RemoveImages            []string           `json:"removeImages" form:"removeImages"`
}

// splitList accepts repeated values, a JSON array or a comma separated list.
func splitList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err == nil {
				out = append(out, splitList(arr)...)
				continue
			}
		}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func bindProductInput(ctx *gin.Context) (*productInput, error) {
	var in productInput
	if err := ctx.ShouldBind(&in); err != nil {
		return nil, err
	}
	if in.DimensionsJSON != "" && in.Dimensions == nil {
		var d models.Dimensions
		if err := json.Unmarshal([]byte(in.DimensionsJSON), &d); err != nil {
			return nil, &utils.UploadError{Message: "dimensions must be a JSON object"}
		}
		in.Dimensions = &d
	}
	in.Sizes = splitList(in.Sizes)
	in.Colors = splitList(in.Colors)
	in.RemoveImages = splitList(in.RemoveImages)
	return &in, nil
}

func (in *productInput) missingForCreate() []string {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name is required")
	}
	if in.CategoryID == nil || *in.CategoryID == 0 {
		missing = append(missing, "categoryId is required")
	}
	if in.Price == nil {
		missing = append(missing, "price is required")
	}
	if in.Stock == nil {
		missing = append(missing, "stock is required")
	}
	return missing
}

func (in *productInput) apply(p *models.Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = *in.DiscountPercentage
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = in.Sizes
	}
	if in.Colors != nil {
		p.Colors = in.Colors
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.Fit != nil {
		p.Fit = *in.Fit
	}
	if in.Gender != nil {
		p.Gender = strings.ToLower(*in.Gender)
	}
	if in.Dimensions != nil {
		p.Dimensions = *in.Dimensions
	}
	if in.Returnable != nil {
		p.Returnable = *in.Returnable
	}
	if in.ReturnDays != nil {
		p.ReturnDays = *in.ReturnDays
	}
	if in.CODAvailable != nil {
		p.CODAvailable = *in.CODAvailable
	}
	if in.OnlinePaymentPercentage != nil {
		p.OnlinePaymentPercentage = *in.OnlinePaymentPercentage
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}

// removeImages drops the images named by publicIDs and returns the ones removed.
func removeImages(p *models.Product, publicIDs []string) []string {
	if len(publicIDs) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(publicIDs))
	for _, id := range publicIDs {
		drop[id] = true
	}
	kept := make([]models.Image, 0, len(p.Images))
	var removed []string
	for _, img := range p.Images {
		if drop[img.PublicID] {
			removed = append(removed, img.PublicID)
			continue
		}
		kept = append(kept, img)
	}
	p.Images = kept
	return removed
}

// saveProductWithImages applies the input and uploaded images to p and saves it through
// the shared validation. Uploaded files are removed again when the save fails; images
// taken off the product are deleted from storage once it is saved.
func (c *Controller) saveProductWithImages(ctx *gin.Context, p *models.Product, in *productInput) error {
	in.apply(p)
	removed := removeImages(p, in.RemoveImages)

	files := formFiles(ctx, "images")
	if len(p.Images)+len(files) > utils.MaxProductImages {
		return &utils.UploadError{Message: "a product can have at most 5 images"}
	}
	uploaded, err := c.uploadImages(ctx, files, utils.MaxProductImages, maxProductImageSize, "products")
	if err != nil {
		return err
	}
	p.Images = append(p.Images, uploaded...)

	if err := services.SaveProduct(c.DB, p); err != nil {
		for _, img := range uploaded {
			c.deleteMedia(ctx.Request.Context(), img.PublicID)
		}
		return err
	}
	c.deleteMedia(ctx.Request.Context(), removed...)
	c.indexProduct(ctx.Request.Context(), p)
	return nil
}

// indexProduct keeps the search index in step with the database. Enabled products of
// enabled sellers are indexed, anything else is removed.
func (c *Controller) indexProduct(ctx context.Context, p *models.Product) {
	var visible int64
	if err := services.PublicProducts(c.DB).Where("products.id = ?", p.ID).Count(&visible).Error; err != nil {
		logrus.WithError(err).WithField("productId", p.ID).Warn("failed to check product visibility")
		return
	}
	var err error
	if visible > 0 {
		err = c.Search.Index(ctx, p)
	} else {
		err = c.Search.Remove(ctx, p.ID)
	}
	if err != nil && !errors.Is(err, utils.ErrSearchUnavailable) {
		logrus.WithError(err).WithField("productId", p.ID).Warn("failed to update search index")
	}
}

func (c *Controller) unindexProducts(ctx context.Context, ids []uint) {
	for _, id := range ids {
		if err := c.Search.Remove(ctx, id); err != nil && !errors.Is(err, utils.ErrSearchUnavailable) {
			logrus.WithError(err).WithField("productId", id).Warn("failed to remove product from search index")
		}
	}
}

// deleteProducts removes products with their dependants and afterwards their images
// and search documents.
func (c *Controller) deleteProducts(ctx *gin.Context, ids []uint) error {
	var publicIDs []string
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		publicIDs, err = services.DeleteProducts(tx, ids)
		return err
	})
	if err != nil {
		return err
	}
	c.deleteMedia(ctx.Request.Context(), publicIDs...)
	c.unindexProducts(ctx.Request.Context(), ids)
	return nil
}

// Seller handlers

func (c *Controller) sellerProducts(ctx *gin.Context) *gorm.DB {
	return c.DB.Model(&models.Product{}).Where("products.seller_id = ?", middlewares.PrincipalID(ctx))
}

func (c *Controller) GetSellerProducts(ctx *gin.Context) {
	filter := productFilterFromQuery(ctx, 20)
	filter.SellerID = 0
	products, total, err := services.ListProducts(c.sellerProducts(ctx), filter)
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

func (c *Controller) GetSellerProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var product models.Product
	if err := c.sellerProducts(ctx).Preload("Category").Where("products.id = ?", id).First(&product).Error; err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product fetched successfully", product)
}

func (c *Controller) CreateProduct(ctx *gin.Context) {
	in, err := bindProductInput(ctx)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if missing := in.missingForCreate(); len(missing) > 0 {
		sendValidationErrors(ctx, "Validation failed", missing)
		return
	}
	product := models.Product{SellerID: middlewares.PrincipalID(ctx), Status: models.ProductEnabled}
	if in.OnlinePaymentPercentage == nil && (in.CODAvailable == nil || !*in.CODAvailable) {
		product.OnlinePaymentPercentage = 100
	}
	if err := c.saveProductWithImages(ctx, &product, in); err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	logrus.WithFields(logrus.Fields{"productId": product.ID, "sellerId": product.SellerID}).Info("product created")
	sendJSONResponse(ctx, http.StatusCreated, "Product created successfully", product)
}

func (c *Controller) UpdateSellerProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	in, err := bindProductInput(ctx)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var product models.Product
	if err := c.sellerProducts(ctx).Where("products.id = ?", id).First(&product).Error; err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	if err := c.saveProductWithImages(ctx, &product, in); err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product updated successfully", product)
}

func (c *Controller) DeleteSellerProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var count int64
	if err := c.sellerProducts(ctx).Where("products.id = ?", id).Count(&count).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if count == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}
	if err := c.deleteProducts(ctx, []uint{id}); err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product deleted successfully", nil)
}

// Admin handlers

func (c *Controller) GetAllProducts(ctx *gin.Context) {
	filter := productFilterFromQuery(ctx, 20)
	products, total, err := services.ListProducts(c.DB.Model(&models.Product{}).Preload("Seller"), filter)
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

func (c *Controller) GetProductByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var product models.Product
	if err := c.DB.Preload("Category").Preload("Seller").First(&product, id).Error; err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	if err := services.MarkSponsored(c.DB, []*models.Product{&product}); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product fetched successfully", product)
}

func (c *Controller) UpdateProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	in, err := bindProductInput(ctx)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var product models.Product
	if err := c.DB.First(&product, id).Error; err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	if err := c.saveProductWithImages(ctx, &product, in); err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product updated successfully", product)
}

type productStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=enabled disabled"`
}

func (c *Controller) UpdateProductStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req productStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var product models.Product
	if err := c.DB.First(&product, id).Error; err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	if err := c.DB.Model(&product).UpdateColumn("status", req.Status).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	product.Status = req.Status
	c.indexProduct(ctx.Request.Context(), &product)
	sendJSONResponse(ctx, http.StatusOK, "Product status updated", product)
}

func (c *Controller) DeleteProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var count int64
	if err := c.DB.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if count == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}
	if err := c.deleteProducts(ctx, []uint{id}); err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product deleted successfully", nil)
}

func (c *Controller) BulkDeleteProducts(ctx *gin.Context) {
	var req bulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if err := c.deleteProducts(ctx, req.IDs); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Products deleted successfully", gin.H{"deleted": len(req.IDs)})
}
