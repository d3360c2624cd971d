package controllers

import (
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func searchLike(ctx *gin.Context) string {
	q := strings.TrimSpace(ctx.Query("search"))
	if q == "" {
		return ""
	}
	return "%" + strings.ToLower(q) + "%"
}

// Sellers

func (c *Controller) GetSellers(ctx *gin.Context) {
	page, limit := paginationParams(ctx, 20)
	q := c.DB.Model(&models.Seller{})
	if like := searchLike(ctx); like != "" {
		q = q.Where("LOWER(name) LIKE ? OR LOWER(shop_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like, like)
	}
	if status := ctx.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var sellers []models.Seller
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&sellers).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Sellers fetched successfully", paginated("sellers", sellers, total, page, limit))
}

func (c *Controller) GetSeller(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var seller models.Seller
	if err := c.DB.First(&seller, id).Error; err != nil {
		respondWithError(ctx, err, "Seller")
		return
	}
	var productCount, orderCount int64
	if err := c.DB.Model(&models.Product{}).Where("seller_id = ?", id).Count(&productCount).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if err := c.DB.Model(&models.Order{}).Where("seller_id = ?", id).Count(&orderCount).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Seller fetched successfully", gin.H{
		"seller":       seller,
		"productCount": productCount,
		"orderCount":   orderCount,
	})
}

type createSellerRequest struct {
	sellerRegisterRequest
	Status string `json:"status" binding:"omitempty,oneof=pending enabled disabled"`
}

func (c *Controller) CreateSeller(ctx *gin.Context) {
	var req createSellerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	exists, err := c.sellerExists(req.Phone, req.Email, 0)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusConflict, msgSellerAlreadyExists)
		return
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	status := req.Status
	if status == "" {
		status = models.SellerEnabled
	}
	seller := models.Seller{
		Name:     req.Name,
		ShopName: req.ShopName,
		Phone:    req.Phone,
		Email:    strings.ToLower(req.Email),
		Password: hashed,
		Status:   status,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Pincode:  req.Pincode,
		GSTIN:    req.GSTIN,
	}
	if err := c.DB.Create(&seller).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Seller created successfully", seller)
}

func (c *Controller) UpdateSeller(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var in sellerProfileInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var seller models.Seller
	if err := c.DB.First(&seller, id).Error; err != nil {
		respondWithError(ctx, err, "Seller")
		return
	}
	if !c.saveSellerProfile(ctx, &seller, &in) {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Seller updated successfully", seller)
}

type sellerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateSellerStatus approves, disables or re-enables a seller, reindexes their products
// and tells them by mail.
func (c *Controller) UpdateSellerStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req sellerStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if !models.IsSellerStatus(req.Status) {
		sendValidationErrors(ctx, "Validation failed", []string{"status must be one of: pending enabled disabled"})
		return
	}
	var seller models.Seller
	if err := c.DB.First(&seller, id).Error; err != nil {
		respondWithError(ctx, err, "Seller")
		return
	}
	if err := c.DB.Model(&seller).UpdateColumn("status", req.Status).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	seller.Status = req.Status

	var products []models.Product
	if err := c.DB.Where("seller_id = ?", seller.ID).Find(&products).Error; err != nil {
		logrus.WithError(err).WithField("sellerId", seller.ID).Warn("failed to load products for reindexing")
	}
	for i := range products {
		c.indexProduct(ctx.Request.Context(), &products[i])
	}

	subject, body, err := utils.RenderSellerStatusEmail(&seller)
	if err == nil {
		err = c.Mail.SendEmail(ctx.Request.Context(), seller.Name, seller.Email, subject, body)
	}
	if err != nil {
		logrus.WithError(err).WithField("sellerId", seller.ID).Warn("failed to send seller status email")
	}
	logrus.WithFields(logrus.Fields{"sellerId": seller.ID, "status": seller.Status}).Info("seller status changed")
	sendJSONResponse(ctx, http.StatusOK, "Seller status updated", seller)
}

func (c *Controller) deleteSellers(ctx *gin.Context, ids []uint) (int64, error) {
	var productIDs []uint
	if err := c.DB.Model(&models.Product{}).Where("seller_id IN ?", ids).Pluck("id", &productIDs).Error; err != nil {
		return 0, err
	}
	var (
		publicIDs []string
		deleted   int64
	)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		publicIDs, deleted, err = services.DeleteSellers(tx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}
	c.deleteMedia(ctx.Request.Context(), publicIDs...)
	c.unindexProducts(ctx.Request.Context(), productIDs)
	return deleted, nil
}

func (c *Controller) DeleteSeller(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.deleteSellers(ctx, []uint{id})
	if err != nil {
		respondWithError(ctx, err, "Seller")
		return
	}
	if deleted == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Seller not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Seller deleted successfully", nil)
}

func (c *Controller) BulkDeleteSellers(ctx *gin.Context) {
	var req bulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	deleted, err := c.deleteSellers(ctx, req.IDs)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Sellers deleted successfully", gin.H{"deleted": deleted})
}

// Users

func (c *Controller) GetUsers(ctx *gin.Context) {
	page, limit := paginationParams(ctx, 20)
	q := c.DB.Model(&models.User{})
	if like := searchLike(ctx); like != "" {
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var users []models.User
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Users fetched successfully", paginated("users", users, total, page, limit))
}

func (c *Controller) GetUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var user models.User
	if err := c.DB.Preload("Addresses").First(&user, id).Error; err != nil {
		respondWithError(ctx, err, "User")
		return
	}
	var orders []models.Order
	if err := c.DB.Preload("Items").Where("user_id = ?", id).Order("created_at DESC").Find(&orders).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "User fetched successfully", gin.H{"user": user, "orders": orders})
}

func (c *Controller) deleteUsers(ids []uint) (int64, error) {
	var deleted int64
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = services.DeleteUsers(tx, ids)
		return err
	})
	return deleted, err
}

func (c *Controller) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	deleted, err := c.deleteUsers([]uint{id})
	if err != nil {
		respondWithError(ctx, err, "User")
		return
	}
	if deleted == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "User deleted successfully", nil)
}

func (c *Controller) BulkDeleteUsers(ctx *gin.Context) {
	var req bulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	deleted, err := c.deleteUsers(req.IDs)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Users deleted successfully", gin.H{"deleted": deleted})
}

func (c *Controller) GetStats(ctx *gin.Context) {
	stats, err := services.LoadAdminStats(c.DB)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Stats fetched successfully", stats)
}
