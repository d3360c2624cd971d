package controllers

import (
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type categoryInput struct {
	Name        *string `json:"name" form:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" form:"description"`
}

func (c *Controller) categoryNameTaken(name string, exceptID uint) (bool, error) {
	var count int64
	err := c.DB.Model(&models.Category{}).
		Where("(LOWER(name) = ? OR slug = ?) AND id <> ?", strings.ToLower(name), models.Slugify(name), exceptID).
		Count(&count).Error
	return count > 0, err
}

// saveCategory applies the input and an optional "image" upload, replacing any previous
// image in media storage once the row is saved.
func (c *Controller) saveCategory(ctx *gin.Context, category *models.Category, in *categoryInput) bool {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		taken, err := c.categoryNameTaken(name, category.ID)
		if err != nil {
			respondWithError(ctx, err, "")
			return false
		}
		if taken {
			sendErrorResponse(ctx, http.StatusConflict, "A category with this name already exists")
			return false
		}
		category.Name = name
		category.Slug = models.Slugify(name)
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	img, err := c.uploadSingleImage(ctx, "image", maxCategoryImgSize, "categories")
	if err != nil {
		respondWithError(ctx, err, "")
		return false
	}
	previous := ""
	if img != nil {
		previous = category.ImagePublicID
		category.ImageURL = img.URL
		category.ImagePublicID = img.PublicID
	}
	if err := c.DB.Save(category).Error; err != nil {
		if img != nil {
			c.deleteMedia(ctx.Request.Context(), img.PublicID)
		}
		respondWithError(ctx, err, "")
		return false
	}
	c.deleteMedia(ctx.Request.Context(), previous)
	return true
}

func (c *Controller) CreateCategory(ctx *gin.Context) {
	var in categoryInput
	if err := ctx.ShouldBind(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || models.Slugify(*in.Name) == "" {
		sendValidationErrors(ctx, "Validation failed", []string{"name is required"})
		return
	}
	var category models.Category
	if !c.saveCategory(ctx, &category, &in) {
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Category created successfully", category)
}

func (c *Controller) UpdateCategory(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var in categoryInput
	if err := ctx.ShouldBind(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var category models.Category
	if err := c.DB.First(&category, id).Error; err != nil {
		respondWithError(ctx, err, "Category")
		return
	}
	if !c.saveCategory(ctx, &category, &in) {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory is refused while products still reference the category.
func (c *Controller) DeleteCategory(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var deleted *models.Category
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = services.DeleteCategory(tx, id)
		return err
	})
	if err != nil {
		respondWithError(ctx, err, "Category")
		return
	}
	c.deleteMedia(ctx.Request.Context(), deleted.ImagePublicID)
	sendJSONResponse(ctx, http.StatusOK, "Category deleted successfully", nil)
}
