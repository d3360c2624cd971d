package controllers

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
)

const (
	maxProductImageSize = 5 * utils.MB
	maxComboImageSize   = 5 * utils.MB
	maxAdImageSize      = 2 * utils.MB
	maxCategoryImgSize  = 2 * utils.MB
)

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/form-data")
}

// formFiles returns the files posted under field, or nil for non-multipart requests.
func formFiles(ctx *gin.Context, field string) []*multipart.FileHeader {
	if !isMultipart(ctx) {
		return nil
	}
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// uploadImages validates every file before uploading any of them. When one upload
// fails the ones already stored are deleted again.
func (c *Controller) uploadImages(ctx *gin.Context, files []*multipart.FileHeader, maxCount int, maxBytes int64, folder string) ([]models.Image, error) {
	if len(files) == 0 {
		return nil, nil
	}
	types, err := utils.ValidateImages(files, maxCount, maxBytes)
	if err != nil {
		return nil, err
	}

	images := make([]models.Image, 0, len(files))
	for i, fh := range files {
		img, err := c.uploadFile(ctx, fh, types[i], folder)
		if err != nil {
			for _, done := range images {
				c.deleteMedia(ctx.Request.Context(), done.PublicID)
			}
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (c *Controller) uploadFile(ctx *gin.Context, fh *multipart.FileHeader, contentType, folder string) (models.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Image{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	img, err := c.Media.Upload(ctx.Request.Context(), f, fh.Filename, contentType, folder)
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", fh.Filename, err)
	}
	return img, nil
}

// uploadSingleImage uploads the one file posted under field. It returns nil when the
// request carries no file.
func (c *Controller) uploadSingleImage(ctx *gin.Context, field string, maxBytes int64, folder string) (*models.Image, error) {
	files := formFiles(ctx, field)
	if len(files) == 0 {
		return nil, nil
	}
	images, err := c.uploadImages(ctx, files, 1, maxBytes, folder)
	if err != nil {
		return nil, err
	}
	return &images[0], nil
}
