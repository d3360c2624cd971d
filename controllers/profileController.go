package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (c *Controller) GetProfile(ctx *gin.Context) {
	var user models.User
	err := c.DB.Preload("Addresses", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_default DESC, id ASC")
	}).First(&user, middlewares.PrincipalID(ctx)).Error
	if err != nil {
		respondWithError(ctx, err, "User")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Profile fetched successfully", user)
}

type updateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth *string `json:"dateOfBirth"`
}

func (c *Controller) UpdateProfile(ctx *gin.Context) {
	var req updateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	user := middlewares.CurrentUser(ctx)
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				sendValidationErrors(ctx, "Validation failed", []string{"dateOfBirth must be formatted as YYYY-MM-DD"})
				return
			}
			user.DateOfBirth = &dob
		}
	}
	if err := c.DB.Omit(clause.Associations).Save(user).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Profile updated successfully", user)
}

type addressInput struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required,min=10,max=15"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	Landmark  string `json:"landmark"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required,numeric,len=6"`
	IsDefault bool   `json:"isDefault"`
}

func (in addressInput) apply(a *models.Address) {
	a.Name = in.Name
	a.Phone = in.Phone
	a.Line1 = in.Line1
	a.Line2 = in.Line2
	a.Landmark = in.Landmark
	a.City = in.City
	a.State = in.State
	a.Pincode = in.Pincode
	a.IsDefault = in.IsDefault
}

// saveAddress writes the address and keeps exactly one default per user: the first
// address is always the default, and a new default clears the previous one.
func saveAddress(tx *gorm.DB, address *models.Address) error {
	var others int64
	if err := tx.Model(&models.Address{}).Where("user_id = ? AND id <> ?", address.UserID, address.ID).Count(&others).Error; err != nil {
		return err
	}
	if others == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		err := tx.Model(&models.Address{}).
			Where("user_id = ? AND id <> ?", address.UserID, address.ID).
			Update("is_default", false).Error
		if err != nil {
			return err
		}
	}
	return tx.Save(address).Error
}

func (c *Controller) GetAddresses(ctx *gin.Context) {
	var addresses []models.Address
	err := c.DB.Where("user_id = ?", middlewares.PrincipalID(ctx)).Order("is_default DESC, id ASC").Find(&addresses).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Addresses fetched successfully", addresses)
}

func (c *Controller) CreateAddress(ctx *gin.Context) {
	var in addressInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	address := models.Address{UserID: middlewares.PrincipalID(ctx)}
	in.apply(&address)
	if err := c.DB.Transaction(func(tx *gorm.DB) error { return saveAddress(tx, &address) }); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Address added successfully", address)
}

func (c *Controller) UpdateAddress(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var in addressInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var address models.Address
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, middlewares.PrincipalID(ctx)).First(&address).Error; err != nil {
			return err
		}
		wasDefault := address.IsDefault
		in.apply(&address)
		// The default can only move to another address, never disappear.
		if wasDefault && !address.IsDefault {
			address.IsDefault = true
		}
		return saveAddress(tx, &address)
	})
	if err != nil {
		respondWithError(ctx, err, "Address")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Address updated successfully", address)
}

func (c *Controller) DeleteAddress(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	userID := middlewares.PrincipalID(ctx)
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
			return err
		}
		if err := tx.Delete(&address).Error; err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}
		var next models.Address
		err := tx.Where("user_id = ?", userID).Order("id ASC").First(&next).Error
		if services.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
	if err != nil {
		respondWithError(ctx, err, "Address")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Address deleted successfully", nil)
}

func (c *Controller) GetRecentSearches(ctx *gin.Context) {
	var searches []models.RecentSearch
	err := c.DB.Where("user_id = ?", middlewares.PrincipalID(ctx)).Order("id DESC").Limit(models.MaxRecentSearches).Find(&searches).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Recent searches fetched successfully", searches)
}

func (c *Controller) ClearRecentSearches(ctx *gin.Context) {
	if err := c.DB.Where("user_id = ?", middlewares.PrincipalID(ctx)).Delete(&models.RecentSearch{}).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Recent searches cleared", nil)
}

// GetRecentlyViewed returns the user's recently viewed products that are still public.
func (c *Controller) GetRecentlyViewed(ctx *gin.Context) {
	var views []models.RecentView
	err := c.DB.Where("user_id = ?", middlewares.PrincipalID(ctx)).
		Order("updated_at DESC, id DESC").
		Limit(models.MaxRecentlyViewed).
		Find(&views).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	ids := make([]uint, len(views))
	for i, v := range views {
		ids[i] = v.ProductID
	}
	var products []models.Product
	if len(ids) > 0 {
		if err := services.PublicProducts(c.DB).Where("products.id IN ?", ids).Find(&products).Error; err != nil {
			respondWithError(ctx, err, "")
			return
		}
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	sendJSONResponse(ctx, http.StatusOK, "Recently viewed products fetched successfully", ordered)
}
