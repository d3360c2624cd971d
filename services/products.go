package services

import (
	"errors"
	"fmt"

	"github.com/Kariqs/marketplace-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveProduct validates the product's pricing and options and writes it. It is the single
// write path for sellers and admins, for creates and updates.
func SaveProduct(db *gorm.DB, p *models.Product) error {
	if err := models.ValidateProductPricing(p.Pricing()); err != nil {
		return err
	}
	if p.Stock < 0 {
		return &models.PricingError{Problems: []string{"stock cannot be negative"}}
	}
	if p.Status != "" && p.Status != models.ProductEnabled && p.Status != models.ProductDisabled {
		return &models.PricingError{Problems: []string{fmt.Sprintf("unknown product status %q", p.Status)}}
	}
	var category models.Category
	err := db.Select("id").First(&category, p.CategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}
	return db.Omit(clause.Associations).Save(p).Error
}
