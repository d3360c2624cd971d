package services

import (
	"errors"
	"fmt"

	"github.com/Kariqs/marketplace-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func checkLine(p *models.Product, size, color string, quantity int) error {
	if quantity < 1 {
		return models.ErrInvalidQuantity
	}
	if !p.Offers(size, color) {
		return models.ErrInvalidVariant
	}
	if quantity > p.Stock {
		return fmt.Errorf("%w: only %d left", models.ErrInsufficientStock, p.Stock)
	}
	return nil
}

func upsertCartLine(tx *gorm.DB, userID uint, req models.ItemRequest) (*models.CartItem, error) {
	p, err := requirePublicProduct(tx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkLine(p, req.Size, req.Color, req.Quantity); err != nil {
		return nil, err
	}

	item := models.CartItem{UserID: userID, ProductID: req.ProductID, Size: req.Size, Color: req.Color, Quantity: req.Quantity}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size"}, {Name: "color"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	var saved models.CartItem
	err = tx.Preload("Product").
		Where("user_id = ? AND product_id = ? AND size = ? AND color = ?", userID, req.ProductID, req.Size, req.Color).
		First(&saved).Error
	return &saved, err
}

// AddToCart sets the quantity of the (product, size, color) line, creating it if needed.
// Stock is checked at request time only; nothing is reserved.
func AddToCart(db *gorm.DB, userID uint, req models.ItemRequest) (*models.CartItem, error) {
	var item *models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = upsertCartLine(tx, userID, req)
		return err
	})
	return item, err
}

func ListCart(db *gorm.DB, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Product").Where("user_id = ?", userID).Order("id ASC").Find(&items).Error
	return items, err
}

// RemoveFromCart deletes the line matching product, size and color exactly.
func RemoveFromCart(db *gorm.DB, userID uint, key models.LineKey) error {
	res := db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?", userID, key.ProductID, key.Size, key.Color).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func ClearCart(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// ToggleWishlist adds the product when absent and removes it when present. It reports
// whether the product is in the wishlist afterwards.
func ToggleWishlist(db *gorm.DB, userID, productID uint) (bool, error) {
	var inWishlist bool
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			inWishlist = false
			return nil
		}
		if _, err := requirePublicProduct(tx, productID); err != nil {
			return err
		}
		inWishlist = true
		return tx.Create(&models.WishlistItem{UserID: userID, ProductID: productID}).Error
	})
	return inWishlist, err
}

func ListWishlist(db *gorm.DB, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := db.Preload("Product").Where("user_id = ?", userID).Order("id DESC").Find(&items).Error
	return items, err
}

func ListSaved(db *gorm.DB, userID uint) ([]models.SavedItem, error) {
	var items []models.SavedItem
	err := db.Preload("Product").Where("user_id = ?", userID).Order("id DESC").Find(&items).Error
	return items, err
}

// SaveForLater moves a cart line to the saved list.
func SaveForLater(db *gorm.DB, userID uint, key models.LineKey) (*models.SavedItem, error) {
	var saved models.SavedItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var line models.CartItem
		err := tx.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?", userID, key.ProductID, key.Size, key.Color).
			First(&line).Error
		if err != nil {
			return err
		}
		saved = models.SavedItem{UserID: userID, ProductID: line.ProductID, Size: line.Size, Color: line.Color, Quantity: line.Quantity}
		if err := tx.Create(&saved).Error; err != nil {
			return err
		}
		return tx.Delete(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// MoveToCart puts a saved item back in the cart, revalidated against current stock.
func MoveToCart(db *gorm.DB, userID, savedID uint) (*models.CartItem, error) {
	var item *models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var saved models.SavedItem
		if err := tx.Where("id = ? AND user_id = ?", savedID, userID).First(&saved).Error; err != nil {
			return err
		}
		var err error
		item, err = upsertCartLine(tx, userID, models.ItemRequest{
			LineKey:  models.LineKey{ProductID: saved.ProductID, Size: saved.Size, Color: saved.Color},
			Quantity: saved.Quantity,
		})
		if err != nil {
			return err
		}
		return tx.Delete(&saved).Error
	})
	return item, err
}

func RemoveSaved(db *gorm.DB, userID, savedID uint) error {
	res := db.Where("id = ? AND user_id = ?", savedID, userID).Delete(&models.SavedItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
