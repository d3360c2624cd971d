package services

import (
	"github.com/Kariqs/marketplace-api/models"
	"gorm.io/gorm"
)

// Foreign keys are not declared in the schema, so every delete of a parent row removes its
// dependants here. The returned public ids are media the caller should delete once the
// transaction has committed.

func deleteOrders(tx *gorm.DB, where string, args ...any) error {
	var ids []uint
	if err := tx.Model(&models.Order{}).Where(where, args...).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderStatusEvent{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Order{}).Error
}

// DeleteProducts removes products and every row pointing at them.
func DeleteProducts(tx *gorm.DB, ids []uint) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	var publicIDs []string
	for _, p := range products {
		for _, img := range p.Images {
			publicIDs = append(publicIDs, img.PublicID)
		}
	}

	for _, model := range []any{&models.CartItem{}, &models.WishlistItem{}, &models.SavedItem{}, &models.RecentView{}, &models.SponsoredProduct{}} {
		if err := tx.Where("product_id IN ?", ids).Delete(model).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Exec("DELETE FROM combo_offer_products WHERE product_id IN ?", ids).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Product{}).Error; err != nil {
		return nil, err
	}
	return publicIDs, nil
}

// DeleteSellers removes sellers with their products and orders.
func DeleteSellers(tx *gorm.DB, ids []uint) ([]string, int64, error) {
	var productIDs []uint
	if err := tx.Model(&models.Product{}).Where("seller_id IN ?", ids).Pluck("id", &productIDs).Error; err != nil {
		return nil, 0, err
	}
	publicIDs, err := DeleteProducts(tx, productIDs)
	if err != nil {
		return nil, 0, err
	}
	if err := deleteOrders(tx, "seller_id IN ?", ids); err != nil {
		return nil, 0, err
	}

	res := tx.Where("id IN ?", ids).Delete(&models.Seller{})
	return publicIDs, res.RowsAffected, res.Error
}

// DeleteUsers removes users with their orders and personal lists.
func DeleteUsers(tx *gorm.DB, ids []uint) (int64, error) {
	var affected []models.Order
	if err := tx.Select("DISTINCT seller_id").Where("user_id IN ?", ids).Find(&affected).Error; err != nil {
		return 0, err
	}
	if err := deleteOrders(tx, "user_id IN ?", ids); err != nil {
		return 0, err
	}
	for _, model := range []any{&models.CartItem{}, &models.WishlistItem{}, &models.SavedItem{}, &models.Address{}, &models.RecentSearch{}, &models.RecentView{}} {
		if err := tx.Where("user_id IN ?", ids).Delete(model).Error; err != nil {
			return 0, err
		}
	}
	res := tx.Where("id IN ?", ids).Delete(&models.User{})
	if res.Error != nil {
		return 0, res.Error
	}
	for _, o := range affected {
		if err := RecomputeSellerRevenue(tx, o.SellerID); err != nil {
			return 0, err
		}
	}
	return res.RowsAffected, nil
}

// DeleteCategory refuses while any product references the category.
func DeleteCategory(tx *gorm.DB, id uint) (*models.Category, error) {
	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		return nil, err
	}
	var refs int64
	if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
		return nil, err
	}
	if refs > 0 {
		return nil, ErrCategoryInUse
	}
	if err := tx.Delete(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
