package initializers

import (
	"github.com/Kariqs/marketplace-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.RecentSearch{}, &models.RecentView{},
		&models.Seller{}, &models.Admin{},
		&models.Category{}, &models.Product{},
		&models.CartItem{}, &models.WishlistItem{}, &models.SavedItem{},
		&models.Order{}, &models.OrderItem{}, &models.OrderStatusEvent{}, &models.PaymentClaim{},
		&models.ComboOffer{}, &models.SponsoredProduct{}, &models.Layout{}, &models.SiteConfig{},
		&models.OTPCode{}, &models.PendingOrder{},
	)
	if err != nil {
		return err
	}
	logrus.Info("Database synced successfully.")
	return nil
}
