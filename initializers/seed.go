package initializers

import (
	"errors"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account when no admin exists yet.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Admin{Name: "Administrator", Email: email, Password: string(hashed), Role: models.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithField("email", email).Info("seeded first admin account")
	return nil
}

// EnsureSingletons creates the one-row configuration tables.
func EnsureSingletons(db *gorm.DB) error {
	var site models.SiteConfig
	err := db.First(&site, models.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		site.ID = models.SingletonID
		err = db.Create(&site).Error
	}
	if err != nil {
		return err
	}

	var layout models.Layout
	err = db.First(&layout, models.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		layout.ID = models.SingletonID
		err = db.Create(&layout).Error
	}
	return err
}
