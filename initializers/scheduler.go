package initializers

import (
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StartCleanup schedules removal of expired staged checkouts and OTP codes every ten minutes.
func StartCleanup(db *gorm.DB) *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		PurgeExpired(db, time.Now())
	})
	c.Start()
	return c
}

func PurgeExpired(db *gorm.DB, now time.Time) {
	pending := db.Where("expires_at < ?", now).Delete(&models.PendingOrder{})
	if pending.Error != nil {
		logrus.WithError(pending.Error).Error("failed to purge pending orders")
	}
	otps := db.Where("expires_at < ?", now).Delete(&models.OTPCode{})
	if otps.Error != nil {
		logrus.WithError(otps.Error).Error("failed to purge otp codes")
	}
	if pending.RowsAffected > 0 || otps.RowsAffected > 0 {
		logrus.WithFields(logrus.Fields{
			"pendingOrders": pending.RowsAffected,
			"otpCodes":      otps.RowsAffected,
		}).Info("purged expired records")
	}
}
