package services

import (
	"errors"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const otpDigits = 6

// IssueOTP creates a fresh code for phone, replacing any previous one, and returns it in
// clear text for delivery. Only the bcrypt hash is stored.
func IssueOTP(db *gorm.DB, phone string, ttl time.Duration, now time.Time) (string, error) {
	code, err := utils.GenerateOTP(otpDigits)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	row := models.OTPCode{Phone: phone, CodeHash: string(hash), ExpiresAt: now.Add(ttl)}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "attempts", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks code for phone. On success the code is consumed and the user is
// returned, created on first login.
func VerifyOTP(db *gorm.DB, phone, code string, now time.Time) (*models.User, bool, error) {
	var otp models.OTPCode
	err := db.Where("phone = ?", phone).First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrOTPInvalid
	}
	if err != nil {
		return nil, false, err
	}
	if now.After(otp.ExpiresAt) {
		if err := db.Delete(&otp).Error; err != nil {
			logrus.WithError(err).WithField("phone", phone).Warn("failed to delete expired otp")
		}
		return nil, false, ErrOTPExpired
	}

	// Each guess claims an attempt before the hash is compared, so concurrent guesses
	// cannot exceed MaxOTPAttempts.
	claim := db.Model(&models.OTPCode{}).
		Where("id = ? AND code_hash = ? AND attempts < ?", otp.ID, otp.CodeHash, models.MaxOTPAttempts).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if claim.Error != nil {
		return nil, false, claim.Error
	}
	if claim.RowsAffected != 1 {
		if otp.Attempts >= models.MaxOTPAttempts {
			return nil, false, ErrOTPAttemptsExceeded
		}
		var current models.OTPCode
		err := db.Where("phone = ?", phone).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && current.CodeHash != otp.CodeHash) {
			return nil, false, ErrOTPInvalid
		}
		if err != nil {
			return nil, false, err
		}
		return nil, false, ErrOTPAttemptsExceeded
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		return nil, false, ErrOTPInvalid
	}

	var user models.User
	created := false
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND code_hash = ?", otp.ID, otp.CodeHash).Delete(&models.OTPCode{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrOTPInvalid
		}
		err := tx.Where("phone = ?", phone).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{Phone: phone}
			created = true
			return tx.Create(&user).Error
		}
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return &user, created, nil
}
