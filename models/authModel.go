package models

import (
	"time"

	"gorm.io/datatypes"
)

const MaxOTPAttempts = 5

type OTPCode struct {
	Base
	Phone     string    `gorm:"size:20;uniqueIndex;not null"`
	CodeHash  string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Attempts  int       `gorm:"not null"`
}

// PendingOrder stages a checkout plan until its online payment is verified.
type PendingOrder struct {
	Base
	RazorpayOrderID string         `gorm:"size:50;uniqueIndex;not null"`
	Payload         datatypes.JSON `gorm:"not null"`
	ExpiresAt       time.Time      `gorm:"index;not null"`
}
