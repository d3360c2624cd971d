package models

import "time"

const (
	MaxRecentSearches = 10
	MaxRecentlyViewed = 20
)

type User struct {
	Base
	Phone       string     `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Name        string     `gorm:"size:100" json:"name"`
	Email       string     `gorm:"size:150" json:"email"`
	Gender      string     `gorm:"size:20" json:"gender"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Addresses   []Address  `json:"addresses,omitempty"`
}

type Address struct {
	Base
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Name      string `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone     string `gorm:"size:20;not null" json:"phone" binding:"required"`
	Line1     string `gorm:"size:255;not null" json:"line1" binding:"required"`
	Line2     string `gorm:"size:255" json:"line2"`
	Landmark  string `gorm:"size:150" json:"landmark"`
	City      string `gorm:"size:100;not null" json:"city" binding:"required"`
	State     string `gorm:"size:100;not null" json:"state" binding:"required"`
	Pincode   string `gorm:"size:10;not null" json:"pincode" binding:"required,numeric,len=6"`
	IsDefault bool   `json:"isDefault"`
}

// Snapshot copies the address onto an order so later edits do not rewrite history.
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Name:     a.Name,
		Phone:    a.Phone,
		Line1:    a.Line1,
		Line2:    a.Line2,
		Landmark: a.Landmark,
		City:     a.City,
		State:    a.State,
		Pincode:  a.Pincode,
	}
}

type RecentSearch struct {
	Base
	UserID uint   `gorm:"index;not null" json:"userId"`
	Term   string `gorm:"size:200;not null" json:"term"`
}

type RecentView struct {
	Base
	UserID    uint     `gorm:"uniqueIndex:idx_recent_view;not null" json:"userId"`
	ProductID uint     `gorm:"uniqueIndex:idx_recent_view;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
}
