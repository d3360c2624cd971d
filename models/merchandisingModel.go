package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AdSlotSingle = "single"
	AdSlotDouble = "double"
	AdSlotTriple = "triple"

	// SingletonID is the primary key of one-row configuration tables.
	SingletonID = 1
)

type ComboOffer struct {
	Base
	Name          string                            `gorm:"size:150;not null" json:"name"`
	Description   string                            `gorm:"type:text" json:"description"`
	Products      []Product                         `gorm:"many2many:combo_offer_products" json:"products,omitempty"`
	Price         float64                           `gorm:"not null" json:"price"`
	OriginalPrice float64                           `json:"originalPrice"`
	Images        datatypes.JSONSlice[GalleryImage] `json:"images"`
	Active        bool                              `gorm:"index" json:"active"`
	ValidUntil    *time.Time                        `json:"validUntil,omitempty"`
}

// SponsoredProduct is the single source of truth for sponsorship; Product.IsSponsored is
// derived from it at read time.
type SponsoredProduct struct {
	Base
	ProductID uint     `gorm:"uniqueIndex;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Position  int      `gorm:"index" json:"position"`
}

type LayoutComponent struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

// Layout is the homepage component list rendered by the storefront, stored as one row.
type Layout struct {
	Base
	Components datatypes.JSONSlice[LayoutComponent] `json:"components"`
}

func ValidateLayout(components []LayoutComponent) error {
	for _, c := range components {
		if c.Type == "" {
			return ErrInvalidLayout
		}
	}
	return nil
}

// SiteConfig is the global storefront configuration. Ad galleries live here rather than
// on any admin account.
type SiteConfig struct {
	Base
	SingleAds datatypes.JSONSlice[GalleryImage] `json:"singleadd"`
	DoubleAds datatypes.JSONSlice[GalleryImage] `json:"doubleadd"`
	TripleAds datatypes.JSONSlice[GalleryImage] `json:"tripleadd"`
}

func IsAdSlot(slot string) bool {
	return slot == AdSlotSingle || slot == AdSlotDouble || slot == AdSlotTriple
}

// Ads returns a pointer to the gallery for slot, or nil for an unknown slot.
func (s *SiteConfig) Ads(slot string) *datatypes.JSONSlice[GalleryImage] {
	switch slot {
	case AdSlotSingle:
		return &s.SingleAds
	case AdSlotDouble:
		return &s.DoubleAds
	case AdSlotTriple:
		return &s.TripleAds
	}
	return nil
}
