package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProductEnabled  = "enabled"
	ProductDisabled = "disabled"
)

var (
	ProductSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL", "Free Size",
		"28", "30", "32", "34", "36", "38", "40", "42", "44",
		"UK6", "UK7", "UK8", "UK9", "UK10", "UK11"}
	ProductColors = []string{"Black", "White", "Grey", "Navy", "Blue", "Red", "Maroon", "Pink",
		"Purple", "Green", "Olive", "Yellow", "Orange", "Brown", "Beige", "Cream", "Gold",
		"Silver", "Multicolor"}
	ProductGenders = []string{"men", "women", "unisex", "boys", "girls"}
)

type Product struct {
	Base
	SellerID                uint                        `gorm:"index;not null" json:"sellerId"`
	Seller                  *Seller                     `json:"seller,omitempty"`
	CategoryID              uint                        `gorm:"index;not null" json:"categoryId"`
	Category                *Category                   `json:"category,omitempty"`
	Name                    string                      `gorm:"size:200;not null;index" json:"name"`
	Description             string                      `gorm:"type:text" json:"description"`
	Brand                   string                      `gorm:"size:100" json:"brand"`
	Price                   float64                     `gorm:"not null" json:"price"`
	Discount                float64                     `json:"discount"`
	DiscountPercentage      float64                     `json:"discountPercentage"`
	DiscountedPrice         float64                     `gorm:"index" json:"discountedPrice"`
	Stock                   int                         `gorm:"not null" json:"stock"`
	Sizes                   datatypes.JSONSlice[string] `json:"sizes"`
	Colors                  datatypes.JSONSlice[string] `json:"colors"`
	Images                  datatypes.JSONSlice[Image]  `json:"images"`
	Material                string                      `gorm:"size:100" json:"material"`
	Fit                     string                      `gorm:"size:50" json:"fit"`
	Gender                  string                      `gorm:"size:20;index" json:"gender"`
	Dimensions              Dimensions                  `gorm:"embedded;embeddedPrefix:dim_" json:"dimensions"`
	Returnable              bool                        `json:"returnable"`
	ReturnDays              int                         `json:"returnDays"`
	CODAvailable            bool                        `gorm:"column:cod_available" json:"codAvailable"`
	OnlinePaymentPercentage float64                     `json:"onlinePaymentPercentage"`
	Status                  string                      `gorm:"size:20;not null;index" json:"status"`
	IsSponsored             bool                        `gorm:"-" json:"isSponsored"`
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// BeforeSave keeps the derived price and the JSON columns consistent on every write.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.DiscountedPrice = DiscountedPrice(p.Price, p.Discount, p.DiscountPercentage)
	if p.Status == "" {
		p.Status = ProductEnabled
	}
	if p.Sizes == nil {
		p.Sizes = datatypes.JSONSlice[string]{}
	}
	if p.Colors == nil {
		p.Colors = datatypes.JSONSlice[string]{}
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[Image]{}
	}
	return nil
}

func (p *Product) Pricing() ProductPricing {
	return ProductPricing{
		Price:                   p.Price,
		Discount:                p.Discount,
		DiscountPercentage:      p.DiscountPercentage,
		CODAvailable:            p.CODAvailable,
		OnlinePaymentPercentage: p.OnlinePaymentPercentage,
		Sizes:                   p.Sizes,
		Colors:                  p.Colors,
		Gender:                  p.Gender,
	}
}

// Offers reports whether the product can be bought in the given size and color.
// Empty selections are accepted only when the product has no options on that axis.
func (p *Product) Offers(size, color string) bool {
	return optionAllowed(p.Sizes, size) && optionAllowed(p.Colors, color)
}

func optionAllowed(options []string, chosen string) bool {
	if len(options) == 0 {
		return chosen == ""
	}
	return contains(options, chosen)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
