package models

import (
	"fmt"
	"strings"
)

// ProductPricing is the subset of product fields whose combination must be validated together.
type ProductPricing struct {
	Price                   float64
	Discount                float64
	DiscountPercentage      float64
	CODAvailable            bool
	OnlinePaymentPercentage float64
	Sizes                   []string
	Colors                  []string
	Gender                  string
}

// PricingError lists every rule a product payload breaks.
type PricingError struct {
	Problems []string
}

func (e *PricingError) Error() string {
	return "invalid product: " + strings.Join(e.Problems, "; ")
}

func (e *PricingError) Unwrap() error { return ErrInvalidPricing }

// ValidateProductPricing is applied at every product create and update entry point,
// for sellers and admins alike.
func ValidateProductPricing(p ProductPricing) error {
	var problems []string

	if p.Price <= 0 {
		problems = append(problems, "price must be greater than 0")
	}
	if p.Discount < 0 {
		problems = append(problems, "discount cannot be negative")
	}
	if p.DiscountPercentage < 0 || p.DiscountPercentage >= 100 {
		problems = append(problems, "discountPercentage must be between 0 and 99")
	}
	if p.Discount > 0 && p.DiscountPercentage > 0 {
		problems = append(problems, "use either discount or discountPercentage, not both")
	}
	if p.Price > 0 && p.Discount >= p.Price {
		problems = append(problems, "discount must be less than price")
	}
	if p.OnlinePaymentPercentage < 0 || p.OnlinePaymentPercentage > 100 {
		problems = append(problems, "onlinePaymentPercentage must be between 0 and 100")
	}
	if !p.CODAvailable && p.OnlinePaymentPercentage != 100 {
		problems = append(problems, "onlinePaymentPercentage must be 100 when cash on delivery is unavailable")
	}
	for _, s := range p.Sizes {
		if !contains(ProductSizes, s) {
			problems = append(problems, fmt.Sprintf("unsupported size %q", s))
		}
	}
	for _, c := range p.Colors {
		if !contains(ProductColors, c) {
			problems = append(problems, fmt.Sprintf("unsupported color %q", c))
		}
	}
	if p.Gender != "" && !contains(ProductGenders, p.Gender) {
		problems = append(problems, fmt.Sprintf("unsupported gender %q", p.Gender))
	}

	if len(problems) > 0 {
		return &PricingError{Problems: problems}
	}
	return nil
}
