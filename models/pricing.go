package models

import "math"

// DiscountedPrice applies a flat discount when one is set, otherwise the percentage.
// The result never goes below zero.
func DiscountedPrice(price, discount, discountPercentage float64) float64 {
	var v float64
	if discount > 0 {
		v = price - discount
	} else {
		v = price * (1 - discountPercentage/100)
	}
	if v < 0 {
		v = 0
	}
	return RoundMoney(v)
}

// RoundMoney rounds to paise.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToPaise converts a rupee amount to the integer minor unit Razorpay expects.
func ToPaise(v float64) int64 {
	return int64(math.Round(v * 100))
}
