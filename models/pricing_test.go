package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		name                  string
		price, discount, pct  float64
		want                  float64
	}{
		{"flat discount", 1000, 250, 0, 750},
		{"percentage", 1000, 0, 15, 850},
		{"flat wins over percentage", 1000, 100, 50, 900},
		{"no discount", 499.99, 0, 0, 499.99},
		{"clamped at zero", 100, 150, 0, 0},
		{"rounded to paise", 99.99, 0, 33, 66.99},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, DiscountedPrice(tc.price, tc.discount, tc.pct), 0.001)
		})
	}
}

func TestProductBeforeSaveDerivesPrice(t *testing.T) {
	p := &Product{Price: 2000, DiscountPercentage: 25}
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, 1500.0, p.DiscountedPrice)
	assert.Equal(t, ProductEnabled, p.Status)
	assert.NotNil(t, p.Sizes)
	assert.NotNil(t, p.Images)
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(43000), ToPaise(430))
	assert.Equal(t, int64(9923), ToPaise(99.23))
}
