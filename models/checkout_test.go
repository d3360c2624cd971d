package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, seller uint, price, pct float64) Product {
	p := Product{
		Base:                    Base{ID: id},
		SellerID:                seller,
		Name:                    "product",
		Price:                   price,
		DiscountPercentage:      pct,
		Stock:                   10,
		Status:                  ProductEnabled,
		CODAvailable:            true,
		OnlinePaymentPercentage: 20,
	}
	p.DiscountedPrice = DiscountedPrice(p.Price, p.Discount, p.DiscountPercentage)
	return p
}

var rule = ShippingRule{Charge: 40, FreeAbove: 500}

func TestBuildCheckoutPlanSplitsBySeller(t *testing.T) {
	lines := []CheckoutLine{
		{Product: product(1, 7, 300, 0), Quantity: 1},
		{Product: product(2, 9, 100, 10), Quantity: 1},
	}
	plan, err := BuildCheckoutPlan(3, PaymentOnline, ShippingAddress{City: "Pune"}, lines, rule)
	require.NoError(t, err)
	require.Len(t, plan.Orders, 2)

	first, second := plan.Orders[0], plan.Orders[1]
	assert.Equal(t, uint(7), first.SellerID)
	assert.Equal(t, uint(9), second.SellerID)

	assert.InDelta(t, 30.77, first.ShippingCharge, 0.001)
	assert.InDelta(t, 9.23, second.ShippingCharge, 0.001)
	assert.InDelta(t, 40, first.ShippingCharge+second.ShippingCharge, 0.001)

	for _, o := range plan.Orders {
		var items float64
		for _, it := range o.Items {
			items += it.LineTotal
		}
		assert.InDelta(t, items+o.ShippingCharge, o.Total, 0.001)
		assert.InDelta(t, o.Total, o.OnlineAmount, 0.001)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.Equal(t, "Pune", o.ShippingAddress.City)
	}
	assert.InDelta(t, 430, plan.Total(), 0.001)
}

func TestBuildCheckoutPlanCODSplit(t *testing.T) {
	lines := []CheckoutLine{{Product: product(1, 7, 300, 0), Quantity: 2}}
	plan, err := BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, lines, rule)
	require.NoError(t, err)
	o := plan.Orders[0]

	assert.Equal(t, 0.0, o.ShippingCharge)
	assert.InDelta(t, 600, o.Total, 0.001)
	assert.InDelta(t, 120, o.OnlineAmount, 0.001)
	assert.InDelta(t, 480, o.CODAmount, 0.001)
	assert.InDelta(t, 120, plan.OnlineAmount(), 0.001)
}

func TestBuildCheckoutPlanCODUnavailableForcesOnline(t *testing.T) {
	p := product(1, 7, 200, 0)
	p.CODAvailable = false
	plan, err := BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, []CheckoutLine{{Product: p, Quantity: 1}}, rule)
	require.NoError(t, err)
	assert.Equal(t, 100.0, plan.Orders[0].Items[0].OnlinePaymentPercentage)
	assert.InDelta(t, 200, plan.Orders[0].OnlineAmount, 0.001)
	assert.InDelta(t, 40, plan.Orders[0].CODAmount, 0.001)
}

func TestBuildCheckoutPlanPureCOD(t *testing.T) {
	p := product(1, 7, 200, 0)
	p.OnlinePaymentPercentage = 0
	plan, err := BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, []CheckoutLine{{Product: p, Quantity: 1}}, rule)
	require.NoError(t, err)
	assert.Equal(t, 0.0, plan.OnlineAmount())
}

func TestBuildCheckoutPlanRejects(t *testing.T) {
	p := product(1, 7, 200, 0)

	_, err := BuildCheckoutPlan(3, "barter", ShippingAddress{}, []CheckoutLine{{Product: p, Quantity: 1}}, rule)
	assert.ErrorIs(t, err, ErrInvalidPaymentMode)

	_, err = BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, nil, rule)
	assert.ErrorIs(t, err, ErrEmptyCheckout)

	_, err = BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, []CheckoutLine{{Product: p, Quantity: 11}}, rule)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	p.Sizes = []string{"M"}
	_, err = BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, []CheckoutLine{{Product: p, Quantity: 1, Size: "XL"}}, rule)
	assert.ErrorIs(t, err, ErrInvalidVariant)

	p.Sizes = nil
	p.Status = ProductDisabled
	_, err = BuildCheckoutPlan(3, PaymentCOD, ShippingAddress{}, []CheckoutLine{{Product: p, Quantity: 1}}, rule)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}
