package models

import "errors"

var (
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrUnknownStatus       = errors.New("unknown order status")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrEmptyCheckout       = errors.New("no items to check out")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidVariant      = errors.New("size or color not offered for this product")
	ErrInvalidPaymentMode  = errors.New("payment method must be online or cod")
	ErrIndexOutOfRange     = errors.New("image index out of range")
	ErrInvalidLayout       = errors.New("layout component type is required")
	ErrInvalidPricing      = errors.New("invalid product pricing")
	ErrCancelWindowElapsed = errors.New("order can no longer be cancelled")
)
