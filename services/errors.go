package services

import "errors"

var (
	ErrCategoryInUse         = errors.New("category is still referenced by products")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrInvalidSignature      = errors.New("payment signature verification failed")
	ErrPendingOrderNotFound  = errors.New("pending order not found or expired")
	ErrPaymentAlreadyUsed    = errors.New("payment has already been turned into orders")
	ErrOnlinePaymentRequired = errors.New("this checkout has an online portion and must be paid online")
	ErrNoOnlinePortion       = errors.New("this checkout has nothing to pay online")
	ErrStatusConflict        = errors.New("order status was changed by another request")
	ErrOTPInvalid            = errors.New("invalid otp")
	ErrOTPExpired            = errors.New("otp expired")
	ErrOTPAttemptsExceeded   = errors.New("too many otp attempts, request a new code")
)
