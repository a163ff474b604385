package ledger

import "errors"

// Business-rule rejections. These are final: the caller gets a human-readable
// reason and must not retry the same request.
var (
	ErrFeatureDisabled     = errors.New("coin rewards are currently disabled")
	ErrOverRedeemLimit     = errors.New("amount exceeds the maximum redeemable coins")
	ErrBelowMinCart        = errors.New("order value is below the minimum cart value")
	ErrCategoryNotEligible = errors.New("category is not eligible for coin redemption")
	ErrOverUsageCap        = errors.New("discount exceeds the allowed percentage of the order value")
)

// Balance rejections.
var (
	ErrInsufficientBalance  = errors.New("insufficient coin balance")
	ErrInsufficientRedeemed = errors.New("insufficient redeemed balance")
)

// Input rejections, raised before any store access.
var (
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrZeroAdjustment = errors.New("adjustment amount cannot be zero")
)

// IsPolicyViolation reports whether err is a business-rule rejection.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrFeatureDisabled) ||
		errors.Is(err, ErrOverRedeemLimit) ||
		errors.Is(err, ErrBelowMinCart) ||
		errors.Is(err, ErrCategoryNotEligible) ||
		errors.Is(err, ErrOverUsageCap)
}

// IsInsufficientFunds reports whether err is a balance rejection.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrInsufficientRedeemed)
}

// IsValidation reports whether err is an input rejection.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrZeroAdjustment)
}
