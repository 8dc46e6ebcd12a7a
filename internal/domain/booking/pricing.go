package booking

import (
	"github.com/Seascape-Charters/service-booking/internal/platform/domain"
)

// PlatformFeePercent is the surcharge applied on top of the seat subtotal.
const PlatformFeePercent = 5

// PriceBreakdown is the price of a booking in whole currency units.
type PriceBreakdown struct {
	PricePerPerson int64  `json:"price_per_person"`
	Seats          int    `json:"seats"`
	Subtotal       int64  `json:"subtotal"`
	PlatformFee    int64  `json:"platform_fee"`
	Total          int64  `json:"total"`
	Currency       string `json:"currency"`
}

// PricingStrategy calculates the price shown before a booking is submitted.
type PricingStrategy interface {
	Quote(pricePerPerson int64, seats int) (PriceBreakdown, error)
}

// StandardPricingStrategy charges per seat plus the platform fee.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Quote computes:
//
//	subtotal = pricePerPerson * seats
//	fee      = round_half_up(subtotal * 5%)
//	total    = subtotal + fee
func (s *StandardPricingStrategy) Quote(pricePerPerson int64, seats int) (PriceBreakdown, error) {
	if pricePerPerson < 0 {
		return PriceBreakdown{}, domain.NewValidationError("price per person cannot be negative")
	}
	if seats < 1 {
		return PriceBreakdown{}, domain.NewValidationError("at least one seat is required")
	}

	subtotal := pricePerPerson * int64(seats)
	fee := PlatformFee(subtotal)
	return PriceBreakdown{
		PricePerPerson: pricePerPerson,
		Seats:          seats,
		Subtotal:       subtotal,
		PlatformFee:    fee,
		Total:          subtotal + fee,
		Currency:       domain.CurrencyEGP,
	}, nil
}

// PlatformFee returns the fee for a non-negative subtotal, rounded half-up to
// the nearest currency unit.
func PlatformFee(subtotal int64) int64 {
	return (subtotal*PlatformFeePercent + 50) / 100
}
