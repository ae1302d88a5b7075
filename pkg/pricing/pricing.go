// Package pricing holds the price rules shared by the cart, the catalog views
// and checkout.
package pricing

import "github.com/shopspring/decimal"

// EffectivePrice applies a discount percentage to a unit price.
//
// A nil or non-positive discount leaves the price untouched and anything
// above 100 floors the price at zero.
func EffectivePrice(price float64, discount *float64) float64 {
	if discount == nil || *discount <= 0 {
		return price
	}
	if *discount > 100 {
		return 0
	}
	return price * (1 - *discount/100)
}

// HasDiscount reports whether the discount changes the price.
func HasDiscount(discount *float64) bool {
	return discount != nil && *discount > 0
}

// MinorUnits converts an amount to its smallest currency unit, rounding half
// away from zero.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// FromMinorUnits is the inverse of MinorUnits.
func FromMinorUnits(amount int64) float64 {
	f, _ := decimal.New(amount, -2).Float64()
	return f
}

// Percent returns a pointer to p, for optional discount fields.
func Percent(p float64) *float64 {
	return &p
}
