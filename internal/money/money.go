// Package money holds the pure monetary arithmetic shared by settlement and
// coupon discounting. All results are rounded to 2 decimal places, half-up.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PlatformFee returns the platform commission for a gross value at a
// percentage rate. A zero or negative gross or rate yields a zero fee; this
// is a defensive default for not-yet-configured rates, not a business
// success signal, so callers must check the rate separately when the
// distinction matters.
func PlatformFee(gross, percent decimal.Decimal) decimal.Decimal {
	if gross.Sign() <= 0 || percent.Sign() <= 0 {
		return decimal.Zero
	}
	return gross.Mul(percent).Div(hundred).Round(2)
}

// NetValue returns gross minus fee, clamped at zero. A fee can never exceed
// the gross it is taken from, so the net is never negative.
func NetValue(gross, fee decimal.Decimal) decimal.Decimal {
	net := gross.Sub(fee).Round(2)
	if net.Sign() < 0 {
		return decimal.Zero
	}
	return net
}
