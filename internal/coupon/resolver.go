package coupon

import (
	"time"

	"food-dash/internal/model"
	"food-dash/internal/money"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Resolver checks a coupon against its validity rules and computes the
// discount it grants. It performs no persistence; incrementing the usage
// counter is the settlement transaction's job.
type Resolver struct {
	logger zerolog.Logger
}

// NewResolver creates a new coupon resolver.
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With().Str("component", "coupon-resolver").Logger(),
	}
}

// Validate checks whether the coupon is applicable to an order with the
// given subtotal at the given instant. The validity window is inclusive on
// both ends.
func (r *Resolver) Validate(c *model.Coupon, subtotal decimal.Decimal, at time.Time) error {
	if c == nil {
		return model.ErrCouponNotFound
	}
	if !c.Active {
		r.logger.Debug().Str("code", c.Code).Msg("coupon inactive")
		return model.ErrCouponInactive
	}
	if at.Before(c.ValidFrom) || at.After(c.ValidUntil) {
		r.logger.Debug().
			Str("code", c.Code).
			Time("valid_from", c.ValidFrom).
			Time("valid_until", c.ValidUntil).
			Msg("coupon outside validity window")
		return model.ErrCouponExpired
	}
	if c.CurrentUses >= c.MaxUses {
		r.logger.Debug().
			Str("code", c.Code).
			Int("current_uses", c.CurrentUses).
			Int("max_uses", c.MaxUses).
			Msg("coupon exhausted")
		return model.ErrCouponExhausted
	}
	if subtotal.LessThan(c.MinOrderValue) {
		r.logger.Debug().
			Str("code", c.Code).
			Str("subtotal", subtotal.String()).
			Str("min_order_value", c.MinOrderValue.String()).
			Msg("order below coupon minimum")
		return model.ErrCouponMinimumNotMet
	}
	return nil
}

// Discount computes the discount amount a coupon grants on a subtotal.
// Percentage coupons reuse the platform-fee arithmetic for identical
// rounding; fixed coupons never push the order negative.
func (r *Resolver) Discount(c *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	switch c.Type {
	case model.CouponPercentage:
		return money.PlatformFee(subtotal, c.Value)
	case model.CouponFixed:
		if c.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return c.Value
	}
	return decimal.Zero
}
