package coupon

import (
	"testing"
	"time"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validCoupon() *model.Coupon {
	return &model.Coupon{
		ID:            uuid.New(),
		Code:          "TENOFF2026",
		Type:          model.CouponPercentage,
		Value:         dec("10"),
		MinOrderValue: dec("20.00"),
		ValidFrom:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		MaxUses:       100,
		CurrentUses:   5,
		Active:        true,
	}
}

func TestResolverValidate(t *testing.T) {
	resolver := NewResolver(zerolog.Nop())
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*model.Coupon)
		subtotal string
		at       time.Time
		wantErr  error
	}{
		{name: "Valid coupon passes", mutate: func(c *model.Coupon) {}, subtotal: "30.00", at: now},
		{
			name:     "Inactive coupon",
			mutate:   func(c *model.Coupon) { c.Active = false },
			subtotal: "30.00", at: now,
			wantErr: model.ErrCouponInactive,
		},
		{
			name:     "Before validity window",
			mutate:   func(c *model.Coupon) {},
			subtotal: "30.00", at: time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			wantErr: model.ErrCouponExpired,
		},
		{
			name:     "After validity window",
			mutate:   func(c *model.Coupon) {},
			subtotal: "30.00", at: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			wantErr: model.ErrCouponExpired,
		},
		{
			name:     "Window start is inclusive",
			mutate:   func(c *model.Coupon) {},
			subtotal: "30.00", at: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Window end is inclusive",
			mutate:   func(c *model.Coupon) {},
			subtotal: "30.00", at: time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "Exhausted coupon",
			mutate:   func(c *model.Coupon) { c.CurrentUses = c.MaxUses },
			subtotal: "30.00", at: now,
			wantErr: model.ErrCouponExhausted,
		},
		{
			name:     "Subtotal below minimum",
			mutate:   func(c *model.Coupon) {},
			subtotal: "19.99", at: now,
			wantErr: model.ErrCouponMinimumNotMet,
		},
		{
			name:     "Subtotal at minimum passes",
			mutate:   func(c *model.Coupon) {},
			subtotal: "20.00", at: now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCoupon()
			tt.mutate(c)
			err := resolver.Validate(c, dec(tt.subtotal), tt.at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolverValidate_NilCoupon(t *testing.T) {
	resolver := NewResolver(zerolog.Nop())
	err := resolver.Validate(nil, dec("30.00"), time.Now())
	assert.ErrorIs(t, err, model.ErrCouponNotFound)
}

func TestResolverDiscount(t *testing.T) {
	resolver := NewResolver(zerolog.Nop())

	tests := []struct {
		name     string
		ctype    model.CouponType
		value    string
		subtotal string
		want     string
	}{
		{name: "Percentage ten on one hundred", ctype: model.CouponPercentage, value: "10", subtotal: "100.00", want: "10.00"},
		{name: "Percentage rounds half up", ctype: model.CouponPercentage, value: "10", subtotal: "33.35", want: "3.34"},
		{name: "Fixed amount", ctype: model.CouponFixed, value: "5.00", subtotal: "30.00", want: "5.00"},
		{name: "Fixed amount capped at subtotal", ctype: model.CouponFixed, value: "50.00", subtotal: "30.00", want: "30.00"},
		{name: "Percentage of zero subtotal", ctype: model.CouponPercentage, value: "10", subtotal: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCoupon()
			c.Type = tt.ctype
			c.Value = dec(tt.value)
			got := resolver.Discount(c, dec(tt.subtotal))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolverDiscount_NilCoupon(t *testing.T) {
	resolver := NewResolver(zerolog.Nop())
	assert.True(t, resolver.Discount(nil, dec("30.00")).IsZero())
}
