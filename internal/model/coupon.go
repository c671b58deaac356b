package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponType distinguishes percentage discounts from fixed amounts.
type CouponType string

const (
	CouponPercentage CouponType = "PERCENTAGE"
	CouponFixed      CouponType = "FIXED"
)

// Coupon is a redeemable discount code with a usage cap and an inclusive
// validity window. CurrentUses only grows, and never past MaxUses; the cap
// check and the increment are a single atomic decision per redemption.
type Coupon struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Code          string          `json:"code" db:"code"`
	Type          CouponType      `json:"type" db:"type"`
	Value         decimal.Decimal `json:"value" db:"value"`
	MinOrderValue decimal.Decimal `json:"minOrderValue" db:"min_order_value"`
	ValidFrom     time.Time       `json:"validFrom" db:"valid_from"`
	ValidUntil    time.Time       `json:"validUntil" db:"valid_until"`
	MaxUses       int             `json:"maxUses" db:"max_uses"`
	CurrentUses   int             `json:"currentUses" db:"current_uses"`
	Active        bool            `json:"active" db:"active"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}
