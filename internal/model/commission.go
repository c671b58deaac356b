package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateCategory selects which side of the marketplace a commission rate
// applies to.
type RateCategory string

const (
	CategoryRestaurant RateCategory = "RESTAURANT"
	CategoryCourier    RateCategory = "COURIER"
)

// SettlementValues are the computed settlement amounts written to an order
// when it is delivered.
type SettlementValues struct {
	PlatformFeeRestaurant decimal.Decimal
	PlatformFeeCourier    decimal.Decimal
	NetValueRestaurant    decimal.Decimal
	NetValueCourier       decimal.Decimal
}

// CommissionRate is a versioned platform commission configuration. At most
// one row per category is active at a time; settlement only ever reads the
// active row.
type CommissionRate struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Category  RateCategory    `json:"category" db:"category"`
	Percent   decimal.Decimal `json:"percent" db:"percent"`
	Active    bool            `json:"active" db:"active"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
