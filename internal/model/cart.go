package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStatus tracks whether a cart is still mutable.
type CartStatus string

const (
	CartOpen      CartStatus = "OPEN"
	CartConverted CartStatus = "CONVERTED"
)

// Cart is a client's in-progress selection. It stays mutable until it is
// converted into an order, at which point its items are copied into order
// line items and the attached coupon is redeemed exactly once.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ClientID  uuid.UUID  `json:"clientId" db:"client_id"`
	CouponID  *uuid.UUID `json:"couponId,omitempty" db:"coupon_id"`
	Status    CartStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is a selection inside a cart. The unit price is snapshotted when
// the item is added.
type CartItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	CartID    uuid.UUID       `json:"-" db:"cart_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// AddCartItemRequest is the payload for adding an item to a cart.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// AttachCouponRequest is the payload for attaching a coupon code to a cart.
type AttachCouponRequest struct {
	Code string `json:"code"`
}
