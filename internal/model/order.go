package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. DELIVERED and CANCELED are terminal.
type Status string

const (
	StatusCreated        Status = "CREATED"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
)

// IsTerminal reports whether no further transitions are defined out of s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// PaymentMethod is how the client pays for an order.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "CARD"
	PaymentPix  PaymentMethod = "PIX"
	PaymentCash PaymentMethod = "CASH"
)

// Order is the aggregate root of the fulfillment flow. It owns its line
// items and carries a snapshot of the delivery address. The settlement
// fields for restaurant and courier stay null until the order is delivered.
//
// Monetary invariant at creation: total = subtotal - discount + deliveryFee.
type Order struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ClientID     uuid.UUID  `json:"clientId" db:"client_id"`
	RestaurantID uuid.UUID  `json:"restaurantId" db:"restaurant_id"`
	CourierID    *uuid.UUID `json:"courierId,omitempty" db:"courier_id"`

	Status          Status          `json:"status" db:"status"`
	Items           []OrderItem     `json:"items"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`

	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount    decimal.Decimal `json:"discount" db:"discount"`
	DeliveryFee decimal.Decimal `json:"deliveryFee" db:"delivery_fee"`
	Total       decimal.Decimal `json:"total" db:"total"`

	PlatformFeeRestaurant decimal.NullDecimal `json:"platformFeeRestaurant" db:"platform_fee_restaurant"`
	PlatformFeeCourier    decimal.NullDecimal `json:"platformFeeCourier" db:"platform_fee_courier"`
	NetValueRestaurant    decimal.NullDecimal `json:"netValueRestaurant" db:"net_value_restaurant"`
	NetValueCourier       decimal.NullDecimal `json:"netValueCourier" db:"net_value_courier"`

	PaymentMethod PaymentMethod       `json:"paymentMethod" db:"payment_method"`
	ChangeFor     decimal.NullDecimal `json:"changeFor" db:"change_for"`
	CouponID      *uuid.UUID          `json:"couponId,omitempty" db:"coupon_id"`

	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt,omitempty" db:"estimated_delivery_at"`
	CancelReason        *string    `json:"cancelReason,omitempty" db:"cancel_reason"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line item owned exclusively by its order. The unit price
// is snapshotted from the product at order time and immutable thereafter.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest is the payload for creating an order from explicit
// line items.
type CreateOrderRequest struct {
	RestaurantID  uuid.UUID          `json:"restaurantId"`
	Items         []OrderItemRequest `json:"items"`
	CouponCode    *string            `json:"couponCode,omitempty"`
	PaymentMethod PaymentMethod      `json:"paymentMethod"`
	ChangeFor     *string            `json:"changeFor,omitempty"`
}

// CheckoutRequest is the payload for converting an open cart into an order.
type CheckoutRequest struct {
	CartID        uuid.UUID     `json:"cartId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	ChangeFor     *string       `json:"changeFor,omitempty"`
}

// CancelOrderRequest carries the optional reason for a cancellation.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
