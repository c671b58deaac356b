package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus as reported by the external payment gateway.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentAuthorized PaymentStatus = "AUTHORIZED"
	PaymentPaid       PaymentStatus = "PAID"
	PaymentRefunded   PaymentStatus = "REFUNDED"
	PaymentFailed     PaymentStatus = "FAILED"
)

// Refundable reports whether funds were captured or authorized and can be
// returned. Finer payment states are a gateway concern.
func (s PaymentStatus) Refundable() bool {
	return s == PaymentAuthorized || s == PaymentPaid
}

// Payment is the gateway's view of an order's payment.
type Payment struct {
	ID      string          `json:"id"`
	OrderID uuid.UUID       `json:"orderId"`
	Status  PaymentStatus   `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
}

// Refund is the gateway's acknowledgement of a refund request.
type Refund struct {
	ID      string          `json:"id"`
	OrderID uuid.UUID       `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}
