package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeResourceNotFound      = "RESOURCE_NOT_FOUND"
	ErrCodeOrderAlreadyProcessed = "ORDER_ALREADY_PROCESSED"
	ErrCodeProductUnavailable    = "PRODUCT_UNAVAILABLE"
	ErrCodeAccessDenied          = "ACCESS_DENIED"
	ErrCodeInvalidArgument       = "INVALID_ARGUMENT"
	ErrCodePaymentGateway        = "PAYMENT_GATEWAY_ERROR"
	ErrCodeCouponNotFound        = "COUPON_NOT_FOUND"
	ErrCodeCouponInactive        = "COUPON_INACTIVE"
	ErrCodeCouponExpired         = "COUPON_EXPIRED"
	ErrCodeCouponExhausted       = "COUPON_EXHAUSTED"
	ErrCodeCouponMinimumNotMet   = "COUPON_MINIMUM_NOT_MET"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message so
// handlers can map business failures to HTTP statuses without string matching.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOrderNotFound      = NewDomainError(ErrCodeResourceNotFound, "Order not found")
	ErrCartNotFound       = NewDomainError(ErrCodeResourceNotFound, "Cart not found")
	ErrProductNotFound    = NewDomainError(ErrCodeResourceNotFound, "One or more products not found")
	ErrCourierNotFound    = NewDomainError(ErrCodeResourceNotFound, "Courier not found")
	ErrNoPrincipalAddress = NewDomainError(ErrCodeResourceNotFound, "No principal address on file")

	ErrOrderAlreadyProcessed = NewDomainError(ErrCodeOrderAlreadyProcessed, "Order was already processed")
	ErrProductUnavailable    = NewDomainError(ErrCodeProductUnavailable, "One or more products are currently unavailable")
	ErrAccessDenied          = NewDomainError(ErrCodeAccessDenied, "Actor is not allowed to perform this action")
	ErrEmptyCart             = NewDomainError(ErrCodeInvalidArgument, "Cart has no items")

	ErrCouponNotFound      = NewDomainError(ErrCodeCouponNotFound, "Coupon code not found")
	ErrCouponInactive      = NewDomainError(ErrCodeCouponInactive, "Coupon is not active")
	ErrCouponExpired       = NewDomainError(ErrCodeCouponExpired, "Coupon is outside its validity window")
	ErrCouponExhausted     = NewDomainError(ErrCodeCouponExhausted, "Coupon usage cap has been reached")
	ErrCouponMinimumNotMet = NewDomainError(ErrCodeCouponMinimumNotMet, "Order subtotal is below the coupon minimum")

	ErrPaymentGateway = NewDomainError(ErrCodePaymentGateway, "Payment gateway reported a failure")
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
