package service

import (
	"context"

	"food-dash/internal/geo"
	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SettlementService creates orders with their full monetary breakdown and
// owns the settlement arithmetic applied at delivery and cancellation.
type SettlementService interface {
	// CreateOrder creates an order from explicit line items.
	CreateOrder(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error)

	// CreateOrderFromCart converts the actor's open cart into an order.
	// The cart is closed and its coupon redeemed in the same transaction
	// that creates the order.
	CreateOrderFromCart(ctx context.Context, actor model.Actor, req *model.CheckoutRequest) (*model.Order, error)

	// GetOrder retrieves an order visible to the actor.
	GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)

	// ListClientOrders retrieves the actor's own orders, most recent first.
	ListClientOrders(ctx context.Context, actor model.Actor) ([]model.Order, error)
}

// Settler is the settlement capability the lifecycle service invokes on
// terminal transitions.
type Settler interface {
	// ApplyFinalValues computes and persists the platform fees and net
	// values for a delivered order within the provided transaction.
	ApplyFinalValues(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// RefundOnCancel refunds a canceled order's captured payment if there
	// is one. Best effort: failures are logged, never returned.
	RefundOnCancel(ctx context.Context, order *model.Order, reason string)
}

// LifecycleService drives orders through their status transitions.
type LifecycleService interface {
	// Confirm moves a CREATED order to CONFIRMED.
	Confirm(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)

	// StartPreparing moves a CONFIRMED order to PREPARING, making it
	// visible to couriers.
	StartPreparing(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)

	// MarkOutForDelivery moves an assigned PREPARING order to
	// OUT_FOR_DELIVERY.
	MarkOutForDelivery(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)

	// MarkDelivered moves an OUT_FOR_DELIVERY order to DELIVERED and
	// settles it in the same transaction.
	MarkDelivered(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)

	// Cancel moves a non-terminal order to CANCELED and triggers a
	// best-effort refund.
	Cancel(ctx context.Context, actor model.Actor, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error)
}

// AssignmentService handles courier self-assignment and courier-facing
// order views.
type AssignmentService interface {
	// Accept claims an available order for the acting courier. Exactly
	// one of any number of concurrent acceptors wins.
	Accept(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)

	// ListAvailable retrieves orders open for self-assignment.
	ListAvailable(ctx context.Context, actor model.Actor) ([]model.Order, error)

	// ListActive retrieves the acting courier's in-flight orders.
	ListActive(ctx context.Context, actor model.Actor) ([]model.Order, error)

	// ListHistory retrieves the acting courier's completed orders.
	ListHistory(ctx context.Context, actor model.Actor) ([]model.Order, error)

	// UpdatePosition records the acting courier's reported position.
	UpdatePosition(ctx context.Context, actor model.Actor, req *model.UpdatePositionRequest) error
}

// CartService manages a client's open cart.
type CartService interface {
	// GetCart retrieves the actor's open cart, creating one if none exists.
	GetCart(ctx context.Context, actor model.Actor) (*model.Cart, []model.CartItem, error)

	// AddItem adds a product to the actor's open cart.
	AddItem(ctx context.Context, actor model.Actor, req *model.AddCartItemRequest) (*model.Cart, []model.CartItem, error)

	// AttachCoupon attaches a coupon code to the actor's open cart after
	// validating it against the cart's current subtotal.
	AttachCoupon(ctx context.Context, actor model.Actor, req *model.AttachCouponRequest) (*model.Cart, error)
}

// ProductService defines read operations over the product catalogue.
type ProductService interface {
	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListByRestaurant retrieves a restaurant's products.
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]model.Product, error)
}

// PaymentGateway is the external payment capability used for refunds.
type PaymentGateway interface {
	PaymentForOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)
	Refund(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reason string) (*model.Refund, error)
}

// PositionStore is the live courier-position capability.
type PositionStore interface {
	UpdatePosition(ctx context.Context, courierID uuid.UUID, coords model.Coordinates) error
	SeedPosition(ctx context.Context, courierID uuid.UUID, coords model.Coordinates) (bool, error)
}

// ETAEstimator resolves distance and delivery-time estimates.
type ETAEstimator interface {
	Estimate(ctx context.Context, origin, dest *model.Coordinates, vehicle model.VehicleType) geo.Estimate
}
