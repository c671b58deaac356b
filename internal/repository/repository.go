package repository

import (
	"context"
	"time"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgxpool.Pool and pgx.Tx needed to run queries,
// so repository methods can work inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderRepository defines the interface for order data access operations.
//
// Methods returning (bool, error) are conditional updates: they report
// whether exactly one row matched the guard, which is how concurrent state
// transitions are arbitrated without row locks.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line items within the provided
	// transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID with its line items populated.
	// Returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// UpdateStatus transitions an order from one status to another. The
	// update only applies when the order is still in the expected status;
	// false means another writer got there first. A nil tx runs against
	// the pool.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.Status) (bool, error)

	// AssignCourier claims an unassigned PREPARING order for a courier.
	// False means the order was already claimed or left PREPARING.
	AssignCourier(ctx context.Context, id, courierID uuid.UUID) (bool, error)

	// Cancel moves a non-terminal order to CANCELED, recording the reason.
	// False means the order already reached a terminal status.
	Cancel(ctx context.Context, id uuid.UUID, reason *string) (bool, error)

	// SetEstimatedDelivery stores the estimated delivery time.
	SetEstimatedDelivery(ctx context.Context, id uuid.UUID, at time.Time) error

	// ApplyFinalValues writes the settlement amounts within the provided
	// transaction.
	ApplyFinalValues(ctx context.Context, tx pgx.Tx, id uuid.UUID, values model.SettlementValues) error

	// ListAvailable retrieves orders ready for courier self-assignment:
	// PREPARING with no courier, oldest first.
	ListAvailable(ctx context.Context) ([]model.Order, error)

	// ListByCourier retrieves a courier's orders in any of the given
	// statuses, most recent first.
	ListByCourier(ctx context.Context, courierID uuid.UUID, statuses []model.Status) ([]model.Order, error)

	// ListByClient retrieves a client's orders, most recent first.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Order, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// Create inserts a new open cart.
	Create(ctx context.Context, cart *model.Cart) error

	// GetOpenByID retrieves an open cart and its items by cart ID.
	// Returns (nil, nil, nil) when no open cart with that ID exists.
	GetOpenByID(ctx context.Context, id uuid.UUID) (*model.Cart, []model.CartItem, error)

	// GetOpenByClient retrieves a client's open cart and its items.
	// Returns (nil, nil, nil) when the client has no open cart.
	GetOpenByClient(ctx context.Context, clientID uuid.UUID) (*model.Cart, []model.CartItem, error)

	// AddItem adds an item to a cart, accumulating quantity when the
	// product is already present.
	AddItem(ctx context.Context, item *model.CartItem) error

	// AttachCoupon associates a coupon with a cart.
	AttachCoupon(ctx context.Context, cartID, couponID uuid.UUID) error

	// MarkConverted closes an open cart within the provided transaction.
	// False means the cart was already converted.
	MarkConverted(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its code. Returns (nil, nil) when
	// no such code exists.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByID retrieves a coupon by its ID. Returns (nil, nil) when no
	// such coupon exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// Create inserts a coupon, reporting whether a row was actually
	// inserted. An existing code is left untouched and reported as false.
	Create(ctx context.Context, coupon *model.Coupon) (bool, error)

	// Redeem consumes one use of a coupon within the provided transaction.
	// False means the usage cap was already reached.
	Redeem(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// CourierRepository defines the interface for courier data access operations.
type CourierRepository interface {
	// GetByID retrieves a courier by its ID. Returns (nil, nil) when no
	// such courier exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Courier, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	// PrincipalByOwner retrieves the owner's principal address. Returns
	// (nil, nil) when the owner has no principal address.
	PrincipalByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Address, error)
}

// CommissionRepository defines the interface for commission-rate data access
// operations.
type CommissionRepository interface {
	// ActiveRate retrieves the active commission rate for a category.
	// Returns (nil, nil) when no rate is active.
	ActiveRate(ctx context.Context, category model.RateCategory) (*model.CommissionRate, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when no such product exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// ListByRestaurant retrieves a restaurant's products.
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]model.Product, error)
}
