package repository

import (
	"context"
	"fmt"
	"time"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func (r *orderRepository) db(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.pool
}

const orderColumns = `
	id, client_id, restaurant_id, courier_id, status,
	subtotal, discount, delivery_fee, total,
	platform_fee_restaurant, platform_fee_courier,
	net_value_restaurant, net_value_courier,
	payment_method, change_for, coupon_id,
	delivery_street, delivery_city, delivery_lat, delivery_lng,
	estimated_delivery_at, cancel_reason, created_at, updated_at`

// scanOrder reads a full order row, folding the nullable delivery
// coordinates back into the address snapshot.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order    model.Order
		lat, lng *float64
	)

	err := row.Scan(
		&order.ID, &order.ClientID, &order.RestaurantID, &order.CourierID, &order.Status,
		&order.Subtotal, &order.Discount, &order.DeliveryFee, &order.Total,
		&order.PlatformFeeRestaurant, &order.PlatformFeeCourier,
		&order.NetValueRestaurant, &order.NetValueCourier,
		&order.PaymentMethod, &order.ChangeFor, &order.CouponID,
		&order.DeliveryAddress.Street, &order.DeliveryAddress.City, &lat, &lng,
		&order.EstimatedDeliveryAt, &order.CancelReason, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		order.DeliveryAddress.Coords = &model.Coordinates{Lat: *lat, Lng: *lng}
	}

	return &order, nil
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, client_id, restaurant_id, status,
			subtotal, discount, delivery_fee, total,
			payment_method, change_for, coupon_id,
			delivery_street, delivery_city, delivery_lat, delivery_lng,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	var lat, lng *float64
	if coords := order.DeliveryAddress.Coords; coords != nil {
		lat, lng = &coords.Lat, &coords.Lng
	}

	_, err := tx.Exec(ctx, query,
		order.ID, order.ClientID, order.RestaurantID, order.Status,
		order.Subtotal, order.Discount, order.DeliveryFee, order.Total,
		order.PaymentMethod, order.ChangeFor, order.CouponID,
		order.DeliveryAddress.Street, order.DeliveryAddress.City, lat, lng,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, nil
}

// UpdateStatus transitions an order between statuses with a conditional
// update. Only the writer that still sees the expected status wins.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.Status) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`

	tag, err := r.db(tx).Exec(ctx, query, id, from, to)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// AssignCourier claims an order for a courier. The guard ensures exactly one
// of any number of concurrent acceptors wins.
func (r *orderRepository) AssignCourier(ctx context.Context, id, courierID uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET courier_id = $2, updated_at = now()
		WHERE id = $1 AND status = 'PREPARING' AND courier_id IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, courierID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("courier_id", courierID.String()).
			Msg("failed to assign courier")
		return false, fmt.Errorf("failed to assign courier: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Cancel moves a non-terminal order to CANCELED.
func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID, reason *string) (bool, error) {
	query := `
		UPDATE orders
		SET status = 'CANCELED', cancel_reason = $2, updated_at = now()
		WHERE id = $1 AND status NOT IN ('DELIVERED', 'CANCELED')
	`

	tag, err := r.pool.Exec(ctx, query, id, reason)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to cancel order")
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetEstimatedDelivery stores the estimated delivery time.
func (r *orderRepository) SetEstimatedDelivery(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE orders
		SET estimated_delivery_at = $2, updated_at = now()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to set estimated delivery time")
		return fmt.Errorf("failed to set estimated delivery time: %w", err)
	}

	return nil
}

// ApplyFinalValues writes the settlement amounts within the provided
// transaction.
func (r *orderRepository) ApplyFinalValues(ctx context.Context, tx pgx.Tx, id uuid.UUID, values model.SettlementValues) error {
	query := `
		UPDATE orders
		SET platform_fee_restaurant = $2,
		    platform_fee_courier = $3,
		    net_value_restaurant = $4,
		    net_value_courier = $5,
		    updated_at = now()
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, id,
		values.PlatformFeeRestaurant, values.PlatformFeeCourier,
		values.NetValueRestaurant, values.NetValueCourier,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to apply settlement values")
		return fmt.Errorf("failed to apply settlement values: %w", err)
	}

	return nil
}

// ListAvailable retrieves unassigned PREPARING orders, oldest first.
func (r *orderRepository) ListAvailable(ctx context.Context) ([]model.Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE status = 'PREPARING' AND courier_id IS NULL
		ORDER BY created_at ASC`

	return r.listOrders(ctx, query)
}

// ListByCourier retrieves a courier's orders in any of the given statuses.
func (r *orderRepository) ListByCourier(ctx context.Context, courierID uuid.UUID, statuses []model.Status) ([]model.Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE courier_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC`

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	return r.listOrders(ctx, query, courierID, values)
}

// ListByClient retrieves a client's orders, most recent first.
func (r *orderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE client_id = $1
		ORDER BY created_at DESC`

	return r.listOrders(ctx, query, clientID)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
