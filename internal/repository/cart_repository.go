package repository

import (
	"context"
	"fmt"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Create inserts a new open cart.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, client_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, cart.ID, cart.ClientID, cart.Status, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cart.ID.String()).
			Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Msg("cart created successfully")

	return nil
}

// GetOpenByID retrieves an open cart and its items by cart ID.
func (r *cartRepository) GetOpenByID(ctx context.Context, id uuid.UUID) (*model.Cart, []model.CartItem, error) {
	query := `
		SELECT id, client_id, coupon_id, status, created_at, updated_at
		FROM carts
		WHERE id = $1 AND status = 'OPEN'
	`

	return r.getCart(ctx, query, id)
}

// GetOpenByClient retrieves a client's open cart and its items.
func (r *cartRepository) GetOpenByClient(ctx context.Context, clientID uuid.UUID) (*model.Cart, []model.CartItem, error) {
	query := `
		SELECT id, client_id, coupon_id, status, created_at, updated_at
		FROM carts
		WHERE client_id = $1 AND status = 'OPEN'
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.getCart(ctx, query, clientID)
}

func (r *cartRepository) getCart(ctx context.Context, query string, arg any) (*model.Cart, []model.CartItem, error) {
	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&cart.ID,
		&cart.ClientID,
		&cart.CouponID,
		&cart.Status,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query cart")
		return nil, nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, quantity, unit_price
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cart.ID.String()).
			Msg("failed to query cart items")
		return nil, nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, items, nil
}

// AddItem adds an item to a cart, accumulating quantity for a product
// already in the cart. The snapshotted unit price is kept from the first
// insert.
func (r *cartRepository) AddItem(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.pool.Exec(ctx, query, item.ID, item.CartID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", item.CartID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// AttachCoupon associates a coupon with a cart.
func (r *cartRepository) AttachCoupon(ctx context.Context, cartID, couponID uuid.UUID) error {
	query := `
		UPDATE carts
		SET coupon_id = $2, updated_at = now()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, cartID, couponID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("coupon_id", couponID.String()).
			Msg("failed to attach coupon to cart")
		return fmt.Errorf("failed to attach coupon to cart: %w", err)
	}

	return nil
}

// MarkConverted closes an open cart. False means another checkout already
// converted it.
func (r *cartRepository) MarkConverted(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE carts
		SET status = 'CONVERTED', updated_at = now()
		WHERE id = $1 AND status = 'OPEN'
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cart_id", id.String()).
			Msg("failed to mark cart converted")
		return false, fmt.Errorf("failed to mark cart converted: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
