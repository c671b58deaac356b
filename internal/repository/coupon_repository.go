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

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

const couponColumns = `
	id, code, type, value, min_order_value,
	valid_from, valid_until, max_uses, current_uses, active, created_at`

// GetByCode retrieves a coupon by its code.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT` + couponColumns + ` FROM coupons WHERE code = $1`
	return r.getCoupon(ctx, query, code)
}

// GetByID retrieves a coupon by its ID.
func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT` + couponColumns + ` FROM coupons WHERE id = $1`
	return r.getCoupon(ctx, query, id)
}

func (r *couponRepository) getCoupon(ctx context.Context, query string, arg any) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Type,
		&coupon.Value,
		&coupon.MinOrderValue,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.MaxUses,
		&coupon.CurrentUses,
		&coupon.Active,
		&coupon.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &coupon, nil
}

// Create inserts a coupon. A code already present is left untouched and
// reported as not created, which makes bulk imports re-runnable.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) (bool, error) {
	query := `
		INSERT INTO coupons (
			id, code, type, value, min_order_value,
			valid_from, valid_until, max_uses, current_uses, active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		coupon.ID, coupon.Code, coupon.Type, coupon.Value, coupon.MinOrderValue,
		coupon.ValidFrom, coupon.ValidUntil, coupon.MaxUses, coupon.CurrentUses,
		coupon.Active, coupon.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("code", coupon.Code).
			Msg("failed to create coupon")
		return false, fmt.Errorf("failed to create coupon: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Redeem consumes one use of a coupon. The cap check and the increment are
// a single statement, so concurrent redemptions past the cap lose cleanly.
func (r *couponRepository) Redeem(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE coupons
		SET current_uses = current_uses + 1
		WHERE id = $1 AND active AND current_uses < max_uses
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_id", id.String()).
			Msg("failed to redeem coupon")
		return false, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
