package repository

import (
	"context"
	"fmt"

	"food-dash/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// commissionRepository implements the CommissionRepository interface using
// PostgreSQL.
type commissionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCommissionRepository creates a new PostgreSQL-backed commission-rate
// repository.
func NewCommissionRepository(pool *pgxpool.Pool, logger zerolog.Logger) CommissionRepository {
	return &commissionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "commission").Logger(),
	}
}

// ActiveRate retrieves the active commission rate for a category.
func (r *commissionRepository) ActiveRate(ctx context.Context, category model.RateCategory) (*model.CommissionRate, error) {
	query := `
		SELECT id, category, percent, active, created_at
		FROM commission_rates
		WHERE category = $1 AND active
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rate model.CommissionRate
	err := r.pool.QueryRow(ctx, query, category).Scan(
		&rate.ID,
		&rate.Category,
		&rate.Percent,
		&rate.Active,
		&rate.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("category", string(category)).Msg("no active commission rate")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category", string(category)).Msg("failed to query commission rate")
		return nil, fmt.Errorf("failed to query commission rate: %w", err)
	}

	return &rate, nil
}
