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

// courierRepository implements the CourierRepository interface using PostgreSQL.
type courierRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCourierRepository creates a new PostgreSQL-backed courier repository.
func NewCourierRepository(pool *pgxpool.Pool, logger zerolog.Logger) CourierRepository {
	return &courierRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "courier").Logger(),
	}
}

// GetByID retrieves a courier by its ID.
func (r *courierRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Courier, error) {
	query := `
		SELECT id, name, status, vehicle, created_at
		FROM couriers
		WHERE id = $1
	`

	var courier model.Courier
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&courier.ID,
		&courier.Name,
		&courier.Status,
		&courier.Vehicle,
		&courier.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("courier_id", id.String()).Msg("courier not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("courier_id", id.String()).Msg("failed to query courier")
		return nil, fmt.Errorf("failed to query courier: %w", err)
	}

	return &courier, nil
}
