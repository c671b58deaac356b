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

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// PrincipalByOwner retrieves the owner's principal address.
func (r *addressRepository) PrincipalByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, owner_id, street, city, principal, lat, lng
		FROM addresses
		WHERE owner_id = $1 AND principal
		LIMIT 1
	`

	var (
		address  model.Address
		lat, lng *float64
	)
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&address.ID,
		&address.OwnerID,
		&address.Street,
		&address.City,
		&address.Principal,
		&lat,
		&lng,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("owner_id", ownerID.String()).Msg("no principal address")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("owner_id", ownerID.String()).Msg("failed to query principal address")
		return nil, fmt.Errorf("failed to query principal address: %w", err)
	}

	if lat != nil && lng != nil {
		address.Coords = &model.Coordinates{Lat: *lat, Lng: *lng}
	}

	return &address, nil
}
