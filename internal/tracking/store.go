package tracking

import (
	"context"
	"fmt"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// couriersKey is the geo set holding the last reported position of every
// active courier.
const couriersKey = "tracking:couriers"

// Store keeps live courier positions in a Redis geo set. Positions are
// ephemeral operational data and are never written to PostgreSQL.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewStore creates a new Redis-backed position store.
func NewStore(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With().Str("component", "tracking").Logger(),
	}
}

// UpdatePosition records a courier's reported position, replacing any
// previous one.
func (s *Store) UpdatePosition(ctx context.Context, courierID uuid.UUID, coords model.Coordinates) error {
	err := s.client.GeoAdd(ctx, couriersKey, &redis.GeoLocation{
		Name:      courierID.String(),
		Longitude: coords.Lng,
		Latitude:  coords.Lat,
	}).Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("courier_id", courierID.String()).
			Msg("failed to update courier position")
		return fmt.Errorf("failed to update courier position: %w", err)
	}

	return nil
}

// Position retrieves a courier's last known position. The second return
// value reports whether a position is known.
func (s *Store) Position(ctx context.Context, courierID uuid.UUID) (model.Coordinates, bool, error) {
	positions, err := s.client.GeoPos(ctx, couriersKey, courierID.String()).Result()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("courier_id", courierID.String()).
			Msg("failed to query courier position")
		return model.Coordinates{}, false, fmt.Errorf("failed to query courier position: %w", err)
	}

	if len(positions) == 0 || positions[0] == nil {
		return model.Coordinates{}, false, nil
	}

	return model.Coordinates{Lat: positions[0].Latitude, Lng: positions[0].Longitude}, true, nil
}

// SeedPosition records a position only when the courier has none yet,
// reporting whether the seed was applied. Used to bootstrap tracking from
// the restaurant location when a delivery starts before the courier's first
// position report.
func (s *Store) SeedPosition(ctx context.Context, courierID uuid.UUID, coords model.Coordinates) (bool, error) {
	_, known, err := s.Position(ctx, courierID)
	if err != nil {
		return false, err
	}
	if known {
		return false, nil
	}

	if err := s.UpdatePosition(ctx, courierID, coords); err != nil {
		return false, err
	}

	s.logger.Debug().
		Str("courier_id", courierID.String()).
		Float64("lat", coords.Lat).
		Float64("lng", coords.Lng).
		Msg("courier position seeded")

	return true, nil
}

// Remove drops a courier from the geo set.
func (s *Store) Remove(ctx context.Context, courierID uuid.UUID) error {
	err := s.client.ZRem(ctx, couriersKey, courierID.String()).Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("courier_id", courierID.String()).
			Msg("failed to remove courier position")
		return fmt.Errorf("failed to remove courier position: %w", err)
	}

	return nil
}
