// Package geo computes delivery distance and travel-time estimates with an
// ordered fallback chain: external routing service first, great-circle
// computation second, configured default when coordinates are missing.
package geo

import (
	"context"
	"math"

	"food-dash/internal/model"

	"github.com/rs/zerolog"
)

// Routing profiles understood by Router implementations.
const (
	ProfileCycling = "cycling"
	ProfileDriving = "driving"
)

// Assumed average speeds for the great-circle fallback tier.
const (
	bicycleSpeedKmh = 15.0
	motorSpeedKmh   = 30.0
)

// Local-tier ETA bounds in minutes.
const (
	minLocalMinutes = 1
	maxLocalMinutes = 120
)

// distanceFloorKm snaps degenerate near-zero distances up to a sane minimum.
const distanceFloorKm = 0.1

// Source records which tier produced an estimate.
type Source string

const (
	SourceRouting Source = "routing"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Route is the result of an external routing call.
type Route struct {
	DistanceKm float64
	Minutes    int
	Polyline   string
}

// Router is the external routing capability. Implementations resolve a
// vehicle profile ("cycling" or "driving") into road distance and duration.
type Router interface {
	Route(ctx context.Context, origin, dest model.Coordinates, profile string) (Route, error)
}

// Estimate is a distance/ETA result. HasDistance is false only for the
// default tier, where no computation was possible.
type Estimate struct {
	DistanceKm  float64
	HasDistance bool
	Minutes     int
	Source      Source
}

// Config holds estimator tuning knobs.
type Config struct {
	// DefaultMinutes is returned when either endpoint has no coordinates.
	DefaultMinutes int
	// MinMinutes is the lower bound applied after the distance floor,
	// never below 1.
	MinMinutes int
}

// Estimator resolves distance and ETA between two coordinates.
type Estimator struct {
	router Router
	cfg    Config
	logger zerolog.Logger
}

// NewEstimator creates an estimator. router may be nil, in which case only
// the local tiers apply.
func NewEstimator(router Router, cfg Config, logger zerolog.Logger) *Estimator {
	if cfg.DefaultMinutes <= 0 {
		cfg.DefaultMinutes = 30
	}
	if cfg.MinMinutes < 1 {
		cfg.MinMinutes = 1
	}
	return &Estimator{
		router: router,
		cfg:    cfg,
		logger: logger.With().Str("component", "eta-estimator").Logger(),
	}
}

// Estimate computes distance and travel time from origin to dest for the
// given vehicle. Routing-service failures are swallowed and downgrade the
// result to the great-circle tier; they never propagate to the caller.
// Missing coordinates on either endpoint yield the configured default ETA
// with no distance.
func (e *Estimator) Estimate(ctx context.Context, origin, dest *model.Coordinates, vehicle model.VehicleType) Estimate {
	if origin == nil || dest == nil {
		return Estimate{Minutes: e.cfg.DefaultMinutes, Source: SourceDefault}
	}

	if e.router != nil {
		route, err := e.router.Route(ctx, *origin, *dest, ProfileFor(vehicle))
		if err == nil {
			return e.normalize(Estimate{
				DistanceKm:  route.DistanceKm,
				HasDistance: true,
				Minutes:     route.Minutes,
				Source:      SourceRouting,
			})
		}
		e.logger.Debug().Err(err).Msg("routing service unavailable, falling back to great-circle estimate")
	}

	km := HaversineKm(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	minutes := int(math.Ceil(km / speedKmh(vehicle) * 60))
	if minutes < minLocalMinutes {
		minutes = minLocalMinutes
	}
	if minutes > maxLocalMinutes {
		minutes = maxLocalMinutes
	}

	return e.normalize(Estimate{
		DistanceKm:  km,
		HasDistance: true,
		Minutes:     minutes,
		Source:      SourceLocal,
	})
}

// normalize applies the distance floor and the minimum-minute bound so that
// near-zero routes never produce degenerate estimates.
func (e *Estimator) normalize(est Estimate) Estimate {
	if est.HasDistance && est.DistanceKm < distanceFloorKm {
		est.DistanceKm = distanceFloorKm
		if est.Minutes < e.cfg.MinMinutes {
			est.Minutes = e.cfg.MinMinutes
		}
	}
	if est.Minutes < 1 {
		est.Minutes = 1
	}
	return est
}

// ProfileFor maps a vehicle type to its routing profile.
func ProfileFor(vehicle model.VehicleType) string {
	if vehicle == model.VehicleBicycle {
		return ProfileCycling
	}
	return ProfileDriving
}

func speedKmh(vehicle model.VehicleType) float64 {
	if vehicle == model.VehicleBicycle {
		return bicycleSpeedKmh
	}
	return motorSpeedKmh
}
