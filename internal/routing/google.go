// Package routing adapts the Google Maps Directions API to the estimator's
// Router interface.
package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"food-dash/internal/geo"
	"food-dash/internal/model"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// GoogleRouter resolves routes through the Google Maps Directions API.
type GoogleRouter struct {
	client *maps.Client
	logger zerolog.Logger
}

// NewGoogleRouter creates a router backed by the Directions API.
func NewGoogleRouter(apiKey string, logger zerolog.Logger) (*GoogleRouter, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleRouter{
		client: client,
		logger: logger.With().Str("component", "google-router").Logger(),
	}, nil
}

// Route resolves road distance and duration between two coordinates. The
// "cycling" profile maps to bicycling mode; everything else drives.
func (r *GoogleRouter) Route(ctx context.Context, origin, dest model.Coordinates, profile string) (geo.Route, error) {
	mode := maps.TravelModeDriving
	if profile == geo.ProfileCycling {
		mode = maps.TravelModeBicycling
	}

	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", dest.Lat, dest.Lng),
		Mode:        mode,
	}

	routes, _, err := r.client.Directions(ctx, req)
	if err != nil {
		return geo.Route{}, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return geo.Route{}, errors.New("no route found")
	}

	leg := routes[0].Legs[0]
	minutes := int(math.Ceil(leg.Duration.Minutes()))

	r.logger.Debug().
		Str("profile", profile).
		Int("distance_m", leg.Distance.Meters).
		Int("minutes", minutes).
		Msg("route resolved")

	return geo.Route{
		DistanceKm: float64(leg.Distance.Meters) / 1000.0,
		Minutes:    minutes,
		Polyline:   routes[0].OverviewPolyline.Points,
	}, nil
}
