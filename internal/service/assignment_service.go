package service

import (
	"context"
	"fmt"
	"time"

	"food-dash/internal/model"
	"food-dash/internal/notify"
	"food-dash/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// assignmentService implements AssignmentService. Order assignment is
// pull-based: couriers browse available orders and claim one, and a single
// conditional update decides the winner among concurrent claims.
type assignmentService struct {
	orderRepo   repository.OrderRepository
	courierRepo repository.CourierRepository
	addressRepo repository.AddressRepository
	estimator   ETAEstimator
	positions   PositionStore
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(
	orderRepo repository.OrderRepository,
	courierRepo repository.CourierRepository,
	addressRepo repository.AddressRepository,
	estimator ETAEstimator,
	positions PositionStore,
	notifier notify.Notifier,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		orderRepo:   orderRepo,
		courierRepo: courierRepo,
		addressRepo: addressRepo,
		estimator:   estimator,
		positions:   positions,
		notifier:    notifier,
		logger:      logger.With().Str("service", "assignment").Logger(),
	}
}

// Accept claims an available order for the acting courier. The claim is a
// single conditional update, so of any number of couriers accepting the
// same order concurrently exactly one wins; the rest see the order as
// already processed. The delivery estimate is computed after the claim, off
// the critical path.
func (s *assignmentService) Accept(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	courier, err := s.requireApprovedCourier(ctx, actor)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.Status != model.StatusPreparing || order.CourierID != nil {
		return nil, model.ErrOrderAlreadyProcessed
	}

	ok, err := s.orderRepo.AssignCourier(ctx, order.ID, courier.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept order: %w", err)
	}
	if !ok {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("courier_id", courier.ID.String()).
			Msg("lost assignment race")
		return nil, model.ErrOrderAlreadyProcessed
	}

	order.CourierID = &courier.ID

	s.estimateDelivery(ctx, order, courier)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("courier_id", courier.ID.String()).
		Msg("order accepted by courier")

	s.notifier.Notify(ctx, notify.EventCourierAssigned, order.ID)
	return order, nil
}

// ListAvailable retrieves orders open for self-assignment.
func (s *assignmentService) ListAvailable(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if actor.Role != model.RoleCourier && !actor.IsAdmin() {
		return nil, model.ErrAccessDenied
	}

	orders, err := s.orderRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list available orders: %w", err)
	}
	return orders, nil
}

// ListActive retrieves the acting courier's in-flight orders.
func (s *assignmentService) ListActive(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	return s.listByCourier(ctx, actor, []model.Status{model.StatusPreparing, model.StatusOutForDelivery})
}

// ListHistory retrieves the acting courier's completed orders.
func (s *assignmentService) ListHistory(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	return s.listByCourier(ctx, actor, []model.Status{model.StatusDelivered, model.StatusCanceled})
}

// UpdatePosition records the acting courier's reported position.
func (s *assignmentService) UpdatePosition(ctx context.Context, actor model.Actor, req *model.UpdatePositionRequest) error {
	if actor.Role != model.RoleCourier {
		return model.ErrAccessDenied
	}
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidArgument, "Position is required")
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return model.NewDomainError(model.ErrCodeInvalidArgument, "Position is out of range")
	}

	coords := model.Coordinates{Lat: req.Lat, Lng: req.Lng}
	if err := s.positions.UpdatePosition(ctx, actor.ID, coords); err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return nil
}

func (s *assignmentService) listByCourier(ctx context.Context, actor model.Actor, statuses []model.Status) ([]model.Order, error) {
	if actor.Role != model.RoleCourier {
		return nil, model.ErrAccessDenied
	}

	orders, err := s.orderRepo.ListByCourier(ctx, actor.ID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list courier orders: %w", err)
	}
	return orders, nil
}

func (s *assignmentService) requireApprovedCourier(ctx context.Context, actor model.Actor) (*model.Courier, error) {
	if actor.Role != model.RoleCourier {
		return nil, model.ErrAccessDenied
	}

	courier, err := s.courierRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get courier: %w", err)
	}
	if courier == nil {
		return nil, model.ErrCourierNotFound
	}
	if courier.Status != model.CourierApproved {
		s.logger.Warn().
			Str("courier_id", courier.ID.String()).
			Str("status", string(courier.Status)).
			Msg("unapproved courier attempted to accept an order")
		return nil, model.ErrAccessDenied
	}

	return courier, nil
}

// estimateDelivery computes and stores the estimated delivery time from the
// restaurant to the delivery address. Any failure here degrades the order
// to no estimate; the assignment itself already happened.
func (s *assignmentService) estimateDelivery(ctx context.Context, order *model.Order, courier *model.Courier) {
	var origin *model.Coordinates
	address, err := s.addressRepo.PrincipalByOwner(ctx, order.RestaurantID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("could not load restaurant address for estimate")
	} else if address != nil {
		origin = address.Coords
	}

	estimate := s.estimator.Estimate(ctx, origin, order.DeliveryAddress.Coords, courier.Vehicle)
	eta := time.Now().Add(time.Duration(estimate.Minutes) * time.Minute)

	if err := s.orderRepo.SetEstimatedDelivery(ctx, order.ID, eta); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to store delivery estimate")
		return
	}

	order.EstimatedDeliveryAt = &eta

	s.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("source", string(estimate.Source)).
		Int("minutes", estimate.Minutes).
		Msg("delivery estimated")
}
