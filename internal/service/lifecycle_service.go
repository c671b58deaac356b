package service

import (
	"context"
	"fmt"

	"food-dash/internal/model"
	"food-dash/internal/notify"
	"food-dash/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// lifecycleService implements LifecycleService. Every transition is a
// conditional update keyed on the expected current status, so two callers
// racing on the same order cannot both succeed.
type lifecycleService struct {
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
	settler     Settler
	positions   PositionStore
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	settler Settler,
	positions PositionStore,
	notifier notify.Notifier,
	logger zerolog.Logger,
) LifecycleService {
	return &lifecycleService{
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		settler:     settler,
		positions:   positions,
		notifier:    notifier,
		logger:      logger.With().Str("service", "lifecycle").Logger(),
	}
}

// Confirm moves a CREATED order to CONFIRMED. Confirmation comes from the
// payment side of the platform, so only admin credentials may call it.
func (s *lifecycleService) Confirm(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, model.ErrAccessDenied
	}
	if order.Status != model.StatusCreated {
		return nil, model.ErrOrderAlreadyProcessed
	}

	if err := s.transition(ctx, order, model.StatusCreated, model.StatusConfirmed); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.EventOrderConfirmed, order.ID)
	return order, nil
}

// StartPreparing moves a CONFIRMED order to PREPARING. Only the restaurant
// bound to the order (or an admin) may start preparation; once it applies,
// the order becomes visible to couriers.
func (s *lifecycleService) StartPreparing(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (actor.Role != model.RoleRestaurant || order.RestaurantID != actor.ID) {
		return nil, model.ErrAccessDenied
	}
	if order.Status != model.StatusConfirmed {
		return nil, model.ErrOrderAlreadyProcessed
	}

	if err := s.transition(ctx, order, model.StatusConfirmed, model.StatusPreparing); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.EventOrderAvailable, order.ID)
	return order, nil
}

// MarkOutForDelivery moves an assigned PREPARING order to OUT_FOR_DELIVERY.
// Only the assigned courier (or an admin) may start the delivery. When the
// courier has no known position yet, tracking is bootstrapped from the
// restaurant's principal address; a tracking failure never blocks the
// transition.
func (s *lifecycleService) MarkOutForDelivery(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (actor.Role != model.RoleCourier || order.CourierID == nil || *order.CourierID != actor.ID) {
		return nil, model.ErrAccessDenied
	}
	if order.Status != model.StatusPreparing || order.CourierID == nil {
		return nil, model.ErrOrderAlreadyProcessed
	}

	if err := s.transition(ctx, order, model.StatusPreparing, model.StatusOutForDelivery); err != nil {
		return nil, err
	}

	s.seedCourierPosition(ctx, order)

	s.notifier.Notify(ctx, notify.EventOrderOutForDelivery, order.ID)
	return order, nil
}

// MarkDelivered moves an OUT_FOR_DELIVERY order to DELIVERED and settles
// it. The status change and the settlement values commit atomically: a
// delivered order always has its final values, and final values only ever
// belong to a delivered order.
func (s *lifecycleService) MarkDelivered(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (actor.Role != model.RoleCourier || order.CourierID == nil || *order.CourierID != actor.ID) {
		return nil, model.ErrAccessDenied
	}
	if order.Status != model.StatusOutForDelivery {
		return nil, model.ErrOrderAlreadyProcessed
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var ok bool
	ok, err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.StatusOutForDelivery, model.StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver order: %w", err)
	}
	if !ok {
		err = model.ErrOrderAlreadyProcessed
		return nil, err
	}

	if err = s.settler.ApplyFinalValues(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to settle order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to deliver order: %w", err)
	}

	order.Status = model.StatusDelivered

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Msg("order delivered and settled")

	s.notifier.Notify(ctx, notify.EventOrderDelivered, order.ID)
	return order, nil
}

// Cancel moves a non-terminal order to CANCELED and triggers a best-effort
// refund. Clients and restaurants may cancel their own orders; couriers may
// not cancel at all.
func (s *lifecycleService) Cancel(ctx context.Context, actor model.Actor, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed := actor.IsAdmin() ||
		(actor.Role == model.RoleClient && order.ClientID == actor.ID) ||
		(actor.Role == model.RoleRestaurant && order.RestaurantID == actor.ID)
	if !allowed {
		return nil, model.ErrAccessDenied
	}
	if order.Status.IsTerminal() {
		return nil, model.ErrOrderAlreadyProcessed
	}

	var reason *string
	if req != nil && req.Reason != "" {
		reason = &req.Reason
	}

	ok, err := s.orderRepo.Cancel(ctx, order.ID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if !ok {
		return nil, model.ErrOrderAlreadyProcessed
	}

	order.Status = model.StatusCanceled
	order.CancelReason = reason

	reasonText := "order canceled"
	if reason != nil {
		reasonText = *reason
	}
	s.settler.RefundOnCancel(ctx, order, reasonText)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("actor_role", string(actor.Role)).
		Msg("order canceled")

	s.notifier.Notify(ctx, notify.EventOrderCanceled, order.ID)
	return order, nil
}

func (s *lifecycleService) loadOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (s *lifecycleService) transition(ctx context.Context, order *model.Order, from, to model.Status) error {
	ok, err := s.orderRepo.UpdateStatus(ctx, nil, order.ID, from, to)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !ok {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("lost status transition race")
		return model.ErrOrderAlreadyProcessed
	}

	order.Status = to

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", string(to)).
		Msg("order status updated")

	return nil
}

// seedCourierPosition bootstraps the courier's tracking position from the
// restaurant's principal address when no position has been reported yet.
func (s *lifecycleService) seedCourierPosition(ctx context.Context, order *model.Order) {
	if order.CourierID == nil {
		return
	}

	address, err := s.addressRepo.PrincipalByOwner(ctx, order.RestaurantID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("could not load restaurant address for position seed")
		return
	}
	if address == nil || address.Coords == nil {
		return
	}

	if _, err := s.positions.SeedPosition(ctx, *order.CourierID, *address.Coords); err != nil {
		s.logger.Warn().
			Err(err).
			Str("courier_id", order.CourierID.String()).
			Msg("failed to seed courier position")
	}
}
