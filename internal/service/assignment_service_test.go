package service

import (
	"context"
	"testing"

	"food-dash/internal/geo"
	"food-dash/internal/model"
	"food-dash/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type assignmentMocks struct {
	orderRepo   *MockOrderRepository
	courierRepo *MockCourierRepository
	addressRepo *MockAddressRepository
	estimator   *MockEstimator
	positions   *MockPositionStore
	notifier    *MockNotifier
}

func newAssignmentService() (*assignmentMocks, AssignmentService) {
	m := &assignmentMocks{
		orderRepo:   new(MockOrderRepository),
		courierRepo: new(MockCourierRepository),
		addressRepo: new(MockAddressRepository),
		estimator:   new(MockEstimator),
		positions:   new(MockPositionStore),
		notifier:    new(MockNotifier),
	}
	svc := NewAssignmentService(m.orderRepo, m.courierRepo, m.addressRepo, m.estimator, m.positions, m.notifier, zerolog.Nop())
	return m, svc
}

func approvedCourier() *model.Courier {
	return &model.Courier{
		ID:      uuid.New(),
		Name:    "Ana",
		Status:  model.CourierApproved,
		Vehicle: model.VehicleMotorcycle,
	}
}

func availableOrder() *model.Order {
	return &model.Order{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		RestaurantID: uuid.New(),
		Status:       model.StatusPreparing,
		DeliveryAddress: model.DeliveryAddress{
			Street: "Av Paulista 1000",
			City:   "Sao Paulo",
			Coords: &model.Coordinates{Lat: -23.5614, Lng: -46.6559},
		},
	}
}

func TestAssignmentService_Accept(t *testing.T) {
	ctx := context.Background()
	courier := approvedCourier()
	order := availableOrder()
	restaurantCoords := &model.Coordinates{Lat: -23.5505, Lng: -46.6333}

	m, svc := newAssignmentService()
	m.courierRepo.On("GetByID", ctx, courier.ID).Return(courier, nil)
	m.orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("AssignCourier", ctx, order.ID, courier.ID).Return(true, nil)
	m.addressRepo.On("PrincipalByOwner", ctx, order.RestaurantID).Return(&model.Address{
		OwnerID: order.RestaurantID,
		Coords:  restaurantCoords,
	}, nil)
	m.estimator.On("Estimate", ctx, restaurantCoords, order.DeliveryAddress.Coords, model.VehicleMotorcycle).Return(
		geo.Estimate{DistanceKm: 2.7, HasDistance: true, Minutes: 6, Source: geo.SourceLocal})
	m.orderRepo.On("SetEstimatedDelivery", ctx, order.ID, mock.AnythingOfType("time.Time")).Return(nil)
	m.notifier.On("Notify", ctx, notify.EventCourierAssigned, order.ID).Return()

	got, err := svc.Accept(ctx, model.Actor{ID: courier.ID, Role: model.RoleCourier}, order.ID)

	require.NoError(t, err)
	require.NotNil(t, got.CourierID)
	assert.Equal(t, courier.ID, *got.CourierID)
	assert.NotNil(t, got.EstimatedDeliveryAt)
	m.orderRepo.AssertExpectations(t)
	m.estimator.AssertExpectations(t)
}

func TestAssignmentService_Accept_RaceLost(t *testing.T) {
	ctx := context.Background()
	courier := approvedCourier()
	order := availableOrder()

	m, svc := newAssignmentService()
	m.courierRepo.On("GetByID", ctx, courier.ID).Return(courier, nil)
	m.orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("AssignCourier", ctx, order.ID, courier.ID).Return(false, nil)

	_, err := svc.Accept(ctx, model.Actor{ID: courier.ID, Role: model.RoleCourier}, order.ID)

	assert.ErrorIs(t, err, model.ErrOrderAlreadyProcessed)
	m.orderRepo.AssertNotCalled(t, "SetEstimatedDelivery", mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignmentService_Accept_AlreadyAssigned(t *testing.T) {
	ctx := context.Background()
	courier := approvedCourier()
	order := availableOrder()
	other := uuid.New()
	order.CourierID = &other

	m, svc := newAssignmentService()
	m.courierRepo.On("GetByID", ctx, courier.ID).Return(courier, nil)
	m.orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.Accept(ctx, model.Actor{ID: courier.ID, Role: model.RoleCourier}, order.ID)
	assert.ErrorIs(t, err, model.ErrOrderAlreadyProcessed)
}

func TestAssignmentService_Accept_UnapprovedCourier(t *testing.T) {
	ctx := context.Background()
	courier := approvedCourier()
	courier.Status = model.CourierPendingApproval

	m, svc := newAssignmentService()
	m.courierRepo.On("GetByID", ctx, courier.ID).Return(courier, nil)

	_, err := svc.Accept(ctx, model.Actor{ID: courier.ID, Role: model.RoleCourier}, uuid.New())

	assert.ErrorIs(t, err, model.ErrAccessDenied)
	m.orderRepo.AssertNotCalled(t, "AssignCourier", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignmentService_Accept_NonCourierDenied(t *testing.T) {
	ctx := context.Background()
	_, svc := newAssignmentService()

	_, err := svc.Accept(ctx, model.Actor{ID: uuid.New(), Role: model.RoleClient}, uuid.New())
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}

func TestAssignmentService_Accept_EstimateFailureDoesNotUndoClaim(t *testing.T) {
	ctx := context.Background()
	courier := approvedCourier()
	order := availableOrder()

	m, svc := newAssignmentService()
	m.courierRepo.On("GetByID", ctx, courier.ID).Return(courier, nil)
	m.orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("AssignCourier", ctx, order.ID, courier.ID).Return(true, nil)
	m.addressRepo.On("PrincipalByOwner", ctx, order.RestaurantID).Return(nil, assert.AnError)
	m.estimator.On("Estimate", ctx, (*model.Coordinates)(nil), order.DeliveryAddress.Coords, model.VehicleMotorcycle).Return(
		geo.Estimate{Minutes: 30, Source: geo.SourceDefault})
	m.orderRepo.On("SetEstimatedDelivery", ctx, order.ID, mock.AnythingOfType("time.Time")).Return(assert.AnError)
	m.notifier.On("Notify", ctx, notify.EventCourierAssigned, order.ID).Return()

	got, err := svc.Accept(ctx, model.Actor{ID: courier.ID, Role: model.RoleCourier}, order.ID)

	require.NoError(t, err)
	require.NotNil(t, got.CourierID)
	assert.Nil(t, got.EstimatedDeliveryAt)
}

func TestAssignmentService_ListAvailable(t *testing.T) {
	ctx := context.Background()
	orders := []model.Order{*availableOrder(), *availableOrder()}

	m, svc := newAssignmentService()
	m.orderRepo.On("ListAvailable", ctx).Return(orders, nil)

	got, err := svc.ListAvailable(ctx, model.Actor{ID: uuid.New(), Role: model.RoleCourier})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAssignmentService_ListAvailable_ClientDenied(t *testing.T) {
	ctx := context.Background()
	_, svc := newAssignmentService()

	_, err := svc.ListAvailable(ctx, model.Actor{ID: uuid.New(), Role: model.RoleClient})
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}

func TestAssignmentService_ListActiveAndHistory(t *testing.T) {
	ctx := context.Background()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleCourier}

	m, svc := newAssignmentService()
	m.orderRepo.On("ListByCourier", ctx, actor.ID,
		[]model.Status{model.StatusPreparing, model.StatusOutForDelivery}).Return([]model.Order{}, nil)
	m.orderRepo.On("ListByCourier", ctx, actor.ID,
		[]model.Status{model.StatusDelivered, model.StatusCanceled}).Return([]model.Order{}, nil)

	_, err := svc.ListActive(ctx, actor)
	require.NoError(t, err)
	_, err = svc.ListHistory(ctx, actor)
	require.NoError(t, err)

	m.orderRepo.AssertExpectations(t)
}

func TestAssignmentService_UpdatePosition(t *testing.T) {
	ctx := context.Background()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleCourier}

	m, svc := newAssignmentService()
	m.positions.On("UpdatePosition", ctx, actor.ID, model.Coordinates{Lat: -23.55, Lng: -46.63}).Return(nil)

	err := svc.UpdatePosition(ctx, actor, &model.UpdatePositionRequest{Lat: -23.55, Lng: -46.63})

	require.NoError(t, err)
	m.positions.AssertExpectations(t)
}

func TestAssignmentService_UpdatePosition_OutOfRange(t *testing.T) {
	ctx := context.Background()
	actor := model.Actor{ID: uuid.New(), Role: model.RoleCourier}
	_, svc := newAssignmentService()

	err := svc.UpdatePosition(ctx, actor, &model.UpdatePositionRequest{Lat: 91, Lng: 0})

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInvalidArgument, domainErr.Code)
}
