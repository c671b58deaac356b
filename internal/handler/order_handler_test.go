package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-dash/internal/middleware"
	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSettlementService is a mock implementation of service.SettlementService.
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) CreateOrder(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockSettlementService) CreateOrderFromCart(ctx context.Context, actor model.Actor, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockSettlementService) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockSettlementService) ListClientOrders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockLifecycleService is a mock implementation of service.LifecycleService.
type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) transitionCall(ctx context.Context, actor model.Actor, orderID uuid.UUID, name string) (*model.Order, error) {
	args := m.MethodCalled(name, ctx, actor, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockLifecycleService) Confirm(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	return m.transitionCall(ctx, actor, orderID, "Confirm")
}

func (m *MockLifecycleService) StartPreparing(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	return m.transitionCall(ctx, actor, orderID, "StartPreparing")
}

func (m *MockLifecycleService) MarkOutForDelivery(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	return m.transitionCall(ctx, actor, orderID, "MarkOutForDelivery")
}

func (m *MockLifecycleService) MarkDelivered(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error) {
	return m.transitionCall(ctx, actor, orderID, "MarkDelivered")
}

func (m *MockLifecycleService) Cancel(ctx context.Context, actor model.Actor, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// withActor routes a request through the actor middleware with the given
// identity, the way the real router does.
func withActor(h http.HandlerFunc, actor model.Actor) (http.Handler, func(*http.Request)) {
	wrapped := middleware.Actor(zerolog.Nop())(h)
	setHeaders := func(r *http.Request) {
		r.Header.Set("X-Actor-ID", actor.ID.String())
		r.Header.Set("X-Actor-Role", string(actor.Role))
	}
	return wrapped, setHeaders
}

func TestOrderHandler_Create(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), Role: model.RoleClient}
	order := &model.Order{
		ID:       uuid.New(),
		ClientID: actor.ID,
		Status:   model.StatusCreated,
		Total:    decimal.RequireFromString("45.00"),
	}

	settlement := new(MockSettlementService)
	settlement.On("CreateOrder", mock.Anything, actor, mock.AnythingOfType("*model.CreateOrderRequest")).Return(order, nil)

	h := NewOrderHandler(settlement, new(MockLifecycleService), zerolog.Nop())
	wrapped, setHeaders := withActor(h.Create, actor)

	body, _ := json.Marshal(model.CreateOrderRequest{
		RestaurantID:  uuid.New(),
		Items:         []model.OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: model.PaymentPix,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	setHeaders(req)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, order.ID, got.ID)
	settlement.AssertExpectations(t)
}

func TestOrderHandler_Create_InvalidBody(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), Role: model.RoleClient}
	h := NewOrderHandler(new(MockSettlementService), new(MockLifecycleService), zerolog.Nop())
	wrapped, setHeaders := withActor(h.Create, actor)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{not json")))
	setHeaders(req)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeInvalidJSON, resp.Error)
}

func TestOrderHandler_Create_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "Not found maps to 404", err: model.ErrOrderNotFound, wantStatus: http.StatusNotFound},
		{name: "Already processed maps to 409", err: model.ErrOrderAlreadyProcessed, wantStatus: http.StatusConflict},
		{name: "Access denied maps to 403", err: model.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "Unavailable product maps to 400", err: model.ErrProductUnavailable, wantStatus: http.StatusBadRequest},
		{name: "Exhausted coupon maps to 409", err: model.ErrCouponExhausted, wantStatus: http.StatusConflict},
		{name: "Gateway failure maps to 502", err: model.ErrPaymentGateway, wantStatus: http.StatusBadGateway},
		{name: "Unknown error maps to 500", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := model.Actor{ID: uuid.New(), Role: model.RoleClient}
			settlement := new(MockSettlementService)
			settlement.On("CreateOrder", mock.Anything, actor, mock.Anything).Return(nil, tt.err)

			h := NewOrderHandler(settlement, new(MockLifecycleService), zerolog.Nop())
			wrapped, setHeaders := withActor(h.Create, actor)

			body, _ := json.Marshal(model.CreateOrderRequest{PaymentMethod: model.PaymentPix})
			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
			setHeaders(req)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestOrderHandler_Cancel_WithReason(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), Role: model.RoleClient}
	orderID := uuid.New()
	canceled := &model.Order{ID: orderID, Status: model.StatusCanceled}

	lifecycle := new(MockLifecycleService)
	lifecycle.On("Cancel", mock.Anything, actor, orderID, mock.MatchedBy(func(req *model.CancelOrderRequest) bool {
		return req != nil && req.Reason == "too slow"
	})).Return(canceled, nil)

	h := NewOrderHandler(new(MockSettlementService), lifecycle, zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.Cancel)
	wrapped := middleware.Actor(zerolog.Nop())(mux)

	body, _ := json.Marshal(model.CancelOrderRequest{Reason: "too slow"})
	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/cancel", bytes.NewReader(body))
	req.Header.Set("X-Actor-ID", actor.ID.String())
	req.Header.Set("X-Actor-Role", string(actor.Role))
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	lifecycle.AssertExpectations(t)
}

func TestOrderHandler_GetByID_BadID(t *testing.T) {
	actor := model.Actor{ID: uuid.New(), Role: model.RoleClient}
	h := NewOrderHandler(new(MockSettlementService), new(MockLifecycleService), zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/{id}", h.GetByID)
	wrapped := middleware.Actor(zerolog.Nop())(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil)
	req.Header.Set("X-Actor-ID", actor.ID.String())
	req.Header.Set("X-Actor-Role", string(actor.Role))
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
