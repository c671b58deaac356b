package handler

import (
	"context"
	"net/http"

	"food-dash/internal/model"
	"food-dash/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	settlement service.SettlementService
	lifecycle  service.LifecycleService
	logger     zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(settlement service.SettlementService, lifecycle service.LifecycleService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		settlement: settlement,
		lifecycle:  lifecycle,
		logger:     logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.settlement.CreateOrder(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Checkout handles POST /api/orders/checkout requests, converting an open
// cart into an order.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.settlement.CreateOrderFromCart(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.settlement.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// List handles GET /api/orders requests, returning the acting client's
// orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.settlement.ListClientOrders(r.Context(), actor)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Confirm handles POST /api/orders/{id}/confirm requests.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.Confirm)
}

// StartPreparing handles POST /api/orders/{id}/prepare requests.
func (h *OrderHandler) StartPreparing(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.StartPreparing)
}

// MarkOutForDelivery handles POST /api/orders/{id}/dispatch requests.
func (h *OrderHandler) MarkOutForDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.MarkOutForDelivery)
}

// MarkDelivered handles POST /api/orders/{id}/deliver requests.
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.MarkDelivered)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	// An empty body means cancellation without a reason.
	var req model.CancelOrderRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.lifecycle.Cancel(r.Context(), actor, orderID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Order, error)) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := fn(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidArgument,
			Message: "invalid order ID format",
		})
		return uuid.Nil, false
	}
	return orderID, true
}
