package handler

import (
	"context"
	"net/http"

	"food-dash/internal/model"
	"food-dash/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CourierHandler handles courier-facing HTTP requests.
type CourierHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewCourierHandler creates a new courier handler.
func NewCourierHandler(service service.AssignmentService, logger zerolog.Logger) *CourierHandler {
	return &CourierHandler{
		service: service,
		logger:  logger.With().Str("handler", "courier").Logger(),
	}
}

// Accept handles POST /api/courier/orders/{id}/accept requests.
func (h *CourierHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidArgument,
			Message: "invalid order ID format",
		})
		return
	}

	order, err := h.service.Accept(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListAvailable handles GET /api/courier/orders/available requests.
func (h *CourierHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListAvailable)
}

// ListActive handles GET /api/courier/orders/active requests.
func (h *CourierHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListActive)
}

// ListHistory handles GET /api/courier/orders/history requests.
func (h *CourierHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListHistory)
}

// UpdatePosition handles PUT /api/courier/position requests.
func (h *CourierHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req model.UpdatePositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdatePosition(r.Context(), actor, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CourierHandler) list(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor model.Actor) ([]model.Order, error)) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orders, err := fn(r.Context(), actor)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
